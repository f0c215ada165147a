package finance

import (
	"fmt"
	"time"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevisionStatus represents the approval status of a proposed invoice edit
type RevisionStatus string

const (
	RevisionStatusNeedApproval RevisionStatus = "NEED_APPROVAL"
	RevisionStatusApproved     RevisionStatus = "APPROVED"
	RevisionStatusRejected     RevisionStatus = "REJECTED"
)

// IsValid checks if the status is a valid RevisionStatus
func (s RevisionStatus) IsValid() bool {
	switch s {
	case RevisionStatusNeedApproval, RevisionStatusApproved, RevisionStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of RevisionStatus
func (s RevisionStatus) String() string {
	return string(s)
}

// RevisionInput is the caller-supplied shape of a proposed invoice edit
type RevisionInput struct {
	InvoiceNumber  string
	RecipientEmail string
	InvoiceDate    time.Time
	PaymentTerm    string
	ThirdPartyID   *uuid.UUID
	Currency       valueobject.Currency
	ExchangeRate   decimal.Decimal
	PPNPercent     decimal.Decimal
	Prices         []PriceInput
}

// InvoiceRevision captures a proposed edit of an issued invoice's header and
// price lines. At most one revision per invoice may sit in NEED_APPROVAL; on
// approval it overwrites the live invoice, on rejection the live invoice is
// left untouched.
type InvoiceRevision struct {
	ID             uuid.UUID            `json:"id"`
	InvoiceNumber  string               `json:"invoice_number"`
	RecipientEmail string               `json:"recipient_email"`
	InvoiceDate    time.Time            `json:"invoice_date"`
	DueDate        time.Time            `json:"due_date"`
	PaymentTerm    string               `json:"payment_term"`
	ThirdPartyID   *uuid.UUID           `json:"third_party_id,omitempty"`
	Currency       valueobject.Currency `json:"currency"`
	ExchangeRate   decimal.Decimal      `json:"exchange_rate"`
	PPNPercent     decimal.Decimal      `json:"ppn_percent"`
	Prices         []PriceInput         `json:"prices"`
	Status         RevisionStatus       `json:"status"`
	RequestedByID  uuid.UUID            `json:"requested_by_id"`
	RequestedBy    string               `json:"requested_by"`
	RequestReason  string               `json:"request_reason"`
	RequestedAt    time.Time            `json:"requested_at"`
	DecidedAt      *time.Time           `json:"decided_at,omitempty"`
}

// RequestRevision records a proposed edit of an issued invoice and marks the
// live invoice NEED_APPROVAL. A second request while one is pending fails
// with an invalid-state error rather than superseding it.
func (inv *Invoice) RequestRevision(input RevisionInput, reason string, actor ActorRef) error {
	if inv.Revision != nil && inv.Revision.Status == RevisionStatusNeedApproval {
		return shared.NewDomainError("INVALID_STATE", "An invoice revision is already awaiting approval")
	}
	if !inv.Status.CanRequestEdit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit invoice in %s status", inv.Status))
	}
	if input.InvoiceNumber == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Invoice number cannot be empty")
	}
	if !input.Currency.IsValid() {
		return shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("Unsupported currency code %q", input.Currency))
	}
	if input.Currency == valueobject.IDR {
		input.ExchangeRate = decimal.NewFromInt(1)
	}
	if !input.ExchangeRate.IsPositive() {
		return shared.NewDomainError("VALIDATION_FAILED", "Exchange rate must be positive")
	}
	if len(input.Prices) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "At least one price line is required")
	}
	dueDate, err := DueDateFor(input.InvoiceDate, input.PaymentTerm)
	if err != nil {
		return err
	}

	inv.Revision = &InvoiceRevision{
		ID:             uuid.New(),
		InvoiceNumber:  input.InvoiceNumber,
		RecipientEmail: input.RecipientEmail,
		InvoiceDate:    input.InvoiceDate,
		DueDate:        dueDate,
		PaymentTerm:    input.PaymentTerm,
		ThirdPartyID:   input.ThirdPartyID,
		Currency:       input.Currency,
		ExchangeRate:   input.ExchangeRate,
		PPNPercent:     input.PPNPercent,
		Prices:         input.Prices,
		Status:         RevisionStatusNeedApproval,
		RequestedByID:  actor.ID,
		RequestedBy:    actor.Name,
		RequestReason:  reason,
		RequestedAt:    time.Now(),
	}
	inv.Status = InvoiceStatusNeedApproval
	inv.appendHistory(InvoiceActionEditRequested, fmt.Sprintf("Invoice edit requested: %s", reason), actor)
	inv.touch()
	inv.AddDomainEvent(NewInvoiceRevisionRequestedEvent(inv))
	return nil
}

// ApplyRevision copies the pending revision's header onto the live invoice,
// voids the current price lines and installs the revision's lines as the new
// live set. The receivable drops back to APPROVED and must be re-issued.
func (inv *Invoice) ApplyRevision(actor ActorRef) error {
	if inv.Revision == nil || inv.Revision.Status != RevisionStatusNeedApproval {
		return shared.NewDomainError("INVALID_STATE", "No invoice revision is awaiting approval")
	}

	rev := inv.Revision
	inv.InvoiceNumber = rev.InvoiceNumber
	if rev.RecipientEmail != "" {
		inv.RecipientEmail = rev.RecipientEmail
	}
	inv.InvoiceDate = rev.InvoiceDate
	inv.DueDate = rev.DueDate
	inv.PaymentTerm = rev.PaymentTerm
	inv.ThirdPartyID = rev.ThirdPartyID
	inv.Currency = rev.Currency
	inv.ExchangeRate = rev.ExchangeRate
	inv.PPNPercent = rev.PPNPercent

	for i := range inv.Prices {
		if inv.Prices[i].Status == RecordStatusActive {
			inv.Prices[i].Status = RecordStatusVoided
		}
	}
	if err := inv.setPrices(rev.Prices); err != nil {
		return err
	}

	now := time.Now()
	rev.Status = RevisionStatusApproved
	rev.DecidedAt = &now
	inv.Status = InvoiceStatusApproved
	inv.ARStatus = ARStatusApproved
	inv.appendHistory(InvoiceActionEditApproved, "Invoice edit approved and applied", actor)
	inv.touch()
	inv.AddDomainEvent(NewInvoiceRevisionDecidedEvent(inv, RevisionStatusApproved))
	return nil
}

// RejectRevision marks the pending revision rejected and the live invoice
// CHANGES_REJECTED. Live header and price lines stay as they were.
func (inv *Invoice) RejectRevision(reason string, actor ActorRef) error {
	if inv.Revision == nil || inv.Revision.Status != RevisionStatusNeedApproval {
		return shared.NewDomainError("INVALID_STATE", "No invoice revision is awaiting approval")
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Reject reason is required")
	}

	now := time.Now()
	inv.Revision.Status = RevisionStatusRejected
	inv.Revision.DecidedAt = &now
	inv.Status = InvoiceStatusChangesRejected
	inv.appendHistory(InvoiceActionEditRejected, reason, actor)
	inv.touch()
	inv.AddDomainEvent(NewInvoiceRevisionDecidedEvent(inv, RevisionStatusRejected))
	return nil
}
