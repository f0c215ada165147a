package finance

import (
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Invoice event types
const (
	EventTypeInvoiceCreated          = "finance.invoice.created"
	EventTypeInvoiceApprovalDecided  = "finance.invoice.approval_decided"
	EventTypeInvoiceRevised          = "finance.invoice.revised"
	EventTypeInvoiceIssued           = "finance.invoice.issued"
	EventTypeInvoicePaymentRecorded  = "finance.invoice.payment_recorded"
	EventTypeInvoicePaymentVoided    = "finance.invoice.payment_voided"
	EventTypeInvoiceEditRequested    = "finance.invoice.edit_requested"
	EventTypeInvoiceEditDecided      = "finance.invoice.edit_decided"
)

// InvoiceCreatedEvent is raised when a new receivable enters approval
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber  string `json:"invoice_number"`
	JobSheetNumber string `json:"job_sheet_number"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, "Invoice", inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		JobSheetNumber:  inv.JobSheetNumber,
	}
}

// InvoiceApprovalDecidedEvent is raised on approve or reject
type InvoiceApprovalDecidedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string   `json:"invoice_number"`
	Decision      ARStatus `json:"decision"`
	RejectReason  string   `json:"reject_reason,omitempty"`
}

// NewInvoiceApprovalDecidedEvent creates a new InvoiceApprovalDecidedEvent
func NewInvoiceApprovalDecidedEvent(inv *Invoice, decision ARStatus) *InvoiceApprovalDecidedEvent {
	return &InvoiceApprovalDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceApprovalDecided, "Invoice", inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		Decision:        decision,
		RejectReason:    inv.RejectReason,
	}
}

// InvoiceRevisedEvent is raised when a rejected receivable is resubmitted
type InvoiceRevisedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewInvoiceRevisedEvent creates a new InvoiceRevisedEvent
func NewInvoiceRevisedEvent(inv *Invoice) *InvoiceRevisedEvent {
	return &InvoiceRevisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceRevised, "Invoice", inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
	}
}

// InvoiceIssuedEvent is raised when an invoice is issued to its recipient
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber  string `json:"invoice_number"`
	RecipientEmail string `json:"recipient_email"`
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, "Invoice", inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		RecipientEmail:  inv.RecipientEmail,
	}
}

// InvoicePaymentRecordedEvent is raised after a payment posts
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	NewARStatus   ARStatus        `json:"new_ar_status"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *Invoice, payment *InvoicePayment) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, "Invoice", inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		Currency:        payment.Currency.String(),
		Amount:          payment.AmountPaid,
		NewARStatus:     inv.ARStatus,
	}
}

// InvoicePaymentVoidedEvent is raised after a payment is soft-voided
type InvoicePaymentVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	NewARStatus   ARStatus        `json:"new_ar_status"`
}

// NewInvoicePaymentVoidedEvent creates a new InvoicePaymentVoidedEvent
func NewInvoicePaymentVoidedEvent(inv *Invoice, payment *InvoicePayment) *InvoicePaymentVoidedEvent {
	return &InvoicePaymentVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentVoided, "Invoice", inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		Currency:        payment.Currency.String(),
		Amount:          payment.AmountPaid,
		NewARStatus:     inv.ARStatus,
	}
}

// InvoiceRevisionRequestedEvent is raised when an edit of an issued invoice
// is proposed
type InvoiceRevisionRequestedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	RequestedBy   string `json:"requested_by"`
}

// NewInvoiceRevisionRequestedEvent creates a new InvoiceRevisionRequestedEvent
func NewInvoiceRevisionRequestedEvent(inv *Invoice) *InvoiceRevisionRequestedEvent {
	e := &InvoiceRevisionRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceEditRequested, "Invoice", inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
	}
	if inv.Revision != nil {
		e.RequestedBy = inv.Revision.RequestedBy
	}
	return e
}

// InvoiceRevisionDecidedEvent is raised when a pending edit is approved or
// rejected
type InvoiceRevisionDecidedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string         `json:"invoice_number"`
	Decision      RevisionStatus `json:"decision"`
}

// NewInvoiceRevisionDecidedEvent creates a new InvoiceRevisionDecidedEvent
func NewInvoiceRevisionDecidedEvent(inv *Invoice, decision RevisionStatus) *InvoiceRevisionDecidedEvent {
	return &InvoiceRevisionDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceEditDecided, "Invoice", inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		Decision:        decision,
	}
}
