package finance

import (
	"fmt"
	"time"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableStatus represents the approval/settlement status of a payable
type PayableStatus string

const (
	PayableStatusWaitingApproval PayableStatus = "WAITING_APPROVAL"
	PayableStatusApproved        PayableStatus = "APPROVED"
	PayableStatusRejected        PayableStatus = "REJECTED"
	PayableStatusPartiallyPaid   PayableStatus = "PARTIALLY_PAID"
	PayableStatusPaid            PayableStatus = "PAID"
)

// IsValid checks if the status is a valid PayableStatus
func (s PayableStatus) IsValid() bool {
	switch s {
	case PayableStatusWaitingApproval, PayableStatusApproved, PayableStatusRejected,
		PayableStatusPartiallyPaid, PayableStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PayableStatus
func (s PayableStatus) String() string {
	return string(s)
}

// CanDecideApproval returns true if an approve/reject decision is legal
func (s PayableStatus) CanDecideApproval() bool {
	return s == PayableStatusWaitingApproval
}

// CanRevise returns true if the payable can be revised
func (s PayableStatus) CanRevise() bool {
	return s == PayableStatusRejected
}

// CanRecordPayment returns true if payments can be recorded in this status
func (s PayableStatus) CanRecordPayment() bool {
	return s == PayableStatusApproved || s == PayableStatusPartiallyPaid
}

// CanVoidPayment returns true if an existing payment can be voided
func (s PayableStatus) CanVoidPayment() bool {
	return s == PayableStatusApproved || s == PayableStatusPartiallyPaid || s == PayableStatusPaid
}

// CanSendRemittance returns true if remittance notices may be sent
func (s PayableStatus) CanSendRemittance() bool {
	return s == PayableStatusPaid || s == PayableStatusPartiallyPaid
}

// RecordStatus marks child rows (price lines, payments, files) as live or
// soft-voided. Voided rows stay on disk for audit but are excluded from every
// ledger computation.
type RecordStatus string

const (
	RecordStatusActive RecordStatus = "ACTIVE"
	RecordStatusVoided RecordStatus = "VOIDED"
)

// PayableHistoryAction names an entry in the append-only audit log
type PayableHistoryAction string

const (
	PayableActionCreated       PayableHistoryAction = "CREATED"
	PayableActionApproved      PayableHistoryAction = "APPROVED"
	PayableActionRejected      PayableHistoryAction = "REJECTED"
	PayableActionRevised       PayableHistoryAction = "REVISE"
	PayableActionPayment       PayableHistoryAction = "PAYMENT"
	PayableActionPaymentDelete PayableHistoryAction = "PAYMENT_DELETE"
	PayableActionRemittance    PayableHistoryAction = "REMITTANCE"
)

// PayablePrice is one price line item owned by a payable
type PayablePrice struct {
	ID         uuid.UUID            `json:"id"`
	Component  string               `json:"component"`
	UOM        string               `json:"uom"`
	Currency   valueobject.Currency `json:"currency"`
	UnitPrice  decimal.Decimal      `json:"unit_price"`
	Quantity   decimal.Decimal      `json:"quantity"`
	TaxPercent decimal.Decimal      `json:"tax_percent"`
	Total      decimal.Decimal      `json:"total"`
	Status     RecordStatus         `json:"status"`
}

// PayablePayment is one payment recorded against a payable
type PayablePayment struct {
	ID              uuid.UUID            `json:"id"`
	Currency        valueobject.Currency `json:"currency"`
	AmountPaid      decimal.Decimal      `json:"amount_paid"`
	AmountRemaining decimal.Decimal      `json:"amount_remaining"` // remaining in this currency after this payment
	PaymentDate     time.Time            `json:"payment_date"`
	BankRef         string               `json:"bank_ref"`
	ProofURL        string               `json:"proof_url,omitempty"`
	Status          RecordStatus         `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

// Paid returns the payment amount and its currency as a single value. The
// currency was validated when the payment was recorded.
func (p PayablePayment) Paid() valueobject.Money {
	m, _ := valueobject.NewMoney(p.AmountPaid, p.Currency)
	return m
}

// PayableHistoryEntry is one row of the append-only audit log
type PayableHistoryEntry struct {
	ID        uuid.UUID            `json:"id"`
	Action    PayableHistoryAction `json:"action"`
	Details   string               `json:"details"`
	ActorID   uuid.UUID            `json:"actor_id"`
	ActorName string               `json:"actor_name"`
	CreatedAt time.Time            `json:"created_at"`
}

// PayableFile is an attachment owned by a payable
type PayableFile struct {
	ID       uuid.UUID    `json:"id"`
	FileName string       `json:"file_name"`
	URL      string       `json:"url"`
	Status   RecordStatus `json:"status"`
}

// ActorRef identifies the authenticated user performing a mutation, for the
// audit log. Authorization itself is decided in the application layer.
type ActorRef struct {
	ID   uuid.UUID
	Name string
}

// PriceInput is the caller-supplied shape of a price line
type PriceInput struct {
	Component  string
	UOM        string
	Currency   valueobject.Currency
	UnitPrice  decimal.Decimal
	Quantity   decimal.Decimal
	TaxPercent decimal.Decimal
}

// FileInput is the caller-supplied shape of an uploaded attachment
type FileInput struct {
	FileName string
	URL      string
}

// Payable represents one vendor bill attached to a job sheet. It owns its
// price lines, payment records, attachments and audit log, and carries the
// per-currency due/paid/remaining ledger maps.
type Payable struct {
	shared.CompanyAggregateRoot
	JobSheetNumber  string                      `json:"job_sheet_number"`
	InvoiceNumber   string                      `json:"invoice_number"` // vendor invoice number, optional
	VendorName      string                      `json:"vendor_name"`
	PayableDate     time.Time                   `json:"payable_date"`
	DueDate         time.Time                   `json:"due_date"`
	Status          PayableStatus               `json:"status"`
	Note            string                      `json:"note"`
	RejectReason    string                      `json:"reject_reason,omitempty"`
	AmountDue       valueobject.CurrencyAmounts `json:"amount_due"`
	AmountPaid      valueobject.CurrencyAmounts `json:"amount_paid"`
	AmountRemaining valueobject.CurrencyAmounts `json:"amount_remaining"`
	Prices          []PayablePrice              `json:"prices"`
	Payments        []PayablePayment            `json:"payments"`
	Histories       []PayableHistoryEntry       `json:"histories"`
	Files           []PayableFile               `json:"files"`
}

// NewPayable creates a payable in WAITING_APPROVAL with its ledger maps
// computed from the given price lines. At least one attachment is required.
func NewPayable(
	companyID uuid.UUID,
	jobSheetNumber string,
	vendorName string,
	invoiceNumber string,
	payableDate time.Time,
	dueDate time.Time,
	note string,
	prices []PriceInput,
	files []FileInput,
	actor ActorRef,
) (*Payable, error) {
	if jobSheetNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Job sheet number cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Vendor name cannot be empty")
	}
	if len(prices) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "At least one price line is required")
	}
	if len(files) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "At least one attachment is required")
	}

	p := &Payable{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		JobSheetNumber:       jobSheetNumber,
		InvoiceNumber:        invoiceNumber,
		VendorName:           vendorName,
		PayableDate:          payableDate,
		DueDate:              dueDate,
		Status:               PayableStatusWaitingApproval,
		Note:                 note,
		Payments:             make([]PayablePayment, 0),
		Histories:            make([]PayableHistoryEntry, 0),
	}

	if err := p.setPrices(prices); err != nil {
		return nil, err
	}
	for _, f := range files {
		p.Files = append(p.Files, PayableFile{
			ID:       uuid.New(),
			FileName: f.FileName,
			URL:      f.URL,
			Status:   RecordStatusActive,
		})
	}

	p.appendHistory(PayableActionCreated, fmt.Sprintf("Payable created for vendor %s", vendorName), actor)
	p.AddDomainEvent(NewPayableCreatedEvent(p))

	return p, nil
}

// Approve moves the payable from WAITING_APPROVAL to APPROVED
func (p *Payable) Approve(actor ActorRef) error {
	if !p.Status.CanDecideApproval() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve payable in %s status", p.Status))
	}
	p.Status = PayableStatusApproved
	p.RejectReason = ""
	p.appendHistory(PayableActionApproved, "Payable approved", actor)
	p.touch()
	p.AddDomainEvent(NewPayableApprovalDecidedEvent(p, PayableStatusApproved))
	return nil
}

// Reject moves the payable from WAITING_APPROVAL to REJECTED. A non-empty
// reason is mandatory.
func (p *Payable) Reject(reason string, actor ActorRef) error {
	if !p.Status.CanDecideApproval() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject payable in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Reject reason is required")
	}
	p.Status = PayableStatusRejected
	p.RejectReason = reason
	p.appendHistory(PayableActionRejected, reason, actor)
	p.touch()
	p.AddDomainEvent(NewPayableApprovalDecidedEvent(p, PayableStatusRejected))
	return nil
}

// Revise replaces the price lines and attachments of a rejected payable and
// returns it to WAITING_APPROVAL. Old price lines are soft-voided, not
// deleted, so the audit trail survives.
func (p *Payable) Revise(newPrices []PriceInput, deleteFileIDs []uuid.UUID, newFiles []FileInput, actor ActorRef) error {
	if !p.Status.CanRevise() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot revise payable in %s status", p.Status))
	}
	if len(newPrices) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "At least one price line is required")
	}

	for i := range p.Prices {
		if p.Prices[i].Status == RecordStatusActive {
			p.Prices[i].Status = RecordStatusVoided
		}
	}
	if err := p.setPrices(newPrices); err != nil {
		return err
	}

	for _, fileID := range deleteFileIDs {
		for i := range p.Files {
			if p.Files[i].ID == fileID {
				p.Files[i].Status = RecordStatusVoided
			}
		}
	}
	for _, f := range newFiles {
		p.Files = append(p.Files, PayableFile{
			ID:       uuid.New(),
			FileName: f.FileName,
			URL:      f.URL,
			Status:   RecordStatusActive,
		})
	}
	if len(p.ActiveFiles()) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "At least one attachment is required")
	}

	p.Status = PayableStatusWaitingApproval
	p.RejectReason = ""
	p.appendHistory(PayableActionRevised, "Payable revised and resubmitted", actor)
	p.touch()
	p.AddDomainEvent(NewPayableRevisedEvent(p))
	return nil
}

// RecordPayment inserts a payment record and recomputes the ledger maps and
// the settlement status. Legal from APPROVED or PARTIALLY_PAID.
func (p *Payable) RecordPayment(
	currency valueobject.Currency,
	amount decimal.Decimal,
	paymentDate time.Time,
	bankRef string,
	proofURL string,
	actor ActorRef,
) (*PayablePayment, error) {
	if !p.Status.CanRecordPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payment for payable in %s status", p.Status))
	}
	paid, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("Unsupported currency code %q", currency))
	}
	if !paid.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Payment amount must be positive")
	}
	priorRemaining, ok := p.AmountRemaining.Get(currency)
	if !ok {
		return nil, shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("Payable has no amount due in %s", currency))
	}

	payment := PayablePayment{
		ID:              uuid.New(),
		Currency:        currency,
		AmountPaid:      amount,
		AmountRemaining: priorRemaining.Sub(amount).Round(2),
		PaymentDate:     paymentDate,
		BankRef:         bankRef,
		ProofURL:        proofURL,
		Status:          RecordStatusActive,
		CreatedAt:       time.Now(),
	}
	p.Payments = append(p.Payments, payment)

	p.reconcile()
	p.appendHistory(PayableActionPayment, fmt.Sprintf("Payment of %s recorded", paid), actor)
	p.touch()
	p.AddDomainEvent(NewPayablePaymentRecordedEvent(p, &payment))
	return &p.Payments[len(p.Payments)-1], nil
}

// VoidPayment soft-voids a payment record and recomputes the ledger maps and
// status, exactly as RecordPayment does.
func (p *Payable) VoidPayment(paymentID uuid.UUID, actor ActorRef) error {
	if !p.Status.CanVoidPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot delete payment for payable in %s status", p.Status))
	}
	var target *PayablePayment
	for i := range p.Payments {
		if p.Payments[i].ID == paymentID && p.Payments[i].Status == RecordStatusActive {
			target = &p.Payments[i]
			break
		}
	}
	if target == nil {
		return shared.NewDomainError("NOT_FOUND", "Payment not found")
	}

	target.Status = RecordStatusVoided
	p.reconcile()
	p.appendHistory(PayableActionPaymentDelete,
		fmt.Sprintf("Payment of %s deleted", target.Paid()), actor)
	p.touch()
	p.AddDomainEvent(NewPayablePaymentVoidedEvent(p, target))
	return nil
}

// RecordRemittance appends a remittance history entry. Remittance is a
// notification-only operation; it never mutates the ledger maps.
func (p *Payable) RecordRemittance(paymentIDs []uuid.UUID, actor ActorRef) error {
	if !p.Status.CanSendRemittance() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send remittance for payable in %s status", p.Status))
	}
	for _, paymentID := range paymentIDs {
		if p.FindActivePayment(paymentID) == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}
	}
	p.appendHistory(PayableActionRemittance, fmt.Sprintf("Remittance notice sent for %d payment(s)", len(paymentIDs)), actor)
	p.touch()
	p.AddDomainEvent(NewPayableRemittanceSentEvent(p, len(paymentIDs)))
	return nil
}

// FindActivePayment returns the non-voided payment with the given ID, or nil
func (p *Payable) FindActivePayment(paymentID uuid.UUID) *PayablePayment {
	for i := range p.Payments {
		if p.Payments[i].ID == paymentID && p.Payments[i].Status == RecordStatusActive {
			return &p.Payments[i]
		}
	}
	return nil
}

// ActivePrices returns the non-voided price lines
func (p *Payable) ActivePrices() []PayablePrice {
	out := make([]PayablePrice, 0, len(p.Prices))
	for _, price := range p.Prices {
		if price.Status == RecordStatusActive {
			out = append(out, price)
		}
	}
	return out
}

// ActiveFiles returns the non-voided attachments
func (p *Payable) ActiveFiles() []PayableFile {
	out := make([]PayableFile, 0, len(p.Files))
	for _, f := range p.Files {
		if f.Status == RecordStatusActive {
			out = append(out, f)
		}
	}
	return out
}

// Balance returns the current ledger balance view of the payable
func (p *Payable) Balance() LedgerBalance {
	return LedgerBalance{
		Due:       p.AmountDue.Clone(),
		Paid:      p.AmountPaid.Clone(),
		Remaining: p.AmountRemaining.Clone(),
	}
}

// setPrices validates and appends new active price lines, then recomputes
// amount_due from the active set.
func (p *Payable) setPrices(prices []PriceInput) error {
	for _, in := range prices {
		if in.Component == "" {
			return shared.NewDomainError("VALIDATION_FAILED", "Price component cannot be empty")
		}
		if !in.Currency.IsValid() {
			return shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("Unsupported currency code %q", in.Currency))
		}
		if !in.Quantity.IsPositive() {
			return shared.NewDomainError("VALIDATION_FAILED", "Price quantity must be positive")
		}
		if in.UnitPrice.IsNegative() {
			return shared.NewDomainError("VALIDATION_FAILED", "Unit price cannot be negative")
		}
		if in.TaxPercent.IsNegative() {
			return shared.NewDomainError("VALIDATION_FAILED", "Tax percent cannot be negative")
		}
		line := PriceLine{
			Currency:   in.Currency,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			TaxPercent: in.TaxPercent,
		}
		p.Prices = append(p.Prices, PayablePrice{
			ID:         uuid.New(),
			Component:  in.Component,
			UOM:        in.UOM,
			Currency:   in.Currency,
			UnitPrice:  in.UnitPrice,
			Quantity:   in.Quantity,
			TaxPercent: in.TaxPercent,
			Total:      LineTotal(line),
			Status:     RecordStatusActive,
		})
	}

	p.AmountDue = AmountDue(p.activePriceLines())
	balance := Reconcile(p.AmountDue, p.activePaymentLines())
	p.AmountPaid = balance.Paid
	p.AmountRemaining = balance.Remaining
	return nil
}

// reconcile rebuilds paid/remaining from the full payment history and derives
// the settlement status: PAID when every currency's remaining is <= 0,
// PARTIALLY_PAID when anything has been paid, otherwise back to APPROVED.
func (p *Payable) reconcile() {
	balance := Reconcile(p.AmountDue, p.activePaymentLines())
	p.AmountPaid = balance.Paid
	p.AmountRemaining = balance.Remaining

	switch {
	case balance.Settled():
		p.Status = PayableStatusPaid
	case balance.HasAnyPayment():
		p.Status = PayableStatusPartiallyPaid
	default:
		p.Status = PayableStatusApproved
	}
}

func (p *Payable) activePriceLines() []PriceLine {
	lines := make([]PriceLine, 0, len(p.Prices))
	for _, price := range p.Prices {
		if price.Status != RecordStatusActive {
			continue
		}
		lines = append(lines, PriceLine{
			Currency:   price.Currency,
			Quantity:   price.Quantity,
			UnitPrice:  price.UnitPrice,
			TaxPercent: price.TaxPercent,
		})
	}
	return lines
}

func (p *Payable) activePaymentLines() []PaymentLine {
	lines := make([]PaymentLine, 0, len(p.Payments))
	for _, payment := range p.Payments {
		lines = append(lines, PaymentLine{
			Currency: payment.Currency,
			Amount:   payment.AmountPaid,
			Voided:   payment.Status != RecordStatusActive,
		})
	}
	return lines
}

func (p *Payable) appendHistory(action PayableHistoryAction, details string, actor ActorRef) {
	p.Histories = append(p.Histories, PayableHistoryEntry{
		ID:        uuid.New(),
		Action:    action,
		Details:   details,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		CreatedAt: time.Now(),
	})
}

func (p *Payable) touch() {
	p.Touch()
	p.IncrementVersion()
}
