package finance

import (
	"fmt"
	"time"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the document-level status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusProforma        InvoiceStatus = "PROFORMA"
	InvoiceStatusApproved        InvoiceStatus = "APPROVED"
	InvoiceStatusRejected        InvoiceStatus = "REJECTED"
	InvoiceStatusIssued          InvoiceStatus = "ISSUED"
	InvoiceStatusNeedApproval    InvoiceStatus = "NEED_APPROVAL"
	InvoiceStatusChangesRejected InvoiceStatus = "CHANGES_REJECTED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusProforma, InvoiceStatusApproved, InvoiceStatusRejected,
		InvoiceStatusIssued, InvoiceStatusNeedApproval, InvoiceStatusChangesRejected:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanRequestEdit returns true if a revision may be proposed in this status
func (s InvoiceStatus) CanRequestEdit() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusChangesRejected
}

// ARStatus represents the receivable-side settlement status of an invoice
type ARStatus string

const (
	ARStatusWaitingApproval ARStatus = "WAITING_APPROVAL"
	ARStatusApproved        ARStatus = "APPROVED"
	ARStatusRejected        ARStatus = "REJECTED"
	ARStatusPending         ARStatus = "PENDING"
	ARStatusPartiallyPaid   ARStatus = "PARTIALLY_PAID"
	ARStatusPaid            ARStatus = "PAID"
)

// IsValid checks if the status is a valid ARStatus
func (s ARStatus) IsValid() bool {
	switch s {
	case ARStatusWaitingApproval, ARStatusApproved, ARStatusRejected,
		ARStatusPending, ARStatusPartiallyPaid, ARStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of ARStatus
func (s ARStatus) String() string {
	return string(s)
}

// CanDecideApproval returns true if an approve/reject decision is legal
func (s ARStatus) CanDecideApproval() bool {
	return s == ARStatusWaitingApproval
}

// CanRevise returns true if the receivable can be revised
func (s ARStatus) CanRevise() bool {
	return s == ARStatusRejected
}

// CanIssue returns true if the invoice can be issued to the recipient
func (s ARStatus) CanIssue() bool {
	return s == ARStatusApproved
}

// CanRecordPayment returns true if payments can be recorded in this status
func (s ARStatus) CanRecordPayment() bool {
	return s == ARStatusPending || s == ARStatusPartiallyPaid
}

// CanVoidPayment returns true if an existing payment can be voided
func (s ARStatus) CanVoidPayment() bool {
	return s == ARStatusPartiallyPaid || s == ARStatusPaid
}

// InvoiceHistoryAction names an entry in the receivable audit log
type InvoiceHistoryAction string

const (
	InvoiceActionCreated       InvoiceHistoryAction = "CREATED"
	InvoiceActionApproved      InvoiceHistoryAction = "APPROVED"
	InvoiceActionRejected      InvoiceHistoryAction = "REJECTED"
	InvoiceActionRevised       InvoiceHistoryAction = "REVISE"
	InvoiceActionIssued        InvoiceHistoryAction = "ISSUED"
	InvoiceActionPayment       InvoiceHistoryAction = "PAYMENT"
	InvoiceActionPaymentDelete InvoiceHistoryAction = "PAYMENT_DELETE"
	InvoiceActionEditRequested InvoiceHistoryAction = "EDIT_REQUESTED"
	InvoiceActionEditApproved  InvoiceHistoryAction = "EDIT_APPROVED"
	InvoiceActionEditRejected  InvoiceHistoryAction = "EDIT_REJECTED"
)

// InvoicePrice is one price line item owned by an invoice. Amounts are kept
// in both the base denomination (IDR) and the invoice currency.
type InvoicePrice struct {
	ID               uuid.UUID            `json:"id"`
	Component        string               `json:"component"`
	UOM              string               `json:"uom"`
	Currency         valueobject.Currency `json:"currency"`
	UnitPrice        decimal.Decimal      `json:"unit_price"`
	Quantity         decimal.Decimal      `json:"quantity"`
	Subtotal         decimal.Decimal      `json:"subtotal"`          // base (IDR)
	SubtotalCurrency decimal.Decimal      `json:"subtotal_currency"` // invoice currency
	Status           RecordStatus         `json:"status"`
}

// InvoicePayment is one payment recorded against an invoice
type InvoicePayment struct {
	ID                 uuid.UUID            `json:"id"`
	Currency           valueobject.Currency `json:"currency"`
	AmountPaid         decimal.Decimal      `json:"amount_paid"`          // base (IDR)
	AmountPaidCurrency decimal.Decimal      `json:"amount_paid_currency"` // invoice currency
	PaymentDate        time.Time            `json:"payment_date"`
	BankRef            string               `json:"bank_ref"`
	ProofURL           string               `json:"proof_url,omitempty"`
	Status             RecordStatus         `json:"status"`
	CreatedAt          time.Time            `json:"created_at"`
}

// Paid returns the payment in the currency it was tendered in. AmountPaid
// always carries the base (IDR) figure, so non-IDR payments read from
// AmountPaidCurrency.
func (p InvoicePayment) Paid() valueobject.Money {
	amount := p.AmountPaid
	if p.Currency != valueobject.IDR {
		amount = p.AmountPaidCurrency
	}
	m, _ := valueobject.NewMoney(amount, p.Currency)
	return m
}

// InvoiceHistoryEntry is one row of the receivable audit log
type InvoiceHistoryEntry struct {
	ID        uuid.UUID            `json:"id"`
	Action    InvoiceHistoryAction `json:"action"`
	Details   string               `json:"details"`
	ActorID   uuid.UUID            `json:"actor_id"`
	ActorName string               `json:"actor_name"`
	CreatedAt time.Time            `json:"created_at"`
}

// Invoice represents one customer receivable attached to a job sheet. Unlike
// a payable it is denominated in a single currency, with every amount carried
// in both IDR and the invoice currency via the stored exchange rate.
type Invoice struct {
	shared.CompanyAggregateRoot
	InvoiceNumber           string                `json:"invoice_number"`
	JobSheetNumber          string                `json:"job_sheet_number"`
	CustomerID              uuid.UUID             `json:"customer_id"`
	ThirdPartyID            *uuid.UUID            `json:"third_party_id,omitempty"`
	RecipientEmail          string                `json:"recipient_email"`
	InvoiceDate             time.Time             `json:"invoice_date"`
	DueDate                 time.Time             `json:"due_date"`
	PaymentTerm             string                `json:"payment_term"`
	Currency                valueobject.Currency  `json:"currency"`
	ExchangeRate            decimal.Decimal       `json:"exchange_rate"` // invoice currency -> IDR
	PPNPercent              decimal.Decimal       `json:"ppn_percent"`
	Total                   decimal.Decimal       `json:"total"`          // base (IDR)
	TotalCurrency           decimal.Decimal       `json:"total_currency"` // invoice currency
	AmountPaid              decimal.Decimal       `json:"amount_paid"`
	AmountPaidCurrency      decimal.Decimal       `json:"amount_paid_currency"`
	AmountRemaining         decimal.Decimal       `json:"amount_remaining"`
	AmountRemainingCurrency decimal.Decimal       `json:"amount_remaining_currency"`
	PaymentCurrency         *valueobject.Currency `json:"payment_currency,omitempty"` // locked by the first payment
	Status                  InvoiceStatus         `json:"status"`
	ARStatus                ARStatus              `json:"ar_status"`
	RejectReason            string                `json:"reject_reason,omitempty"`
	IssuedAt                *time.Time            `json:"issued_at,omitempty"`
	IssuedBy                *uuid.UUID            `json:"issued_by,omitempty"`
	Prices                  []InvoicePrice        `json:"prices"`
	Payments                []InvoicePayment      `json:"payments"`
	Histories               []InvoiceHistoryEntry `json:"histories"`
	Revision                *InvoiceRevision      `json:"revision,omitempty"`
}

// NewInvoice creates a receivable invoice in WAITING_APPROVAL. The due date
// is derived from the payment term and the totals from the price lines.
func NewInvoice(
	companyID uuid.UUID,
	invoiceNumber string,
	jobSheetNumber string,
	customerID uuid.UUID,
	thirdPartyID *uuid.UUID,
	invoiceDate time.Time,
	paymentTerm string,
	currency valueobject.Currency,
	exchangeRate decimal.Decimal,
	ppnPercent decimal.Decimal,
	prices []PriceInput,
	actor ActorRef,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invoice number cannot be empty")
	}
	if jobSheetNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Job sheet number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Customer is required")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("Unsupported currency code %q", currency))
	}
	if currency == valueobject.IDR {
		exchangeRate = decimal.NewFromInt(1)
	}
	if !exchangeRate.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Exchange rate must be positive")
	}
	if ppnPercent.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "PPN percent cannot be negative")
	}
	if len(prices) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "At least one price line is required")
	}
	dueDate, err := DueDateFor(invoiceDate, paymentTerm)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		InvoiceNumber:        invoiceNumber,
		JobSheetNumber:       jobSheetNumber,
		CustomerID:           customerID,
		ThirdPartyID:         thirdPartyID,
		InvoiceDate:          invoiceDate,
		DueDate:              dueDate,
		PaymentTerm:          paymentTerm,
		Currency:             currency,
		ExchangeRate:         exchangeRate,
		PPNPercent:           ppnPercent,
		Status:               InvoiceStatusProforma,
		ARStatus:             ARStatusWaitingApproval,
		Payments:             make([]InvoicePayment, 0),
		Histories:            make([]InvoiceHistoryEntry, 0),
	}
	if err := inv.setPrices(prices); err != nil {
		return nil, err
	}

	inv.appendHistory(InvoiceActionCreated, fmt.Sprintf("Invoice %s created", invoiceNumber), actor)
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// Approve moves the receivable from WAITING_APPROVAL to APPROVED
func (inv *Invoice) Approve(actor ActorRef) error {
	if !inv.ARStatus.CanDecideApproval() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve invoice in %s status", inv.ARStatus))
	}
	inv.ARStatus = ARStatusApproved
	inv.Status = InvoiceStatusApproved
	inv.RejectReason = ""
	inv.appendHistory(InvoiceActionApproved, "Invoice approved", actor)
	inv.touch()
	inv.AddDomainEvent(NewInvoiceApprovalDecidedEvent(inv, ARStatusApproved))
	return nil
}

// Reject moves the receivable from WAITING_APPROVAL to REJECTED. A non-empty
// reason is mandatory.
func (inv *Invoice) Reject(reason string, actor ActorRef) error {
	if !inv.ARStatus.CanDecideApproval() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject invoice in %s status", inv.ARStatus))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Reject reason is required")
	}
	inv.ARStatus = ARStatusRejected
	inv.Status = InvoiceStatusRejected
	inv.RejectReason = reason
	inv.appendHistory(InvoiceActionRejected, reason, actor)
	inv.touch()
	inv.AddDomainEvent(NewInvoiceApprovalDecidedEvent(inv, ARStatusRejected))
	return nil
}

// Revise replaces the price lines of a rejected invoice and returns it to
// WAITING_APPROVAL. Old price lines are soft-voided for audit.
func (inv *Invoice) Revise(newPrices []PriceInput, actor ActorRef) error {
	if !inv.ARStatus.CanRevise() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot revise invoice in %s status", inv.ARStatus))
	}
	if len(newPrices) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "At least one price line is required")
	}

	for i := range inv.Prices {
		if inv.Prices[i].Status == RecordStatusActive {
			inv.Prices[i].Status = RecordStatusVoided
		}
	}
	if err := inv.setPrices(newPrices); err != nil {
		return err
	}

	inv.ARStatus = ARStatusWaitingApproval
	inv.Status = InvoiceStatusProforma
	inv.RejectReason = ""
	inv.appendHistory(InvoiceActionRevised, "Invoice revised and resubmitted", actor)
	inv.touch()
	inv.AddDomainEvent(NewInvoiceRevisedEvent(inv))
	return nil
}

// Issue marks an approved invoice as sent to the recipient. The recipient
// email must be known before issuing; arStatus moves to PENDING so payments
// can start.
func (inv *Invoice) Issue(recipientEmail string, actor ActorRef) error {
	if !inv.ARStatus.CanIssue() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot issue invoice in %s status", inv.ARStatus))
	}
	if recipientEmail == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Recipient email is required to issue an invoice")
	}

	now := time.Now()
	inv.RecipientEmail = recipientEmail
	inv.Status = InvoiceStatusIssued
	inv.ARStatus = ARStatusPending
	inv.IssuedAt = &now
	inv.IssuedBy = &actor.ID
	inv.appendHistory(InvoiceActionIssued, fmt.Sprintf("Invoice issued to %s", recipientEmail), actor)
	inv.touch()
	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))
	return nil
}

// RecordPayment inserts a payment record and recomputes settlement. The first
// payment locks the invoice to its currency; later payments in any other
// currency fail. The amount may not exceed what remains in that denomination.
func (inv *Invoice) RecordPayment(
	currency valueobject.Currency,
	amount decimal.Decimal,
	paymentDate time.Time,
	bankRef string,
	proofURL string,
	actor ActorRef,
) (*InvoicePayment, error) {
	if !inv.ARStatus.CanRecordPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payment for invoice in %s status", inv.ARStatus))
	}
	paid, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("Unsupported currency code %q", currency))
	}
	if !paid.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Payment amount must be positive")
	}
	if inv.PaymentCurrency != nil && *inv.PaymentCurrency != currency {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("Invoice payments are locked to %s, got %s", *inv.PaymentCurrency, currency))
	}
	if currency != valueobject.IDR && currency != inv.Currency {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("Payment currency must be IDR or %s", inv.Currency))
	}

	var amountBase, amountCurrency decimal.Decimal
	if currency == valueobject.IDR {
		amountBase = amount
		amountCurrency = amount.Div(inv.ExchangeRate).Round(2)
	} else {
		amountCurrency = amount
		base, convErr := paid.Convert(valueobject.IDR, inv.ExchangeRate)
		if convErr != nil {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Exchange rate must be positive")
		}
		amountBase = base.Round(2).Amount()
	}

	remaining := inv.AmountRemaining
	if currency != valueobject.IDR {
		remaining = inv.AmountRemainingCurrency
	}
	if amount.Sub(remaining).GreaterThan(RoundingTolerance) {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("Payment of %s %s exceeds remaining amount %s", amount.StringFixed(2), currency, remaining.StringFixed(2)))
	}

	payment := InvoicePayment{
		ID:                 uuid.New(),
		Currency:           currency,
		AmountPaid:         amountBase,
		AmountPaidCurrency: amountCurrency,
		PaymentDate:        paymentDate,
		BankRef:            bankRef,
		ProofURL:           proofURL,
		Status:             RecordStatusActive,
		CreatedAt:          time.Now(),
	}
	inv.Payments = append(inv.Payments, payment)
	inv.PaymentCurrency = &currency

	inv.settlePaid()
	inv.appendHistory(InvoiceActionPayment, fmt.Sprintf("Payment of %s recorded", paid), actor)
	inv.touch()
	inv.AddDomainEvent(NewInvoicePaymentRecordedEvent(inv, &payment))
	return &inv.Payments[len(inv.Payments)-1], nil
}

// VoidPayment soft-voids a payment record and recomputes settlement. If no
// active payment is left, arStatus reverts to PENDING and the payment
// currency lock is released.
func (inv *Invoice) VoidPayment(paymentID uuid.UUID, actor ActorRef) error {
	if !inv.ARStatus.CanVoidPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot delete payment for invoice in %s status", inv.ARStatus))
	}
	var target *InvoicePayment
	for i := range inv.Payments {
		if inv.Payments[i].ID == paymentID && inv.Payments[i].Status == RecordStatusActive {
			target = &inv.Payments[i]
			break
		}
	}
	if target == nil {
		return shared.NewDomainError("NOT_FOUND", "Payment not found")
	}

	target.Status = RecordStatusVoided
	inv.settlePaid()
	inv.appendHistory(InvoiceActionPaymentDelete,
		fmt.Sprintf("Payment of %s deleted", target.Paid()), actor)
	inv.touch()
	inv.AddDomainEvent(NewInvoicePaymentVoidedEvent(inv, target))
	return nil
}

// ActivePrices returns the non-voided price lines
func (inv *Invoice) ActivePrices() []InvoicePrice {
	out := make([]InvoicePrice, 0, len(inv.Prices))
	for _, price := range inv.Prices {
		if price.Status == RecordStatusActive {
			out = append(out, price)
		}
	}
	return out
}

// FindActivePayment returns the non-voided payment with the given ID, or nil
func (inv *Invoice) FindActivePayment(paymentID uuid.UUID) *InvoicePayment {
	for i := range inv.Payments {
		if inv.Payments[i].ID == paymentID && inv.Payments[i].Status == RecordStatusActive {
			return &inv.Payments[i]
		}
	}
	return nil
}

// setPrices validates and appends new active price lines, then recomputes
// both totals from the active set. Each line may be priced in IDR or in the
// invoice currency; the stored exchange rate bridges the two.
func (inv *Invoice) setPrices(prices []PriceInput) error {
	for _, in := range prices {
		if in.Component == "" {
			return shared.NewDomainError("VALIDATION_FAILED", "Price component cannot be empty")
		}
		if in.Currency != valueobject.IDR && in.Currency != inv.Currency {
			return shared.NewDomainError("VALIDATION_FAILED",
				fmt.Sprintf("Price currency must be IDR or %s, got %s", inv.Currency, in.Currency))
		}
		if !in.Quantity.IsPositive() {
			return shared.NewDomainError("VALIDATION_FAILED", "Price quantity must be positive")
		}
		if in.UnitPrice.IsNegative() {
			return shared.NewDomainError("VALIDATION_FAILED", "Unit price cannot be negative")
		}

		gross := in.UnitPrice.Mul(in.Quantity)
		var subtotal, subtotalCurrency decimal.Decimal
		if in.Currency == valueobject.IDR {
			subtotal = gross
			subtotalCurrency = gross.Div(inv.ExchangeRate)
		} else {
			subtotalCurrency = gross
			subtotal = gross.Mul(inv.ExchangeRate)
		}
		inv.Prices = append(inv.Prices, InvoicePrice{
			ID:               uuid.New(),
			Component:        in.Component,
			UOM:              in.UOM,
			Currency:         in.Currency,
			UnitPrice:        in.UnitPrice,
			Quantity:         in.Quantity,
			Subtotal:         subtotal.Round(2),
			SubtotalCurrency: subtotalCurrency.Round(2),
			Status:           RecordStatusActive,
		})
	}

	inv.recomputeTotals()
	return nil
}

// recomputeTotals rebuilds total/totalCurrency from active lines with PPN on
// top, then re-derives paid/remaining from the active payments.
func (inv *Invoice) recomputeTotals() {
	subtotal := decimal.Zero
	subtotalCurrency := decimal.Zero
	for _, price := range inv.Prices {
		if price.Status != RecordStatusActive {
			continue
		}
		subtotal = subtotal.Add(price.Subtotal)
		subtotalCurrency = subtotalCurrency.Add(price.SubtotalCurrency)
	}
	ppnFactor := decimal.NewFromInt(1).Add(inv.PPNPercent.Div(decimal.NewFromInt(100)))
	inv.Total = subtotal.Mul(ppnFactor).Round(2)
	inv.TotalCurrency = subtotalCurrency.Mul(ppnFactor).Round(2)
	inv.recomputePaid()
}

// recomputePaid rebuilds paid/remaining in both denominations from the full
// payment history, skipping voided records.
func (inv *Invoice) recomputePaid() {
	paidBase := decimal.Zero
	paidCurrency := decimal.Zero
	for _, payment := range inv.Payments {
		if payment.Status != RecordStatusActive {
			continue
		}
		paidBase = paidBase.Add(payment.AmountPaid)
		paidCurrency = paidCurrency.Add(payment.AmountPaidCurrency)
	}
	inv.AmountPaid = paidBase.Round(2)
	inv.AmountPaidCurrency = paidCurrency.Round(2)
	inv.AmountRemaining = inv.Total.Sub(inv.AmountPaid).Round(2)
	inv.AmountRemainingCurrency = inv.TotalCurrency.Sub(inv.AmountPaidCurrency).Round(2)
}

// settlePaid recomputes paid/remaining and derives the arStatus: PAID once
// the paid total covers the invoice total, PARTIALLY_PAID while anything is
// outstanding, and back to PENDING with the currency lock cleared when no
// active payment remains.
func (inv *Invoice) settlePaid() {
	inv.recomputePaid()

	paid := inv.AmountPaid
	total := inv.Total
	if inv.PaymentCurrency != nil && *inv.PaymentCurrency != valueobject.IDR {
		paid = inv.AmountPaidCurrency
		total = inv.TotalCurrency
	}

	switch {
	case !paid.IsPositive():
		inv.ARStatus = ARStatusPending
		inv.PaymentCurrency = nil
	case total.Sub(paid).LessThanOrEqual(RoundingTolerance):
		inv.ARStatus = ARStatusPaid
	default:
		inv.ARStatus = ARStatusPartiallyPaid
	}
}

func (inv *Invoice) appendHistory(action InvoiceHistoryAction, details string, actor ActorRef) {
	inv.Histories = append(inv.Histories, InvoiceHistoryEntry{
		ID:        uuid.New(),
		Action:    action,
		Details:   details,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		CreatedAt: time.Now(),
	})
}

func (inv *Invoice) touch() {
	inv.Touch()
	inv.IncrementVersion()
}
