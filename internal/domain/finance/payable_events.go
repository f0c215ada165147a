package finance

import (
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payable event types
const (
	EventTypePayableCreated         = "finance.payable.created"
	EventTypePayableApprovalDecided = "finance.payable.approval_decided"
	EventTypePayableRevised         = "finance.payable.revised"
	EventTypePayablePaymentRecorded = "finance.payable.payment_recorded"
	EventTypePayablePaymentVoided   = "finance.payable.payment_voided"
	EventTypePayableRemittanceSent  = "finance.payable.remittance_sent"
)

// PayableCreatedEvent is raised when a new payable enters approval
type PayableCreatedEvent struct {
	shared.BaseDomainEvent
	JobSheetNumber string `json:"job_sheet_number"`
	VendorName     string `json:"vendor_name"`
}

// NewPayableCreatedEvent creates a new PayableCreatedEvent
func NewPayableCreatedEvent(p *Payable) *PayableCreatedEvent {
	return &PayableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayableCreated, "Payable", p.ID, p.CompanyID),
		JobSheetNumber:  p.JobSheetNumber,
		VendorName:      p.VendorName,
	}
}

// PayableApprovalDecidedEvent is raised on approve or reject
type PayableApprovalDecidedEvent struct {
	shared.BaseDomainEvent
	JobSheetNumber string        `json:"job_sheet_number"`
	Decision       PayableStatus `json:"decision"`
	RejectReason   string        `json:"reject_reason,omitempty"`
}

// NewPayableApprovalDecidedEvent creates a new PayableApprovalDecidedEvent
func NewPayableApprovalDecidedEvent(p *Payable, decision PayableStatus) *PayableApprovalDecidedEvent {
	return &PayableApprovalDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayableApprovalDecided, "Payable", p.ID, p.CompanyID),
		JobSheetNumber:  p.JobSheetNumber,
		Decision:        decision,
		RejectReason:    p.RejectReason,
	}
}

// PayableRevisedEvent is raised when a rejected payable is resubmitted
type PayableRevisedEvent struct {
	shared.BaseDomainEvent
	JobSheetNumber string `json:"job_sheet_number"`
}

// NewPayableRevisedEvent creates a new PayableRevisedEvent
func NewPayableRevisedEvent(p *Payable) *PayableRevisedEvent {
	return &PayableRevisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayableRevised, "Payable", p.ID, p.CompanyID),
		JobSheetNumber:  p.JobSheetNumber,
	}
}

// PayablePaymentRecordedEvent is raised after a payment posts
type PayablePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	JobSheetNumber string          `json:"job_sheet_number"`
	Currency       string          `json:"currency"`
	Amount         decimal.Decimal `json:"amount"`
	NewStatus      PayableStatus   `json:"new_status"`
}

// NewPayablePaymentRecordedEvent creates a new PayablePaymentRecordedEvent
func NewPayablePaymentRecordedEvent(p *Payable, payment *PayablePayment) *PayablePaymentRecordedEvent {
	return &PayablePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayablePaymentRecorded, "Payable", p.ID, p.CompanyID),
		JobSheetNumber:  p.JobSheetNumber,
		Currency:        payment.Currency.String(),
		Amount:          payment.AmountPaid,
		NewStatus:       p.Status,
	}
}

// PayablePaymentVoidedEvent is raised after a payment is soft-voided
type PayablePaymentVoidedEvent struct {
	shared.BaseDomainEvent
	JobSheetNumber string          `json:"job_sheet_number"`
	Currency       string          `json:"currency"`
	Amount         decimal.Decimal `json:"amount"`
	NewStatus      PayableStatus   `json:"new_status"`
}

// NewPayablePaymentVoidedEvent creates a new PayablePaymentVoidedEvent
func NewPayablePaymentVoidedEvent(p *Payable, payment *PayablePayment) *PayablePaymentVoidedEvent {
	return &PayablePaymentVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayablePaymentVoided, "Payable", p.ID, p.CompanyID),
		JobSheetNumber:  p.JobSheetNumber,
		Currency:        payment.Currency.String(),
		Amount:          payment.AmountPaid,
		NewStatus:       p.Status,
	}
}

// PayableRemittanceSentEvent is raised after a remittance notice goes out
type PayableRemittanceSentEvent struct {
	shared.BaseDomainEvent
	JobSheetNumber string `json:"job_sheet_number"`
	PaymentCount   int    `json:"payment_count"`
}

// NewPayableRemittanceSentEvent creates a new PayableRemittanceSentEvent
func NewPayableRemittanceSentEvent(p *Payable, paymentCount int) *PayableRemittanceSentEvent {
	return &PayableRemittanceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayableRemittanceSent, "Payable", p.ID, p.CompanyID),
		JobSheetNumber:  p.JobSheetNumber,
		PaymentCount:    paymentCount,
	}
}
