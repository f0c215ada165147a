package finance

import (
	"time"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalAction is the decision submitted by an approver
type ApprovalAction string

const (
	ApprovalActionApproved ApprovalAction = "APPROVED"
	ApprovalActionRejected ApprovalAction = "REJECTED"
	ApprovalActionIssued   ApprovalAction = "ISSUED"
)

// PriceRequest is one submitted price line
type PriceRequest struct {
	Component  string          `json:"component" binding:"required"`
	UOM        string          `json:"uom"`
	Currency   string          `json:"currency" binding:"required,currency"`
	UnitPrice  decimal.Decimal `json:"unit_price" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
}

// CreatePayableRequest creates a new payable under a job sheet
type CreatePayableRequest struct {
	JobSheetNumber string         `json:"job_sheet_number" binding:"required"`
	CustomerID     uuid.UUID      `json:"customer_id" binding:"required"`
	InvoiceNumber  string         `json:"invoice_number"`
	VendorName     string         `json:"vendor_name" binding:"required"`
	PayableDate    time.Time      `json:"payable_date" binding:"required"`
	DueDate        time.Time      `json:"due_date" binding:"required"`
	Note           string         `json:"note"`
	Prices         []PriceRequest `json:"prices" binding:"required,min=1,dive"`
	Files          []FileUpload   `json:"-"`
}

// PayableApprovalRequest decides a pending payable
type PayableApprovalRequest struct {
	Action       ApprovalAction `json:"action" binding:"required,oneof=APPROVED REJECTED"`
	RejectReason string         `json:"reject_reason"`
}

// RevisePayableRequest resubmits a rejected payable
type RevisePayableRequest struct {
	Prices        []PriceRequest `json:"prices" binding:"required,min=1,dive"`
	DeleteFileIDs []uuid.UUID    `json:"delete_file_ids"`
	NewFiles      []FileUpload   `json:"-"`
}

// PaymentRequest records a payment against a payable or invoice
type PaymentRequest struct {
	Currency    string          `json:"currency" binding:"required,currency"`
	AmountPaid  decimal.Decimal `json:"amount_paid" binding:"required"`
	PaymentDate time.Time       `json:"payment_date" binding:"required"`
	BankRef     string          `json:"bank_ref" binding:"required"`
	Proof       *FileUpload     `json:"-"`
}

// RemittanceRequest sends remittance notices for selected payments
type RemittanceRequest struct {
	PaymentIDs []uuid.UUID `json:"payment_ids" binding:"required,min=1"`
	Message    string      `json:"message"`
	Recipients []string    `json:"recipients" binding:"required,min=1,dive,email"`
}

// CreateInvoiceRequest creates a new receivable invoice under a job sheet
type CreateInvoiceRequest struct {
	JobSheetNumber string          `json:"job_sheet_number" binding:"required"`
	InvoiceNumber  string          `json:"invoice_number" binding:"required"`
	CustomerID     uuid.UUID       `json:"customer_id" binding:"required"`
	ThirdPartyID   *uuid.UUID      `json:"third_party_id"`
	InvoiceDate    time.Time       `json:"invoice_date" binding:"required"`
	Currency       string          `json:"currency" binding:"required,currency"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	PPNPercent     decimal.Decimal `json:"ppn_percent"`
	Prices         []PriceRequest  `json:"prices" binding:"required,min=1,dive"`
}

// InvoiceApprovalRequest decides a pending invoice; ISSUED additionally
// needs a recipient email
type InvoiceApprovalRequest struct {
	Action         ApprovalAction `json:"action" binding:"required,oneof=APPROVED REJECTED ISSUED"`
	RejectReason   string         `json:"reject_reason"`
	RecipientEmail string         `json:"recipient_email"`
}

// ReviseInvoiceRequest resubmits a rejected invoice
type ReviseInvoiceRequest struct {
	Prices []PriceRequest `json:"prices" binding:"required,min=1,dive"`
}

// EditInvoiceRequest proposes a revision of an issued invoice
type EditInvoiceRequest struct {
	InvoiceNumber  string          `json:"invoice_number" binding:"required"`
	RecipientEmail string          `json:"recipient_email"`
	InvoiceDate    time.Time       `json:"invoice_date" binding:"required"`
	PaymentTerm    string          `json:"payment_term"`
	ThirdPartyID   *uuid.UUID      `json:"third_party_id"`
	Currency       string          `json:"currency" binding:"required,currency"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	PPNPercent     decimal.Decimal `json:"ppn_percent"`
	Reason         string          `json:"reason" binding:"required"`
	ApproverEmails []string        `json:"approver_emails" binding:"dive,email"`
	Prices         []PriceRequest  `json:"prices" binding:"required,min=1,dive"`
}

// EditApprovalRequest decides a pending invoice revision
type EditApprovalRequest struct {
	Action       ApprovalAction `json:"action" binding:"required,oneof=APPROVED REJECTED"`
	RejectReason string         `json:"reject_reason"`
}

// PriceResponse is one price line in a response
type PriceResponse struct {
	ID         uuid.UUID       `json:"id"`
	Component  string          `json:"component"`
	UOM        string          `json:"uom"`
	Currency   string          `json:"currency"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
	Total      decimal.Decimal `json:"total"`
}

// PaymentResponse is one payment record in a response
type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	Currency        string          `json:"currency"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	PaymentDate     time.Time       `json:"payment_date"`
	BankRef         string          `json:"bank_ref"`
	ProofURL        string          `json:"proof_url,omitempty"`
}

// HistoryResponse is one audit log entry in a response
type HistoryResponse struct {
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	ActorName string    `json:"actor_name"`
	CreatedAt time.Time `json:"created_at"`
}

// FileResponse is one attachment in a response
type FileResponse struct {
	ID       uuid.UUID `json:"id"`
	FileName string    `json:"file_name"`
	URL      string    `json:"url"`
}

// PayableResponse is the caller-facing shape of a payable
type PayableResponse struct {
	ID              uuid.UUID                  `json:"id"`
	JobSheetNumber  string                     `json:"job_sheet_number"`
	InvoiceNumber   string                     `json:"invoice_number,omitempty"`
	VendorName      string                     `json:"vendor_name"`
	PayableDate     time.Time                  `json:"payable_date"`
	DueDate         time.Time                  `json:"due_date"`
	Status          string                     `json:"status"`
	Note            string                     `json:"note,omitempty"`
	RejectReason    string                     `json:"reject_reason,omitempty"`
	AmountDue       map[string]decimal.Decimal `json:"amount_due"`
	AmountPaid      map[string]decimal.Decimal `json:"amount_paid"`
	AmountRemaining map[string]decimal.Decimal `json:"amount_remaining"`
	Prices          []PriceResponse            `json:"prices"`
	Payments        []PaymentResponse          `json:"payments"`
	Histories       []HistoryResponse          `json:"histories"`
	Files           []FileResponse             `json:"files"`
	Version         int                        `json:"version"`
}

// InvoiceResponse is the caller-facing shape of a receivable invoice
type InvoiceResponse struct {
	ID                      uuid.UUID         `json:"id"`
	InvoiceNumber           string            `json:"invoice_number"`
	JobSheetNumber          string            `json:"job_sheet_number"`
	CustomerID              uuid.UUID         `json:"customer_id"`
	ThirdPartyID            *uuid.UUID        `json:"third_party_id,omitempty"`
	RecipientEmail          string            `json:"recipient_email,omitempty"`
	InvoiceDate             time.Time         `json:"invoice_date"`
	DueDate                 time.Time         `json:"due_date"`
	PaymentTerm             string            `json:"payment_term"`
	Currency                string            `json:"currency"`
	ExchangeRate            decimal.Decimal   `json:"exchange_rate"`
	PPNPercent              decimal.Decimal   `json:"ppn_percent"`
	Total                   decimal.Decimal   `json:"total"`
	TotalCurrency           decimal.Decimal   `json:"total_currency"`
	AmountPaid              decimal.Decimal   `json:"amount_paid"`
	AmountPaidCurrency      decimal.Decimal   `json:"amount_paid_currency"`
	AmountRemaining         decimal.Decimal   `json:"amount_remaining"`
	AmountRemainingCurrency decimal.Decimal   `json:"amount_remaining_currency"`
	PaymentCurrency         string            `json:"payment_currency,omitempty"`
	Status                  string            `json:"status"`
	ARStatus                string            `json:"ar_status"`
	RejectReason            string            `json:"reject_reason,omitempty"`
	IssuedAt                *time.Time        `json:"issued_at,omitempty"`
	Prices                  []PriceResponse   `json:"prices"`
	Payments                []PaymentResponse `json:"payments"`
	Histories               []HistoryResponse `json:"histories"`
	Revision                *RevisionResponse `json:"revision,omitempty"`
	Version                 int               `json:"version"`
}

// RevisionResponse is the caller-facing shape of a pending invoice revision
type RevisionResponse struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	Status        string    `json:"status"`
	RequestedBy   string    `json:"requested_by"`
	RequestReason string    `json:"request_reason"`
	RequestedAt   time.Time `json:"requested_at"`
}

func toPriceInputs(prices []PriceRequest) ([]finance.PriceInput, error) {
	out := make([]finance.PriceInput, 0, len(prices))
	for _, p := range prices {
		currency, err := valueobject.ParseCurrency(p.Currency)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
		}
		out = append(out, finance.PriceInput{
			Component:  p.Component,
			UOM:        p.UOM,
			Currency:   currency,
			UnitPrice:  p.UnitPrice,
			Quantity:   p.Quantity,
			TaxPercent: p.TaxPercent,
		})
	}
	return out, nil
}

func amountsToMap(ca valueobject.CurrencyAmounts) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, c := range ca.Currencies() {
		amount, _ := ca.Get(c)
		out[c.String()] = amount
	}
	return out
}

// ToPayableResponse maps a payable aggregate to its response shape.
// Voided child rows are kept in the response so the audit trail is visible;
// only active price lines carry into the amounts.
func ToPayableResponse(p *finance.Payable) *PayableResponse {
	resp := &PayableResponse{
		ID:              p.ID,
		JobSheetNumber:  p.JobSheetNumber,
		InvoiceNumber:   p.InvoiceNumber,
		VendorName:      p.VendorName,
		PayableDate:     p.PayableDate,
		DueDate:         p.DueDate,
		Status:          p.Status.String(),
		Note:            p.Note,
		RejectReason:    p.RejectReason,
		AmountDue:       amountsToMap(p.AmountDue),
		AmountPaid:      amountsToMap(p.AmountPaid),
		AmountRemaining: amountsToMap(p.AmountRemaining),
		Version:         p.GetVersion(),
	}
	for _, price := range p.ActivePrices() {
		resp.Prices = append(resp.Prices, PriceResponse{
			ID:         price.ID,
			Component:  price.Component,
			UOM:        price.UOM,
			Currency:   price.Currency.String(),
			UnitPrice:  price.UnitPrice,
			Quantity:   price.Quantity,
			TaxPercent: price.TaxPercent,
			Total:      price.Total,
		})
	}
	for _, payment := range p.Payments {
		if payment.Status != finance.RecordStatusActive {
			continue
		}
		resp.Payments = append(resp.Payments, PaymentResponse{
			ID:              payment.ID,
			Currency:        payment.Currency.String(),
			AmountPaid:      payment.AmountPaid,
			AmountRemaining: payment.AmountRemaining,
			PaymentDate:     payment.PaymentDate,
			BankRef:         payment.BankRef,
			ProofURL:        payment.ProofURL,
		})
	}
	for _, h := range p.Histories {
		resp.Histories = append(resp.Histories, HistoryResponse{
			Action:    string(h.Action),
			Details:   h.Details,
			ActorName: h.ActorName,
			CreatedAt: h.CreatedAt,
		})
	}
	for _, f := range p.ActiveFiles() {
		resp.Files = append(resp.Files, FileResponse{ID: f.ID, FileName: f.FileName, URL: f.URL})
	}
	return resp
}

// ToInvoiceResponse maps an invoice aggregate to its response shape
func ToInvoiceResponse(inv *finance.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:                      inv.ID,
		InvoiceNumber:           inv.InvoiceNumber,
		JobSheetNumber:          inv.JobSheetNumber,
		CustomerID:              inv.CustomerID,
		ThirdPartyID:            inv.ThirdPartyID,
		RecipientEmail:          inv.RecipientEmail,
		InvoiceDate:             inv.InvoiceDate,
		DueDate:                 inv.DueDate,
		PaymentTerm:             inv.PaymentTerm,
		Currency:                inv.Currency.String(),
		ExchangeRate:            inv.ExchangeRate,
		PPNPercent:              inv.PPNPercent,
		Total:                   inv.Total,
		TotalCurrency:           inv.TotalCurrency,
		AmountPaid:              inv.AmountPaid,
		AmountPaidCurrency:      inv.AmountPaidCurrency,
		AmountRemaining:         inv.AmountRemaining,
		AmountRemainingCurrency: inv.AmountRemainingCurrency,
		Status:                  inv.Status.String(),
		ARStatus:                inv.ARStatus.String(),
		RejectReason:            inv.RejectReason,
		IssuedAt:                inv.IssuedAt,
		Version:                 inv.GetVersion(),
	}
	if inv.PaymentCurrency != nil {
		resp.PaymentCurrency = inv.PaymentCurrency.String()
	}
	for _, price := range inv.ActivePrices() {
		resp.Prices = append(resp.Prices, PriceResponse{
			ID:        price.ID,
			Component: price.Component,
			UOM:       price.UOM,
			Currency:  price.Currency.String(),
			UnitPrice: price.UnitPrice,
			Quantity:  price.Quantity,
			Total:     price.Subtotal,
		})
	}
	for _, payment := range inv.Payments {
		if payment.Status != finance.RecordStatusActive {
			continue
		}
		resp.Payments = append(resp.Payments, PaymentResponse{
			ID:          payment.ID,
			Currency:    payment.Currency.String(),
			AmountPaid:  payment.AmountPaid,
			PaymentDate: payment.PaymentDate,
			BankRef:     payment.BankRef,
			ProofURL:    payment.ProofURL,
		})
	}
	for _, h := range inv.Histories {
		resp.Histories = append(resp.Histories, HistoryResponse{
			Action:    string(h.Action),
			Details:   h.Details,
			ActorName: h.ActorName,
			CreatedAt: h.CreatedAt,
		})
	}
	if inv.Revision != nil {
		resp.Revision = &RevisionResponse{
			ID:            inv.Revision.ID,
			InvoiceNumber: inv.Revision.InvoiceNumber,
			Status:        inv.Revision.Status.String(),
			RequestedBy:   inv.Revision.RequestedBy,
			RequestReason: inv.Revision.RequestReason,
			RequestedAt:   inv.Revision.RequestedAt,
		}
	}
	return resp
}
