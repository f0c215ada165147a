package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceInputsJSON stores a revision's proposed price lines as a JSON array.
type PriceInputsJSON []finance.PriceInput

// Value implements driver.Valuer for JSONB storage
func (p PriceInputsJSON) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]finance.PriceInput(p))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *PriceInputsJSON) Scan(value any) error {
	if value == nil {
		*p = PriceInputsJSON{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PriceInputsJSON", value)
	}
	if len(data) == 0 {
		*p = PriceInputsJSON{}
		return nil
	}
	return json.Unmarshal(data, (*[]finance.PriceInput)(p))
}

// PayableModel is the persistence model for the Payable aggregate root.
type PayableModel struct {
	CompanyAggregateModel
	JobSheetNumber  string                      `gorm:"type:varchar(50);not null;index"`
	InvoiceNumber   string                      `gorm:"type:varchar(50);index"`
	VendorName      string                      `gorm:"type:varchar(200);not null"`
	PayableDate     time.Time                   `gorm:"not null"`
	DueDate         time.Time                   `gorm:"not null;index"`
	Status          finance.PayableStatus       `gorm:"type:varchar(30);not null;default:'WAITING_APPROVAL';index"`
	Note            string                      `gorm:"type:text"`
	RejectReason    string                      `gorm:"type:varchar(500)"`
	AmountDue       valueobject.CurrencyAmounts `gorm:"type:jsonb;default:'{}'"`
	AmountPaid      valueobject.CurrencyAmounts `gorm:"type:jsonb;default:'{}'"`
	AmountRemaining valueobject.CurrencyAmounts `gorm:"type:jsonb;default:'{}'"`
	Prices          []PayablePriceModel         `gorm:"foreignKey:PayableID;references:ID"`
	Payments        []PayablePaymentModel       `gorm:"foreignKey:PayableID;references:ID"`
	Histories       []PayableHistoryModel       `gorm:"foreignKey:PayableID;references:ID"`
	Files           []PayableFileModel          `gorm:"foreignKey:PayableID;references:ID"`
}

// TableName returns the table name for GORM
func (PayableModel) TableName() string {
	return "payables"
}

// ToDomain converts the persistence model to a domain Payable entity.
func (m *PayableModel) ToDomain() *finance.Payable {
	p := &finance.Payable{
		JobSheetNumber:  m.JobSheetNumber,
		InvoiceNumber:   m.InvoiceNumber,
		VendorName:      m.VendorName,
		PayableDate:     m.PayableDate,
		DueDate:         m.DueDate,
		Status:          m.Status,
		Note:            m.Note,
		RejectReason:    m.RejectReason,
		AmountDue:       m.AmountDue,
		AmountPaid:      m.AmountPaid,
		AmountRemaining: m.AmountRemaining,
		Prices:          make([]finance.PayablePrice, len(m.Prices)),
		Payments:        make([]finance.PayablePayment, len(m.Payments)),
		Histories:       make([]finance.PayableHistoryEntry, len(m.Histories)),
		Files:           make([]finance.PayableFile, len(m.Files)),
	}
	m.PopulateCompanyAggregateRoot(&p.CompanyAggregateRoot)
	for i, pr := range m.Prices {
		p.Prices[i] = *pr.ToDomain()
	}
	for i, pm := range m.Payments {
		p.Payments[i] = *pm.ToDomain()
	}
	for i, h := range m.Histories {
		p.Histories[i] = *h.ToDomain()
	}
	for i, f := range m.Files {
		p.Files[i] = *f.ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Payable entity.
func (m *PayableModel) FromDomain(p *finance.Payable) {
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	m.JobSheetNumber = p.JobSheetNumber
	m.InvoiceNumber = p.InvoiceNumber
	m.VendorName = p.VendorName
	m.PayableDate = p.PayableDate
	m.DueDate = p.DueDate
	m.Status = p.Status
	m.Note = p.Note
	m.RejectReason = p.RejectReason
	m.AmountDue = p.AmountDue
	m.AmountPaid = p.AmountPaid
	m.AmountRemaining = p.AmountRemaining
	m.Prices = make([]PayablePriceModel, len(p.Prices))
	for i, pr := range p.Prices {
		m.Prices[i] = *PayablePriceModelFromDomain(p.ID, &pr)
	}
	m.Payments = make([]PayablePaymentModel, len(p.Payments))
	for i, pm := range p.Payments {
		m.Payments[i] = *PayablePaymentModelFromDomain(p.ID, &pm)
	}
	m.Histories = make([]PayableHistoryModel, len(p.Histories))
	for i, h := range p.Histories {
		m.Histories[i] = *PayableHistoryModelFromDomain(p.ID, &h)
	}
	m.Files = make([]PayableFileModel, len(p.Files))
	for i, f := range p.Files {
		m.Files[i] = *PayableFileModelFromDomain(p.ID, &f)
	}
}

// PayableModelFromDomain creates a new persistence model from a domain Payable.
func PayableModelFromDomain(p *finance.Payable) *PayableModel {
	m := &PayableModel{}
	m.FromDomain(p)
	return m
}

// PayablePriceModel is the persistence model for a payable price line.
type PayablePriceModel struct {
	ID         uuid.UUID            `gorm:"type:uuid;primary_key"`
	PayableID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Component  string               `gorm:"type:varchar(200);not null"`
	UOM        string               `gorm:"type:varchar(50)"`
	Currency   valueobject.Currency `gorm:"type:varchar(3);not null"`
	UnitPrice  decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Quantity   decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	TaxPercent decimal.Decimal      `gorm:"type:decimal(8,4);not null"`
	Total      decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Status     finance.RecordStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (PayablePriceModel) TableName() string {
	return "payable_prices"
}

// ToDomain converts the persistence model to a domain PayablePrice.
func (m *PayablePriceModel) ToDomain() *finance.PayablePrice {
	return &finance.PayablePrice{
		ID:         m.ID,
		Component:  m.Component,
		UOM:        m.UOM,
		Currency:   m.Currency,
		UnitPrice:  m.UnitPrice,
		Quantity:   m.Quantity,
		TaxPercent: m.TaxPercent,
		Total:      m.Total,
		Status:     m.Status,
	}
}

// PayablePriceModelFromDomain creates a new persistence model from domain.
func PayablePriceModelFromDomain(payableID uuid.UUID, pr *finance.PayablePrice) *PayablePriceModel {
	return &PayablePriceModel{
		ID:         pr.ID,
		PayableID:  payableID,
		Component:  pr.Component,
		UOM:        pr.UOM,
		Currency:   pr.Currency,
		UnitPrice:  pr.UnitPrice,
		Quantity:   pr.Quantity,
		TaxPercent: pr.TaxPercent,
		Total:      pr.Total,
		Status:     pr.Status,
	}
}

// PayablePaymentModel is the persistence model for a payable payment record.
type PayablePaymentModel struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key"`
	PayableID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency        valueobject.Currency `gorm:"type:varchar(3);not null"`
	AmountPaid      decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	AmountRemaining decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	PaymentDate     time.Time            `gorm:"not null"`
	BankRef         string               `gorm:"type:varchar(100)"`
	ProofURL        string               `gorm:"type:varchar(500)"`
	Status          finance.RecordStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt       time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayablePaymentModel) TableName() string {
	return "payable_payments"
}

// ToDomain converts the persistence model to a domain PayablePayment.
func (m *PayablePaymentModel) ToDomain() *finance.PayablePayment {
	return &finance.PayablePayment{
		ID:              m.ID,
		Currency:        m.Currency,
		AmountPaid:      m.AmountPaid,
		AmountRemaining: m.AmountRemaining,
		PaymentDate:     m.PaymentDate,
		BankRef:         m.BankRef,
		ProofURL:        m.ProofURL,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
	}
}

// PayablePaymentModelFromDomain creates a new persistence model from domain.
func PayablePaymentModelFromDomain(payableID uuid.UUID, pm *finance.PayablePayment) *PayablePaymentModel {
	return &PayablePaymentModel{
		ID:              pm.ID,
		PayableID:       payableID,
		Currency:        pm.Currency,
		AmountPaid:      pm.AmountPaid,
		AmountRemaining: pm.AmountRemaining,
		PaymentDate:     pm.PaymentDate,
		BankRef:         pm.BankRef,
		ProofURL:        pm.ProofURL,
		Status:          pm.Status,
		CreatedAt:       pm.CreatedAt,
	}
}

// PayableHistoryModel is the persistence model for a payable audit log row.
type PayableHistoryModel struct {
	ID        uuid.UUID                    `gorm:"type:uuid;primary_key"`
	PayableID uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Action    finance.PayableHistoryAction `gorm:"type:varchar(30);not null"`
	Details   string                       `gorm:"type:varchar(500)"`
	ActorID   uuid.UUID                    `gorm:"type:uuid;not null"`
	ActorName string                       `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time                    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayableHistoryModel) TableName() string {
	return "payable_histories"
}

// ToDomain converts the persistence model to a domain PayableHistoryEntry.
func (m *PayableHistoryModel) ToDomain() *finance.PayableHistoryEntry {
	return &finance.PayableHistoryEntry{
		ID:        m.ID,
		Action:    m.Action,
		Details:   m.Details,
		ActorID:   m.ActorID,
		ActorName: m.ActorName,
		CreatedAt: m.CreatedAt,
	}
}

// PayableHistoryModelFromDomain creates a new persistence model from domain.
func PayableHistoryModelFromDomain(payableID uuid.UUID, h *finance.PayableHistoryEntry) *PayableHistoryModel {
	return &PayableHistoryModel{
		ID:        h.ID,
		PayableID: payableID,
		Action:    h.Action,
		Details:   h.Details,
		ActorID:   h.ActorID,
		ActorName: h.ActorName,
		CreatedAt: h.CreatedAt,
	}
}

// PayableFileModel is the persistence model for a payable attachment.
type PayableFileModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key"`
	PayableID uuid.UUID            `gorm:"type:uuid;not null;index"`
	FileName  string               `gorm:"type:varchar(255);not null"`
	URL       string               `gorm:"type:varchar(500);not null"`
	Status    finance.RecordStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (PayableFileModel) TableName() string {
	return "payable_files"
}

// ToDomain converts the persistence model to a domain PayableFile.
func (m *PayableFileModel) ToDomain() *finance.PayableFile {
	return &finance.PayableFile{
		ID:       m.ID,
		FileName: m.FileName,
		URL:      m.URL,
		Status:   m.Status,
	}
}

// PayableFileModelFromDomain creates a new persistence model from domain.
func PayableFileModelFromDomain(payableID uuid.UUID, f *finance.PayableFile) *PayableFileModel {
	return &PayableFileModel{
		ID:        f.ID,
		PayableID: payableID,
		FileName:  f.FileName,
		URL:       f.URL,
		Status:    f.Status,
	}
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	CompanyAggregateModel
	InvoiceNumber           string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	JobSheetNumber          string                `gorm:"type:varchar(50);not null;index"`
	CustomerID              uuid.UUID             `gorm:"type:uuid;not null;index"`
	ThirdPartyID            *uuid.UUID            `gorm:"type:uuid;index"`
	RecipientEmail          string                `gorm:"type:varchar(255)"`
	InvoiceDate             time.Time             `gorm:"not null"`
	DueDate                 time.Time             `gorm:"not null;index"`
	PaymentTerm             string                `gorm:"type:varchar(30);not null"`
	Currency                valueobject.Currency  `gorm:"type:varchar(3);not null"`
	ExchangeRate            decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PPNPercent              decimal.Decimal       `gorm:"type:decimal(8,4);not null"`
	Total                   decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	TotalCurrency           decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	AmountPaid              decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	AmountPaidCurrency      decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	AmountRemaining         decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	AmountRemainingCurrency decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaymentCurrency         *valueobject.Currency `gorm:"type:varchar(3)"`
	Status                  finance.InvoiceStatus `gorm:"type:varchar(30);not null;default:'PROFORMA';index"`
	ARStatus                finance.ARStatus      `gorm:"type:varchar(30);not null;default:'WAITING_APPROVAL';index"`
	RejectReason            string                `gorm:"type:varchar(500)"`
	IssuedAt                *time.Time
	IssuedBy                *uuid.UUID            `gorm:"type:uuid"`
	Prices                  []InvoicePriceModel   `gorm:"foreignKey:InvoiceID;references:ID"`
	Payments                []InvoicePaymentModel `gorm:"foreignKey:InvoiceID;references:ID"`
	Histories               []InvoiceHistoryModel `gorm:"foreignKey:InvoiceID;references:ID"`
	Revision                *InvoiceRevisionModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		InvoiceNumber:           m.InvoiceNumber,
		JobSheetNumber:          m.JobSheetNumber,
		CustomerID:              m.CustomerID,
		ThirdPartyID:            m.ThirdPartyID,
		RecipientEmail:          m.RecipientEmail,
		InvoiceDate:             m.InvoiceDate,
		DueDate:                 m.DueDate,
		PaymentTerm:             m.PaymentTerm,
		Currency:                m.Currency,
		ExchangeRate:            m.ExchangeRate,
		PPNPercent:              m.PPNPercent,
		Total:                   m.Total,
		TotalCurrency:           m.TotalCurrency,
		AmountPaid:              m.AmountPaid,
		AmountPaidCurrency:      m.AmountPaidCurrency,
		AmountRemaining:         m.AmountRemaining,
		AmountRemainingCurrency: m.AmountRemainingCurrency,
		PaymentCurrency:         m.PaymentCurrency,
		Status:                  m.Status,
		ARStatus:                m.ARStatus,
		RejectReason:            m.RejectReason,
		IssuedAt:                m.IssuedAt,
		IssuedBy:                m.IssuedBy,
		Prices:                  make([]finance.InvoicePrice, len(m.Prices)),
		Payments:                make([]finance.InvoicePayment, len(m.Payments)),
		Histories:               make([]finance.InvoiceHistoryEntry, len(m.Histories)),
	}
	m.PopulateCompanyAggregateRoot(&inv.CompanyAggregateRoot)
	for i, pr := range m.Prices {
		inv.Prices[i] = *pr.ToDomain()
	}
	for i, pm := range m.Payments {
		inv.Payments[i] = *pm.ToDomain()
	}
	for i, h := range m.Histories {
		inv.Histories[i] = *h.ToDomain()
	}
	if m.Revision != nil {
		inv.Revision = m.Revision.ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainCompanyAggregateRoot(inv.CompanyAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.JobSheetNumber = inv.JobSheetNumber
	m.CustomerID = inv.CustomerID
	m.ThirdPartyID = inv.ThirdPartyID
	m.RecipientEmail = inv.RecipientEmail
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.PaymentTerm = inv.PaymentTerm
	m.Currency = inv.Currency
	m.ExchangeRate = inv.ExchangeRate
	m.PPNPercent = inv.PPNPercent
	m.Total = inv.Total
	m.TotalCurrency = inv.TotalCurrency
	m.AmountPaid = inv.AmountPaid
	m.AmountPaidCurrency = inv.AmountPaidCurrency
	m.AmountRemaining = inv.AmountRemaining
	m.AmountRemainingCurrency = inv.AmountRemainingCurrency
	m.PaymentCurrency = inv.PaymentCurrency
	m.Status = inv.Status
	m.ARStatus = inv.ARStatus
	m.RejectReason = inv.RejectReason
	m.IssuedAt = inv.IssuedAt
	m.IssuedBy = inv.IssuedBy
	m.Prices = make([]InvoicePriceModel, len(inv.Prices))
	for i, pr := range inv.Prices {
		m.Prices[i] = *InvoicePriceModelFromDomain(inv.ID, &pr)
	}
	m.Payments = make([]InvoicePaymentModel, len(inv.Payments))
	for i, pm := range inv.Payments {
		m.Payments[i] = *InvoicePaymentModelFromDomain(inv.ID, &pm)
	}
	m.Histories = make([]InvoiceHistoryModel, len(inv.Histories))
	for i, h := range inv.Histories {
		m.Histories[i] = *InvoiceHistoryModelFromDomain(inv.ID, &h)
	}
	if inv.Revision != nil {
		m.Revision = InvoiceRevisionModelFromDomain(inv.ID, inv.Revision)
	} else {
		m.Revision = nil
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoicePriceModel is the persistence model for an invoice price line.
type InvoicePriceModel struct {
	ID               uuid.UUID            `gorm:"type:uuid;primary_key"`
	InvoiceID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	Component        string               `gorm:"type:varchar(200);not null"`
	UOM              string               `gorm:"type:varchar(50)"`
	Currency         valueobject.Currency `gorm:"type:varchar(3);not null"`
	UnitPrice        decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Quantity         decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Subtotal         decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	SubtotalCurrency decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Status           finance.RecordStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (InvoicePriceModel) TableName() string {
	return "invoice_prices"
}

// ToDomain converts the persistence model to a domain InvoicePrice.
func (m *InvoicePriceModel) ToDomain() *finance.InvoicePrice {
	return &finance.InvoicePrice{
		ID:               m.ID,
		Component:        m.Component,
		UOM:              m.UOM,
		Currency:         m.Currency,
		UnitPrice:        m.UnitPrice,
		Quantity:         m.Quantity,
		Subtotal:         m.Subtotal,
		SubtotalCurrency: m.SubtotalCurrency,
		Status:           m.Status,
	}
}

// InvoicePriceModelFromDomain creates a new persistence model from domain.
func InvoicePriceModelFromDomain(invoiceID uuid.UUID, pr *finance.InvoicePrice) *InvoicePriceModel {
	return &InvoicePriceModel{
		ID:               pr.ID,
		InvoiceID:        invoiceID,
		Component:        pr.Component,
		UOM:              pr.UOM,
		Currency:         pr.Currency,
		UnitPrice:        pr.UnitPrice,
		Quantity:         pr.Quantity,
		Subtotal:         pr.Subtotal,
		SubtotalCurrency: pr.SubtotalCurrency,
		Status:           pr.Status,
	}
}

// InvoicePaymentModel is the persistence model for an invoice payment record.
type InvoicePaymentModel struct {
	ID                 uuid.UUID            `gorm:"type:uuid;primary_key"`
	InvoiceID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency           valueobject.Currency `gorm:"type:varchar(3);not null"`
	AmountPaid         decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	AmountPaidCurrency decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	PaymentDate        time.Time            `gorm:"not null"`
	BankRef            string               `gorm:"type:varchar(100)"`
	ProofURL           string               `gorm:"type:varchar(500)"`
	Status             finance.RecordStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt          time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoicePaymentModel) TableName() string {
	return "invoice_payments"
}

// ToDomain converts the persistence model to a domain InvoicePayment.
func (m *InvoicePaymentModel) ToDomain() *finance.InvoicePayment {
	return &finance.InvoicePayment{
		ID:                 m.ID,
		Currency:           m.Currency,
		AmountPaid:         m.AmountPaid,
		AmountPaidCurrency: m.AmountPaidCurrency,
		PaymentDate:        m.PaymentDate,
		BankRef:            m.BankRef,
		ProofURL:           m.ProofURL,
		Status:             m.Status,
		CreatedAt:          m.CreatedAt,
	}
}

// InvoicePaymentModelFromDomain creates a new persistence model from domain.
func InvoicePaymentModelFromDomain(invoiceID uuid.UUID, pm *finance.InvoicePayment) *InvoicePaymentModel {
	return &InvoicePaymentModel{
		ID:                 pm.ID,
		InvoiceID:          invoiceID,
		Currency:           pm.Currency,
		AmountPaid:         pm.AmountPaid,
		AmountPaidCurrency: pm.AmountPaidCurrency,
		PaymentDate:        pm.PaymentDate,
		BankRef:            pm.BankRef,
		ProofURL:           pm.ProofURL,
		Status:             pm.Status,
		CreatedAt:          pm.CreatedAt,
	}
}

// InvoiceHistoryModel is the persistence model for an invoice audit log row.
type InvoiceHistoryModel struct {
	ID        uuid.UUID                    `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Action    finance.InvoiceHistoryAction `gorm:"type:varchar(30);not null"`
	Details   string                       `gorm:"type:varchar(500)"`
	ActorID   uuid.UUID                    `gorm:"type:uuid;not null"`
	ActorName string                       `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time                    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceHistoryModel) TableName() string {
	return "invoice_histories"
}

// ToDomain converts the persistence model to a domain InvoiceHistoryEntry.
func (m *InvoiceHistoryModel) ToDomain() *finance.InvoiceHistoryEntry {
	return &finance.InvoiceHistoryEntry{
		ID:        m.ID,
		Action:    m.Action,
		Details:   m.Details,
		ActorID:   m.ActorID,
		ActorName: m.ActorName,
		CreatedAt: m.CreatedAt,
	}
}

// InvoiceHistoryModelFromDomain creates a new persistence model from domain.
func InvoiceHistoryModelFromDomain(invoiceID uuid.UUID, h *finance.InvoiceHistoryEntry) *InvoiceHistoryModel {
	return &InvoiceHistoryModel{
		ID:        h.ID,
		InvoiceID: invoiceID,
		Action:    h.Action,
		Details:   h.Details,
		ActorID:   h.ActorID,
		ActorName: h.ActorName,
		CreatedAt: h.CreatedAt,
	}
}

// InvoiceRevisionModel is the persistence model for the single revision slot
// of an invoice. The proposed price lines are stored as a JSON array.
type InvoiceRevisionModel struct {
	ID             uuid.UUID              `gorm:"type:uuid;primary_key"`
	InvoiceID      uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex"`
	InvoiceNumber  string                 `gorm:"type:varchar(50);not null"`
	RecipientEmail string                 `gorm:"type:varchar(255)"`
	InvoiceDate    time.Time              `gorm:"not null"`
	DueDate        time.Time              `gorm:"not null"`
	PaymentTerm    string                 `gorm:"type:varchar(30);not null"`
	ThirdPartyID   *uuid.UUID             `gorm:"type:uuid"`
	Currency       valueobject.Currency   `gorm:"type:varchar(3);not null"`
	ExchangeRate   decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	PPNPercent     decimal.Decimal        `gorm:"type:decimal(8,4);not null"`
	Prices         PriceInputsJSON        `gorm:"type:jsonb;default:'[]'"`
	Status         finance.RevisionStatus `gorm:"type:varchar(30);not null;default:'NEED_APPROVAL'"`
	RequestedByID  uuid.UUID              `gorm:"type:uuid;not null"`
	RequestedBy    string                 `gorm:"type:varchar(200);not null"`
	RequestReason  string                 `gorm:"type:varchar(500);not null"`
	RequestedAt    time.Time              `gorm:"not null"`
	DecidedAt      *time.Time
}

// TableName returns the table name for GORM
func (InvoiceRevisionModel) TableName() string {
	return "invoice_revisions"
}

// ToDomain converts the persistence model to a domain InvoiceRevision.
func (m *InvoiceRevisionModel) ToDomain() *finance.InvoiceRevision {
	return &finance.InvoiceRevision{
		ID:             m.ID,
		InvoiceNumber:  m.InvoiceNumber,
		RecipientEmail: m.RecipientEmail,
		InvoiceDate:    m.InvoiceDate,
		DueDate:        m.DueDate,
		PaymentTerm:    m.PaymentTerm,
		ThirdPartyID:   m.ThirdPartyID,
		Currency:       m.Currency,
		ExchangeRate:   m.ExchangeRate,
		PPNPercent:     m.PPNPercent,
		Prices:         m.Prices,
		Status:         m.Status,
		RequestedByID:  m.RequestedByID,
		RequestedBy:    m.RequestedBy,
		RequestReason:  m.RequestReason,
		RequestedAt:    m.RequestedAt,
		DecidedAt:      m.DecidedAt,
	}
}

// InvoiceRevisionModelFromDomain creates a new persistence model from domain.
func InvoiceRevisionModelFromDomain(invoiceID uuid.UUID, rev *finance.InvoiceRevision) *InvoiceRevisionModel {
	return &InvoiceRevisionModel{
		ID:             rev.ID,
		InvoiceID:      invoiceID,
		InvoiceNumber:  rev.InvoiceNumber,
		RecipientEmail: rev.RecipientEmail,
		InvoiceDate:    rev.InvoiceDate,
		DueDate:        rev.DueDate,
		PaymentTerm:    rev.PaymentTerm,
		ThirdPartyID:   rev.ThirdPartyID,
		Currency:       rev.Currency,
		ExchangeRate:   rev.ExchangeRate,
		PPNPercent:     rev.PPNPercent,
		Prices:         rev.Prices,
		Status:         rev.Status,
		RequestedByID:  rev.RequestedByID,
		RequestedBy:    rev.RequestedBy,
		RequestReason:  rev.RequestReason,
		RequestedAt:    rev.RequestedAt,
		DecidedAt:      rev.DecidedAt,
	}
}

// JobSheetModel is the persistence model for the JobSheet aggregate root.
type JobSheetModel struct {
	CompanyAggregateModel
	JobSheetNumber string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_job_sheet_company_number,priority:2"`
	ItemType       finance.JobSheetItemType `gorm:"type:varchar(10);not null"`
	CustomerID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	APStatus       finance.StatusCounts     `gorm:"type:jsonb;default:'{}'"`
	ARStatus       finance.StatusCounts     `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (JobSheetModel) TableName() string {
	return "job_sheets"
}

// ToDomain converts the persistence model to a domain JobSheet entity.
func (m *JobSheetModel) ToDomain() *finance.JobSheet {
	js := &finance.JobSheet{
		JobSheetNumber: m.JobSheetNumber,
		ItemType:       m.ItemType,
		CustomerID:     m.CustomerID,
		APStatus:       m.APStatus,
		ARStatus:       m.ARStatus,
	}
	m.PopulateCompanyAggregateRoot(&js.CompanyAggregateRoot)
	return js
}

// FromDomain populates the persistence model from a domain JobSheet entity.
func (m *JobSheetModel) FromDomain(js *finance.JobSheet) {
	m.FromDomainCompanyAggregateRoot(js.CompanyAggregateRoot)
	m.JobSheetNumber = js.JobSheetNumber
	m.ItemType = js.ItemType
	m.CustomerID = js.CustomerID
	m.APStatus = js.APStatus
	m.ARStatus = js.ARStatus
}

// JobSheetModelFromDomain creates a new persistence model from a domain JobSheet.
func JobSheetModelFromDomain(js *finance.JobSheet) *JobSheetModel {
	m := &JobSheetModel{}
	m.FromDomain(js)
	return m
}
