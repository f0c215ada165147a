package notification

import (
	"context"

	appfinance "github.com/kincat201/syncargo-be-sub000/internal/application/finance"
	infraconfig "github.com/kincat201/syncargo-be-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure LogMailer implements Mailer
var _ appfinance.Mailer = (*LogMailer)(nil)

// LogMailer records outbound mail payloads to the application log instead of
// delivering them. The sender identity comes from mail configuration so log
// entries mirror what a real delivery would carry.
type LogMailer struct {
	fromAddress string
	fromName    string
	logger      *zap.Logger
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(cfg *infraconfig.MailConfig, logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &LogMailer{logger: logger.Named("mailer")}
	if cfg != nil {
		m.fromAddress = cfg.FromAddress
		m.fromName = cfg.FromName
	}
	return m
}

// SendRemittance logs a remittance notice email
func (m *LogMailer) SendRemittance(ctx context.Context, mail appfinance.RemittanceMail) error {
	m.logger.Info("Remittance email",
		zap.String("from", m.fromAddress),
		zap.String("to", mail.RecipientEmail),
		zap.String("vendor_name", mail.VendorName),
		zap.String("job_sheet_number", mail.JobSheetNumber),
		zap.String("currency", mail.Currency),
		zap.String("amount", mail.Amount),
		zap.String("bank_ref", mail.BankRef),
		zap.String("payment_date", mail.PaymentDate),
	)
	return nil
}

// SendIssuedInvoice logs an issued-invoice email
func (m *LogMailer) SendIssuedInvoice(ctx context.Context, mail appfinance.IssuedInvoiceMail) error {
	m.logger.Info("Issued invoice email",
		zap.String("from", m.fromAddress),
		zap.String("to", mail.RecipientEmail),
		zap.String("invoice_number", mail.InvoiceNumber),
		zap.String("job_sheet_number", mail.JobSheetNumber),
		zap.String("due_date", mail.DueDate),
		zap.String("currency", mail.Currency),
		zap.String("total_currency", mail.TotalCurrency),
	)
	return nil
}

// SendEditInvoiceRequest logs an edit-approval request email
func (m *LogMailer) SendEditInvoiceRequest(ctx context.Context, mail appfinance.EditInvoiceRequestMail) error {
	m.logger.Info("Edit invoice request email",
		zap.String("from", m.fromAddress),
		zap.Strings("to", mail.RecipientEmails),
		zap.String("invoice_number", mail.InvoiceNumber),
		zap.String("requested_by", mail.RequestedBy),
		zap.String("reason", mail.Reason),
	)
	return nil
}
