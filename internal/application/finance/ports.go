package finance

import (
	"context"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// FileUpload is one attachment submitted with a create or revise request
type FileUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// StoredFile is the result of uploading an attachment
type StoredFile struct {
	FileName string
	URL      string
}

// FileStorage stores payable attachments and payment proofs. Upload failures
// abort the surrounding mutation; nothing is persisted without its files.
type FileStorage interface {
	Upload(ctx context.Context, files []FileUpload) ([]StoredFile, error)
	Delete(ctx context.Context, fileNames []string) error
}

// InternalApprovalNote is the payload of an in-app approval notification
type InternalApprovalNote struct {
	ActorID      uuid.UUID
	ActorName    string
	CompanyID    uuid.UUID
	DomainType   string
	ActionStatus string
	Payload      map[string]any
	Broadcast    bool
	RecipientIDs []uuid.UUID
}

// Notifier delivers in-app notifications. Calls are made after commit and are
// best-effort; failures are logged, never propagated.
type Notifier interface {
	NotifyInternalApproval(ctx context.Context, note InternalApprovalNote) error
}

// EventPublisher receives the domain events an aggregate raised during a
// mutation. Services drain events here after commit; failures are logged,
// never propagated.
type EventPublisher interface {
	Publish(ctx context.Context, events []shared.DomainEvent) error
}

// RemittanceMail is the payload of a remittance notice email
type RemittanceMail struct {
	RecipientEmail string
	VendorName     string
	JobSheetNumber string
	Message        string
	Currency       string
	Amount         string
	BankRef        string
	PaymentDate    string
}

// IssuedInvoiceMail is the payload sent when an invoice is issued
type IssuedInvoiceMail struct {
	RecipientEmail string
	InvoiceNumber  string
	JobSheetNumber string
	DueDate        string
	Currency       string
	TotalCurrency  string
}

// EditInvoiceRequestMail asks approvers to review a proposed invoice edit
type EditInvoiceRequestMail struct {
	RecipientEmails []string
	InvoiceNumber   string
	RequestedBy     string
	Reason          string
}

// Mailer delivers outbound emails. Same post-commit best-effort contract as
// Notifier.
type Mailer interface {
	SendRemittance(ctx context.Context, mail RemittanceMail) error
	SendIssuedInvoice(ctx context.Context, mail IssuedInvoiceMail) error
	SendEditInvoiceRequest(ctx context.Context, mail EditInvoiceRequestMail) error
}

// PartnerDirectory resolves customer and third-party master data owned by
// collaborating services.
type PartnerDirectory interface {
	// PaymentTermFor returns the payment-term label for the third party when
	// one is linked, otherwise the customer's term.
	PaymentTermFor(ctx context.Context, companyID, customerID uuid.UUID, thirdPartyID *uuid.UUID) (string, error)

	// RestrictedPlan reports whether the company's pricing plan enforces
	// vendor invoice-number uniqueness on payables.
	RestrictedPlan(ctx context.Context, companyID uuid.UUID) (bool, error)
}
