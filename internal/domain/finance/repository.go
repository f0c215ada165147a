package finance

import (
	"context"
	"time"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// PayableFilter defines filtering options for payable queries
type PayableFilter struct {
	shared.Filter
	JobSheetNumber *string        // Filter by owning job sheet
	Status         *PayableStatus // Filter by approval status
	VendorName     *string        // Filter by vendor name
	FromDate       *time.Time     // Filter by payable date range start
	ToDate         *time.Time     // Filter by payable date range end
}

// PayableRepository defines the interface for payable persistence
type PayableRepository interface {
	// FindByID finds a payable by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payable, error)

	// FindByIDForCompany finds a payable by ID scoped to a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Payable, error)

	// FindByJobSheet finds all payables owned by a job sheet
	FindByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]Payable, error)

	// FindAllForCompany finds payables for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter PayableFilter) (shared.Paginated[Payable], error)

	// StatusesByJobSheet returns the status of every payable owned by a job sheet
	StatusesByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]string, error)

	// ExistsByInvoiceNumber checks whether a vendor invoice number is taken
	// within the company, excluding the given payable ID
	ExistsByInvoiceNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string, excludeID uuid.UUID) (bool, error)

	// Save creates or updates a payable with its child records
	Save(ctx context.Context, payable *Payable) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payable *Payable) error
}

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	JobSheetNumber *string        // Filter by owning job sheet
	CustomerID     *uuid.UUID     // Filter by customer
	Status         *InvoiceStatus // Filter by document status
	ARStatus       *ARStatus      // Filter by settlement status
	FromDate       *time.Time     // Filter by invoice date range start
	ToDate         *time.Time     // Filter by invoice date range end
	DueFrom        *time.Time     // Filter by due date range start
	DueTo          *time.Time     // Filter by due date range end
}

// InvoiceRepository defines the interface for receivable invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForCompany finds an invoice by ID scoped to a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)

	// FindByJobSheet finds all invoices owned by a job sheet
	FindByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]Invoice, error)

	// FindAllForCompany finds invoices for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) (shared.Paginated[Invoice], error)

	// ARStatusesByJobSheet returns the arStatus of every invoice owned by a job sheet
	ARStatusesByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]string, error)

	// ExistsByInvoiceNumber checks whether an invoice number is taken across
	// all invoices, excluding the given invoice ID
	ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string, excludeID uuid.UUID) (bool, error)

	// Save creates or updates an invoice with its child records
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}

// JobSheetRepository defines the interface for job sheet persistence
type JobSheetRepository interface {
	// FindByID finds a job sheet by ID
	FindByID(ctx context.Context, id uuid.UUID) (*JobSheet, error)

	// FindByNumber finds a job sheet by its number scoped to a company
	FindByNumber(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) (*JobSheet, error)

	// FindAllForCompany finds job sheets for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[JobSheet], error)

	// Save creates or updates a job sheet
	Save(ctx context.Context, jobSheet *JobSheet) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, jobSheet *JobSheet) error
}
