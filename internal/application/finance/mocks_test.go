package finance

import (
	"context"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockPayableRepository is a mock implementation of finance.PayableRepository
type MockPayableRepository struct {
	mock.Mock
}

func (m *MockPayableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payable), args.Error(1)
}

func (m *MockPayableRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Payable, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payable), args.Error(1)
}

func (m *MockPayableRepository) FindByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]finance.Payable, error) {
	args := m.Called(ctx, companyID, jobSheetNumber)
	return args.Get(0).([]finance.Payable), args.Error(1)
}

func (m *MockPayableRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter finance.PayableFilter) (shared.Paginated[finance.Payable], error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(shared.Paginated[finance.Payable]), args.Error(1)
}

func (m *MockPayableRepository) StatusesByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]string, error) {
	args := m.Called(ctx, companyID, jobSheetNumber)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPayableRepository) ExistsByInvoiceNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, invoiceNumber, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPayableRepository) Save(ctx context.Context, payable *finance.Payable) error {
	args := m.Called(ctx, payable)
	return args.Error(0)
}

func (m *MockPayableRepository) SaveWithLock(ctx context.Context, payable *finance.Payable) error {
	args := m.Called(ctx, payable)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of finance.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]finance.Invoice, error) {
	args := m.Called(ctx, companyID, jobSheetNumber)
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter finance.InvoiceFilter) (shared.Paginated[finance.Invoice], error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(shared.Paginated[finance.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) ARStatusesByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]string, error) {
	args := m.Called(ctx, companyID, jobSheetNumber)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, invoiceNumber, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

// MockJobSheetRepository is a mock implementation of finance.JobSheetRepository
type MockJobSheetRepository struct {
	mock.Mock
}

func (m *MockJobSheetRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.JobSheet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.JobSheet), args.Error(1)
}

func (m *MockJobSheetRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) (*finance.JobSheet, error) {
	args := m.Called(ctx, companyID, jobSheetNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.JobSheet), args.Error(1)
}

func (m *MockJobSheetRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[finance.JobSheet], error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(shared.Paginated[finance.JobSheet]), args.Error(1)
}

func (m *MockJobSheetRepository) Save(ctx context.Context, jobSheet *finance.JobSheet) error {
	args := m.Called(ctx, jobSheet)
	return args.Error(0)
}

func (m *MockJobSheetRepository) SaveWithLock(ctx context.Context, jobSheet *finance.JobSheet) error {
	args := m.Called(ctx, jobSheet)
	return args.Error(0)
}

// =============================================================================
// Mock Collaborators
// =============================================================================

// MockFileStorage is a mock implementation of FileStorage
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Upload(ctx context.Context, files []FileUpload) ([]StoredFile, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StoredFile), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, fileNames []string) error {
	args := m.Called(ctx, fileNames)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyInternalApproval(ctx context.Context, note InternalApprovalNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

// MockMailer is a mock implementation of Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendRemittance(ctx context.Context, mail RemittanceMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

func (m *MockMailer) SendIssuedInvoice(ctx context.Context, mail IssuedInvoiceMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

func (m *MockMailer) SendEditInvoiceRequest(ctx context.Context, mail EditInvoiceRequestMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

// RecordingEventPublisher captures published domain events for assertions
type RecordingEventPublisher struct {
	published []shared.DomainEvent
}

func (p *RecordingEventPublisher) Publish(ctx context.Context, events []shared.DomainEvent) error {
	p.published = append(p.published, events...)
	return nil
}

// EventTypes returns the types of all captured events in publish order
func (p *RecordingEventPublisher) EventTypes() []string {
	types := make([]string, 0, len(p.published))
	for _, e := range p.published {
		types = append(types, e.EventType())
	}
	return types
}

// MockPartnerDirectory is a mock implementation of PartnerDirectory
type MockPartnerDirectory struct {
	mock.Mock
}

func (m *MockPartnerDirectory) PaymentTermFor(ctx context.Context, companyID, customerID uuid.UUID, thirdPartyID *uuid.UUID) (string, error) {
	args := m.Called(ctx, companyID, customerID, thirdPartyID)
	return args.String(0), args.Error(1)
}

func (m *MockPartnerDirectory) RestrictedPlan(ctx context.Context, companyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID)
	return args.Bool(0), args.Error(1)
}

// Compile-time interface checks
var _ finance.PayableRepository = (*MockPayableRepository)(nil)
var _ finance.InvoiceRepository = (*MockInvoiceRepository)(nil)
var _ finance.JobSheetRepository = (*MockJobSheetRepository)(nil)
var _ FileStorage = (*MockFileStorage)(nil)
var _ Notifier = (*MockNotifier)(nil)
var _ Mailer = (*MockMailer)(nil)
var _ EventPublisher = (*RecordingEventPublisher)(nil)
var _ PartnerDirectory = (*MockPartnerDirectory)(nil)
