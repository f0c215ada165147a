package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type payableServiceFixture struct {
	svc          *PayableService
	payableRepo  *MockPayableRepository
	invoiceRepo  *MockInvoiceRepository
	jobSheetRepo *MockJobSheetRepository
	storage      *MockFileStorage
	notifier     *MockNotifier
	mailer       *MockMailer
	events       *RecordingEventPublisher
	partners     *MockPartnerDirectory
}

func newPayableServiceFixture() *payableServiceFixture {
	f := &payableServiceFixture{
		payableRepo:  new(MockPayableRepository),
		invoiceRepo:  new(MockInvoiceRepository),
		jobSheetRepo: new(MockJobSheetRepository),
		storage:      new(MockFileStorage),
		notifier:     new(MockNotifier),
		mailer:       new(MockMailer),
		events:       new(RecordingEventPublisher),
		partners:     new(MockPartnerDirectory),
	}
	scope := NewNoOpTransactionScope(f.payableRepo, f.invoiceRepo, f.jobSheetRepo)
	f.svc = NewPayableService(scope, f.storage, f.notifier, f.mailer, f.events, f.partners, zap.NewNop())
	return f
}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

var (
	managerActor = Actor{ID: uuid.New(), Name: "Siti Manager", Email: "siti@forwarder.example.com", Role: RoleManager, CompanyID: uuid.New()}
	staffActor   = Actor{ID: uuid.New(), Name: "Andi Staff", Email: "andi@forwarder.example.com", Role: RoleStaff, CompanyID: managerActor.CompanyID}
)

func createRequest() CreatePayableRequest {
	return CreatePayableRequest{
		JobSheetNumber: "JS-2024-0001",
		CustomerID:     uuid.New(),
		InvoiceNumber:  "INV-V-001",
		VendorName:     "PT Pelayaran Nusantara",
		PayableDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		Prices: []PriceRequest{
			{Component: "Ocean Freight", UOM: "Container", Currency: "USD", UnitPrice: dec("100"), Quantity: dec("2"), TaxPercent: dec("10")},
			{Component: "Trucking", UOM: "Trip", Currency: "IDR", UnitPrice: dec("50000"), Quantity: dec("1")},
		},
		Files: []FileUpload{{FileName: "bill.pdf", ContentType: "application/pdf", Data: []byte("pdf")}},
	}
}

func approvedPayable(t *testing.T, companyID uuid.UUID) *finance.Payable {
	t.Helper()
	p, err := finance.NewPayable(
		companyID, "JS-2024-0001", "PT Pelayaran Nusantara", "INV-V-001",
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), "",
		[]finance.PriceInput{
			{Component: "Ocean Freight", Currency: valueobject.USD, UnitPrice: dec("100"), Quantity: dec("2"), TaxPercent: dec("10")},
			{Component: "Trucking", Currency: valueobject.IDR, UnitPrice: dec("50000"), Quantity: dec("1")},
		},
		[]finance.FileInput{{FileName: "bill.pdf", URL: "https://files.example.com/bill.pdf"}},
		finance.ActorRef{ID: managerActor.ID, Name: managerActor.Name},
	)
	require.NoError(t, err)
	require.NoError(t, p.Approve(finance.ActorRef{ID: managerActor.ID, Name: managerActor.Name}))
	return p
}

func testJobSheet(t *testing.T, companyID uuid.UUID) *finance.JobSheet {
	t.Helper()
	js, err := finance.NewJobSheet(companyID, "JS-2024-0001", finance.JobSheetItemTypeAP, uuid.New())
	require.NoError(t, err)
	return js
}

func TestPayableService_Create(t *testing.T) {
	t.Run("creates payable, job sheet and rollup in one pass", func(t *testing.T) {
		f := newPayableServiceFixture()
		ctx := context.Background()
		req := createRequest()

		f.storage.On("Upload", ctx, req.Files).
			Return([]StoredFile{{FileName: "bill.pdf", URL: "https://files.example.com/bill.pdf"}}, nil)
		f.partners.On("RestrictedPlan", ctx, staffActor.CompanyID).Return(false, nil)
		var saved *finance.Payable
		f.payableRepo.On("Save", ctx, mock.AnythingOfType("*finance.Payable")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*finance.Payable) }).
			Return(nil)
		f.jobSheetRepo.On("FindByNumber", ctx, staffActor.CompanyID, "JS-2024-0001").
			Return(nil, shared.ErrNotFound).Once()
		f.jobSheetRepo.On("Save", ctx, mock.AnythingOfType("*finance.JobSheet")).Return(nil)
		f.payableRepo.On("StatusesByJobSheet", ctx, staffActor.CompanyID, "JS-2024-0001").
			Return([]string{"WAITING_APPROVAL"}, nil)
		js := testJobSheet(t, staffActor.CompanyID)
		f.jobSheetRepo.On("FindByNumber", ctx, staffActor.CompanyID, "JS-2024-0001").
			Return(js, nil).Once()
		f.jobSheetRepo.On("SaveWithLock", ctx, js).Return(nil)
		f.notifier.On("NotifyInternalApproval", ctx, mock.AnythingOfType("InternalApprovalNote")).Return(nil)

		resp, err := f.svc.Create(ctx, staffActor, req)

		require.NoError(t, err)
		assert.Equal(t, "WAITING_APPROVAL", resp.Status)
		assert.True(t, resp.AmountDue["USD"].Equal(dec("220")))
		assert.True(t, resp.AmountDue["IDR"].Equal(dec("50000")))
		assert.Equal(t, finance.StatusCounts{"WAITING_APPROVAL": 1}, js.APStatus)
		assert.Equal(t, []string{finance.EventTypePayableCreated}, f.events.EventTypes())
		require.NotNil(t, saved)
		assert.Empty(t, saved.GetDomainEvents(), "events must be drained after publishing")
		f.payableRepo.AssertExpectations(t)
		f.jobSheetRepo.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("requires an attachment before uploading anything", func(t *testing.T) {
		f := newPayableServiceFixture()
		req := createRequest()
		req.Files = nil

		_, err := f.svc.Create(context.Background(), staffActor, req)

		require.Error(t, err)
		f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("upload failure aborts the mutation", func(t *testing.T) {
		f := newPayableServiceFixture()
		ctx := context.Background()
		req := createRequest()

		f.storage.On("Upload", ctx, req.Files).Return(nil, errors.New("bucket unavailable"))

		_, err := f.svc.Create(ctx, staffActor, req)

		require.Error(t, err)
		f.payableRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate invoice number under a restricted plan rolls back and removes uploads", func(t *testing.T) {
		f := newPayableServiceFixture()
		ctx := context.Background()
		req := createRequest()

		f.storage.On("Upload", ctx, req.Files).
			Return([]StoredFile{{FileName: "bill.pdf", URL: "https://files.example.com/bill.pdf"}}, nil)
		f.partners.On("RestrictedPlan", ctx, staffActor.CompanyID).Return(true, nil)
		f.payableRepo.On("ExistsByInvoiceNumber", ctx, staffActor.CompanyID, "INV-V-001", uuid.Nil).Return(true, nil)
		f.storage.On("Delete", ctx, []string{"bill.pdf"}).Return(nil)

		_, err := f.svc.Create(ctx, staffActor, req)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		f.payableRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.storage.AssertExpectations(t)
	})
}

func TestPayableService_Approval(t *testing.T) {
	t.Run("staff cannot approve", func(t *testing.T) {
		f := newPayableServiceFixture()

		_, err := f.svc.Approval(context.Background(), staffActor, uuid.New(), PayableApprovalRequest{Action: ApprovalActionApproved})

		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("manager approves and rollup reflects the new status", func(t *testing.T) {
		f := newPayableServiceFixture()
		ctx := context.Background()
		p, err := finance.NewPayable(
			managerActor.CompanyID, "JS-2024-0001", "PT Pelayaran Nusantara", "",
			time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), "",
			[]finance.PriceInput{{Component: "Ocean Freight", Currency: valueobject.USD, UnitPrice: dec("100"), Quantity: dec("2"), TaxPercent: dec("10")}},
			[]finance.FileInput{{FileName: "bill.pdf", URL: "u"}},
			finance.ActorRef{ID: managerActor.ID, Name: managerActor.Name},
		)
		require.NoError(t, err)
		js := testJobSheet(t, managerActor.CompanyID)

		f.payableRepo.On("FindByIDForCompany", ctx, managerActor.CompanyID, p.ID).Return(p, nil)
		f.payableRepo.On("SaveWithLock", ctx, p).Return(nil)
		f.payableRepo.On("StatusesByJobSheet", ctx, managerActor.CompanyID, "JS-2024-0001").
			Return([]string{"APPROVED"}, nil)
		f.jobSheetRepo.On("FindByNumber", ctx, managerActor.CompanyID, "JS-2024-0001").Return(js, nil)
		f.jobSheetRepo.On("SaveWithLock", ctx, js).Return(nil)
		f.notifier.On("NotifyInternalApproval", ctx, mock.AnythingOfType("InternalApprovalNote")).Return(nil)

		resp, err := f.svc.Approval(ctx, managerActor, p.ID, PayableApprovalRequest{Action: ApprovalActionApproved})

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, finance.StatusCounts{"APPROVED": 1}, js.APStatus)
	})

	t.Run("reject without reason fails and nothing is saved", func(t *testing.T) {
		f := newPayableServiceFixture()
		ctx := context.Background()
		p := approvedPayable(t, managerActor.CompanyID)

		f.payableRepo.On("FindByIDForCompany", ctx, managerActor.CompanyID, p.ID).Return(p, nil)

		_, err := f.svc.Approval(ctx, managerActor, p.ID, PayableApprovalRequest{Action: ApprovalActionRejected})

		require.Error(t, err)
		f.payableRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestPayableService_RecordPayment(t *testing.T) {
	t.Run("payment updates aggregates and parent histogram", func(t *testing.T) {
		f := newPayableServiceFixture()
		ctx := context.Background()
		p := approvedPayable(t, staffActor.CompanyID)
		js := testJobSheet(t, staffActor.CompanyID)

		f.payableRepo.On("FindByIDForCompany", ctx, staffActor.CompanyID, p.ID).Return(p, nil)
		f.payableRepo.On("SaveWithLock", ctx, p).Return(nil)
		f.payableRepo.On("StatusesByJobSheet", ctx, staffActor.CompanyID, "JS-2024-0001").
			Return([]string{"PARTIALLY_PAID"}, nil)
		f.jobSheetRepo.On("FindByNumber", ctx, staffActor.CompanyID, "JS-2024-0001").Return(js, nil)
		f.jobSheetRepo.On("SaveWithLock", ctx, js).Return(nil)
		f.notifier.On("NotifyInternalApproval", ctx, mock.AnythingOfType("InternalApprovalNote")).Return(nil)

		resp, err := f.svc.RecordPayment(ctx, staffActor, p.ID, PaymentRequest{
			Currency:    "USD",
			AmountPaid:  dec("220"),
			PaymentDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			BankRef:     "TRF-001",
		})

		require.NoError(t, err)
		assert.Equal(t, "PARTIALLY_PAID", resp.Status)
		assert.True(t, resp.AmountRemaining["USD"].IsZero())
		assert.Equal(t, finance.StatusCounts{"PARTIALLY_PAID": 1}, js.APStatus)
	})

	t.Run("notification failure does not fail the operation", func(t *testing.T) {
		f := newPayableServiceFixture()
		ctx := context.Background()
		p := approvedPayable(t, staffActor.CompanyID)
		js := testJobSheet(t, staffActor.CompanyID)

		f.payableRepo.On("FindByIDForCompany", ctx, staffActor.CompanyID, p.ID).Return(p, nil)
		f.payableRepo.On("SaveWithLock", ctx, p).Return(nil)
		f.payableRepo.On("StatusesByJobSheet", ctx, staffActor.CompanyID, "JS-2024-0001").
			Return([]string{"PARTIALLY_PAID"}, nil)
		f.jobSheetRepo.On("FindByNumber", ctx, staffActor.CompanyID, "JS-2024-0001").Return(js, nil)
		f.jobSheetRepo.On("SaveWithLock", ctx, js).Return(nil)
		f.notifier.On("NotifyInternalApproval", ctx, mock.AnythingOfType("InternalApprovalNote")).
			Return(errors.New("websocket down"))

		_, err := f.svc.RecordPayment(ctx, staffActor, p.ID, PaymentRequest{
			Currency:    "USD",
			AmountPaid:  dec("100"),
			PaymentDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			BankRef:     "TRF-001",
		})

		assert.NoError(t, err)
	})

	t.Run("payment in illegal state is rejected without save", func(t *testing.T) {
		f := newPayableServiceFixture()
		ctx := context.Background()

		waiting, err := finance.NewPayable(
			staffActor.CompanyID, "JS-2024-0001", "Vendor", "",
			time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), "",
			[]finance.PriceInput{{Component: "Freight", Currency: valueobject.USD, UnitPrice: dec("100"), Quantity: dec("1")}},
			[]finance.FileInput{{FileName: "bill.pdf", URL: "u"}},
			finance.ActorRef{ID: staffActor.ID, Name: staffActor.Name},
		)
		require.NoError(t, err)
		f.payableRepo.On("FindByIDForCompany", ctx, staffActor.CompanyID, waiting.ID).Return(waiting, nil)

		_, err = f.svc.RecordPayment(ctx, staffActor, waiting.ID, PaymentRequest{
			Currency:    "USD",
			AmountPaid:  dec("100"),
			PaymentDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			BankRef:     "TRF-001",
		})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		f.payableRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestPayableService_SendRemittance(t *testing.T) {
	f := newPayableServiceFixture()
	ctx := context.Background()
	p := approvedPayable(t, staffActor.CompanyID)
	payment, err := p.RecordPayment(valueobject.USD, dec("220"), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "TRF-001", "",
		finance.ActorRef{ID: staffActor.ID, Name: staffActor.Name})
	require.NoError(t, err)

	f.payableRepo.On("FindByIDForCompany", ctx, staffActor.CompanyID, p.ID).Return(p, nil)
	f.payableRepo.On("SaveWithLock", ctx, p).Return(nil)
	f.mailer.On("SendRemittance", ctx, mock.AnythingOfType("RemittanceMail")).Return(nil).Times(2)

	_, err = f.svc.SendRemittance(ctx, staffActor, p.ID, RemittanceRequest{
		PaymentIDs: []uuid.UUID{payment.ID},
		Message:    "Payment sent, see attached references",
		Recipients: []string{"vendor@pelayaran.example.com", "billing@pelayaran.example.com"},
	})

	require.NoError(t, err)
	f.mailer.AssertExpectations(t)
}

func TestPayableService_DeletePayment(t *testing.T) {
	f := newPayableServiceFixture()
	ctx := context.Background()
	p := approvedPayable(t, staffActor.CompanyID)
	payment, err := p.RecordPayment(valueobject.USD, dec("220"), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "TRF-001", "",
		finance.ActorRef{ID: staffActor.ID, Name: staffActor.Name})
	require.NoError(t, err)
	js := testJobSheet(t, staffActor.CompanyID)

	f.payableRepo.On("FindByIDForCompany", ctx, staffActor.CompanyID, p.ID).Return(p, nil)
	f.payableRepo.On("SaveWithLock", ctx, p).Return(nil)
	f.payableRepo.On("StatusesByJobSheet", ctx, staffActor.CompanyID, "JS-2024-0001").
		Return([]string{"APPROVED"}, nil)
	f.jobSheetRepo.On("FindByNumber", ctx, staffActor.CompanyID, "JS-2024-0001").Return(js, nil)
	f.jobSheetRepo.On("SaveWithLock", ctx, js).Return(nil)
	f.notifier.On("NotifyInternalApproval", ctx, mock.AnythingOfType("InternalApprovalNote")).Return(nil)

	resp, err := f.svc.DeletePayment(ctx, staffActor, p.ID, payment.ID)

	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	assert.True(t, resp.AmountRemaining["USD"].Equal(dec("220")))
}
