package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupFinanceTestDB creates an in-memory SQLite database with the finance schema
func setupFinanceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.PayableModel{},
		&models.PayablePriceModel{},
		&models.PayablePaymentModel{},
		&models.PayableHistoryModel{},
		&models.PayableFileModel{},
		&models.InvoiceModel{},
		&models.InvoicePriceModel{},
		&models.InvoicePaymentModel{},
		&models.InvoiceHistoryModel{},
		&models.InvoiceRevisionModel{},
		&models.JobSheetModel{},
	)
	require.NoError(t, err)

	return db
}

func testPayable(t *testing.T, companyID uuid.UUID) *finance.Payable {
	t.Helper()
	actor := finance.ActorRef{ID: uuid.New(), Name: "Budi Santoso"}
	p, err := finance.NewPayable(
		companyID, "JS-2024-0001", "PT Pelayaran Nusantara", "VIN-778",
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		"ocean freight leg",
		[]finance.PriceInput{
			{Component: "Ocean Freight", UOM: "Container", Currency: valueobject.USD, UnitPrice: decimal.RequireFromString("100"), Quantity: decimal.RequireFromString("2")},
			{Component: "Trucking", UOM: "Trip", Currency: valueobject.IDR, UnitPrice: decimal.RequireFromString("50000"), Quantity: decimal.RequireFromString("1")},
		},
		[]finance.FileInput{{FileName: "bill.pdf", URL: "https://files.example.com/bill.pdf"}},
		actor,
	)
	require.NoError(t, err)
	return p
}

func TestGormPayableRepository_SaveAndFind(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormPayableRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	p := testPayable(t, companyID)
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByIDForCompany(ctx, companyID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, "JS-2024-0001", found.JobSheetNumber)
	assert.Equal(t, finance.PayableStatusWaitingApproval, found.Status)
	assert.Len(t, found.Prices, 2)
	assert.Len(t, found.Files, 1)
	assert.Len(t, found.Histories, 1)

	due, ok := found.AmountDue.Get(valueobject.USD)
	require.True(t, ok)
	assert.True(t, due.Equal(decimal.RequireFromString("200")))
	due, ok = found.AmountDue.Get(valueobject.IDR)
	require.True(t, ok)
	assert.True(t, due.Equal(decimal.RequireFromString("50000")))
}

func TestGormPayableRepository_FindScopedToCompany(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormPayableRepository(db)
	ctx := context.Background()

	p := testPayable(t, uuid.New())
	require.NoError(t, repo.Save(ctx, p))

	_, err := repo.FindByIDForCompany(ctx, uuid.New(), p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPayableRepository_SaveWithLock(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormPayableRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	actor := finance.ActorRef{ID: uuid.New(), Name: "Siti Manager"}

	p := testPayable(t, companyID)
	require.NoError(t, repo.Save(ctx, p))

	t.Run("persists mutation and child records", func(t *testing.T) {
		require.NoError(t, p.Approve(actor))
		require.NoError(t, repo.SaveWithLock(ctx, p))

		_, err := p.RecordPayment(valueobject.USD, decimal.RequireFromString("120"),
			time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "TRF-889", "", actor)
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, p))

		found, err := repo.FindByIDForCompany(ctx, companyID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.PayableStatusPartiallyPaid, found.Status)
		assert.Len(t, found.Payments, 1)
		remaining, ok := found.AmountRemaining.Get(valueobject.USD)
		require.True(t, ok)
		assert.True(t, remaining.Equal(decimal.RequireFromString("80")))
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		stale := testPayable(t, companyID)
		require.NoError(t, repo.Save(ctx, stale))
		stale.Version = 5

		err := repo.SaveWithLock(ctx, stale)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}

func TestGormPayableRepository_StatusesByJobSheet(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormPayableRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	actor := finance.ActorRef{ID: uuid.New(), Name: "Siti Manager"}

	first := testPayable(t, companyID)
	require.NoError(t, first.Approve(actor))
	require.NoError(t, repo.Save(ctx, first))
	second := testPayable(t, companyID)
	require.NoError(t, repo.Save(ctx, second))

	statuses, err := repo.StatusesByJobSheet(ctx, companyID, "JS-2024-0001")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"APPROVED", "WAITING_APPROVAL"}, statuses)
}

func TestGormPayableRepository_ExistsByInvoiceNumber(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormPayableRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	p := testPayable(t, companyID)
	require.NoError(t, repo.Save(ctx, p))

	taken, err := repo.ExistsByInvoiceNumber(ctx, companyID, "VIN-778", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	// excluding the record itself
	taken, err = repo.ExistsByInvoiceNumber(ctx, companyID, "VIN-778", p.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	// other companies do not collide
	taken, err = repo.ExistsByInvoiceNumber(ctx, uuid.New(), "VIN-778", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken)
}

func testInvoice(t *testing.T, companyID uuid.UUID, invoiceNumber string) *finance.Invoice {
	t.Helper()
	actor := finance.ActorRef{ID: uuid.New(), Name: "Budi Santoso"}
	inv, err := finance.NewInvoice(
		companyID, invoiceNumber, "JS-2024-0001", uuid.New(), nil,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "30 Days",
		valueobject.USD, decimal.RequireFromString("15000"), decimal.Zero,
		[]finance.PriceInput{
			{Component: "Ocean Freight", Currency: valueobject.USD, UnitPrice: decimal.RequireFromString("100"), Quantity: decimal.RequireFromString("2")},
		},
		actor,
	)
	require.NoError(t, err)
	return inv
}

func TestGormInvoiceRepository_SaveAndFind(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	inv := testInvoice(t, companyID, "INV-2024-0001")
	require.NoError(t, repo.Save(ctx, inv))

	found, err := repo.FindByIDForCompany(ctx, companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0001", found.InvoiceNumber)
	assert.Equal(t, "2024-01-31", found.DueDate.Format("2006-01-02"))
	assert.True(t, found.Total.Equal(decimal.RequireFromString("3000000")))
	assert.True(t, found.TotalCurrency.Equal(decimal.RequireFromString("200")))
	assert.Len(t, found.Prices, 1)
	assert.Nil(t, found.Revision)
}

func TestGormInvoiceRepository_RevisionRoundTrip(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	actor := finance.ActorRef{ID: uuid.New(), Name: "Siti Manager"}

	inv := testInvoice(t, companyID, "INV-2024-0001")
	require.NoError(t, inv.Approve(actor))
	require.NoError(t, inv.Issue("finance@customer.example.com", actor))
	require.NoError(t, repo.Save(ctx, inv))

	require.NoError(t, inv.RequestRevision(finance.RevisionInput{
		InvoiceNumber: "INV-2024-0001",
		InvoiceDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PaymentTerm:   "14 Days",
		Currency:      valueobject.USD,
		ExchangeRate:  decimal.RequireFromString("15500"),
		Prices: []finance.PriceInput{
			{Component: "Ocean Freight", Currency: valueobject.USD, UnitPrice: decimal.RequireFromString("95"), Quantity: decimal.RequireFromString("2")},
		},
	}, "Rate correction", actor))
	require.NoError(t, repo.SaveWithLock(ctx, inv))

	found, err := repo.FindByIDForCompany(ctx, companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.InvoiceStatusNeedApproval, found.Status)
	require.NotNil(t, found.Revision)
	assert.Equal(t, finance.RevisionStatusNeedApproval, found.Revision.Status)
	assert.Equal(t, "14 Days", found.Revision.PaymentTerm)
	require.Len(t, found.Revision.Prices, 1)
	assert.True(t, found.Revision.Prices[0].UnitPrice.Equal(decimal.RequireFromString("95")))
}

func TestGormInvoiceRepository_SaveWithLockMultiStepMutation(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	actor := finance.ActorRef{ID: uuid.New(), Name: "Siti Manager"}

	inv := testInvoice(t, companyID, "INV-2024-0001")
	require.NoError(t, inv.Approve(actor))
	require.NoError(t, inv.Issue("finance@customer.example.com", actor))
	require.NoError(t, repo.Save(ctx, inv))

	revision := finance.RevisionInput{
		InvoiceNumber: "INV-2024-0001",
		InvoiceDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PaymentTerm:   "14 Days",
		Currency:      valueobject.USD,
		ExchangeRate:  decimal.RequireFromString("15500"),
		Prices: []finance.PriceInput{
			{Component: "Ocean Freight", Currency: valueobject.USD, UnitPrice: decimal.RequireFromString("95"), Quantity: decimal.RequireFromString("2")},
		},
	}

	t.Run("edit applied in one call commits", func(t *testing.T) {
		// a manager's edit requests and applies the revision in the same
		// operation, bumping the version twice before the save
		loaded, err := repo.FindByIDForCompany(ctx, companyID, inv.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.RequestRevision(revision, "Rate correction", actor))
		require.NoError(t, loaded.ApplyRevision(actor))
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		found, err := repo.FindByIDForCompany(ctx, companyID, loaded.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.InvoiceStatusApproved, found.Status)
		assert.Equal(t, "14 Days", found.PaymentTerm)
		assert.Equal(t, loaded.Version, found.Version)
	})

	t.Run("stale copy is still rejected", func(t *testing.T) {
		stale, err := repo.FindByIDForCompany(ctx, companyID, inv.ID)
		require.NoError(t, err)

		fresh, err := repo.FindByIDForCompany(ctx, companyID, inv.ID)
		require.NoError(t, err)
		require.NoError(t, fresh.Issue("finance@customer.example.com", actor))
		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		require.NoError(t, stale.Issue("finance@customer.example.com", actor))
		err = repo.SaveWithLock(ctx, stale)
		require.Error(t, err)
		assert.ErrorContains(t, err, "modified by another transaction")
	})
}

func TestGormInvoiceRepository_ExistsByInvoiceNumberIsGlobal(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := testInvoice(t, uuid.New(), "INV-2024-0001")
	require.NoError(t, repo.Save(ctx, inv))

	// another company still sees the number as taken
	taken, err := repo.ExistsByInvoiceNumber(ctx, "INV-2024-0001", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByInvoiceNumber(ctx, "INV-2024-0002", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestGormJobSheetRepository(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormJobSheetRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	js, err := finance.NewJobSheet(companyID, "JS-2024-0001", finance.JobSheetItemTypeAP, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, js))

	t.Run("round trips the status histograms", func(t *testing.T) {
		js.ApplyAPRollup(finance.StatusCounts{"APPROVED": 2, "PAID": 1})
		require.NoError(t, repo.SaveWithLock(ctx, js))

		found, err := repo.FindByNumber(ctx, companyID, "JS-2024-0001")
		require.NoError(t, err)
		assert.Equal(t, finance.StatusCounts{"APPROVED": 2, "PAID": 1}, found.APStatus)
		assert.Equal(t, finance.StatusCounts{}, found.ARStatus)
	})

	t.Run("not found for unknown number", func(t *testing.T) {
		_, err := repo.FindByNumber(ctx, companyID, "JS-9999-0000")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		stale, err := repo.FindByNumber(ctx, companyID, "JS-2024-0001")
		require.NoError(t, err)
		stale.Version = 99

		err = repo.SaveWithLock(ctx, stale)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}
