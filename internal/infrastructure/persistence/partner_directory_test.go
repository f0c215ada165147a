package persistence

import (
	"context"
	"testing"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPartnerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PartnerModel{}, &models.CompanyPlanModel{}))
	return db
}

func seedPartner(t *testing.T, db *gorm.DB, companyID uuid.UUID, kind, name, term string) uuid.UUID {
	t.Helper()
	model := models.PartnerModel{
		CompanyID:   companyID,
		Kind:        kind,
		Name:        name,
		PaymentTerm: term,
	}
	model.ID = uuid.New()
	require.NoError(t, db.Create(&model).Error)
	return model.ID
}

func TestGormPartnerDirectory_PaymentTermFor(t *testing.T) {
	db := setupPartnerTestDB(t)
	directory := NewGormPartnerDirectory(db)
	ctx := context.Background()
	companyID := uuid.New()

	customerID := seedPartner(t, db, companyID, models.PartnerKindCustomer, "PT Kargo Utama", "30 Days")
	thirdPartyID := seedPartner(t, db, companyID, models.PartnerKindThirdParty, "PT Agensi Laut", "14 Days")
	blankTermID := seedPartner(t, db, companyID, models.PartnerKindThirdParty, "PT Tanpa Term", "")

	t.Run("CustomerTerm", func(t *testing.T) {
		term, err := directory.PaymentTermFor(ctx, companyID, customerID, nil)
		require.NoError(t, err)
		assert.Equal(t, "30 Days", term)
	})

	t.Run("ThirdPartyTermWins", func(t *testing.T) {
		term, err := directory.PaymentTermFor(ctx, companyID, customerID, &thirdPartyID)
		require.NoError(t, err)
		assert.Equal(t, "14 Days", term)
	})

	t.Run("BlankThirdPartyTermFallsBackToCustomer", func(t *testing.T) {
		term, err := directory.PaymentTermFor(ctx, companyID, customerID, &blankTermID)
		require.NoError(t, err)
		assert.Equal(t, "30 Days", term)
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		_, err := directory.PaymentTermFor(ctx, companyID, uuid.New(), nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("OtherCompanyCustomerInvisible", func(t *testing.T) {
		_, err := directory.PaymentTermFor(ctx, uuid.New(), customerID, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPartnerDirectory_RestrictedPlan(t *testing.T) {
	db := setupPartnerTestDB(t)
	directory := NewGormPartnerDirectory(db)
	ctx := context.Background()

	restricted := uuid.New()
	open := uuid.New()
	require.NoError(t, db.Create(&models.CompanyPlanModel{CompanyID: restricted, PlanCode: "FREE", Restricted: true}).Error)
	require.NoError(t, db.Create(&models.CompanyPlanModel{CompanyID: open, PlanCode: "ENTERPRISE", Restricted: false}).Error)

	got, err := directory.RestrictedPlan(ctx, restricted)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = directory.RestrictedPlan(ctx, open)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = directory.RestrictedPlan(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, got)
}
