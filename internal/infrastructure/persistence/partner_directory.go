package persistence

import (
	"context"
	"errors"

	appfinance "github.com/kincat201/syncargo-be-sub000/internal/application/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ensure GormPartnerDirectory implements PartnerDirectory
var _ appfinance.PartnerDirectory = (*GormPartnerDirectory)(nil)

// GormPartnerDirectory resolves partner master data from the local read
// tables replicated from the partner service.
type GormPartnerDirectory struct {
	db *gorm.DB
}

// NewGormPartnerDirectory creates a new GormPartnerDirectory
func NewGormPartnerDirectory(db *gorm.DB) *GormPartnerDirectory {
	return &GormPartnerDirectory{db: db}
}

// PaymentTermFor returns the payment-term label for the third party when one
// is linked and carries a term, otherwise the customer's term.
func (d *GormPartnerDirectory) PaymentTermFor(ctx context.Context, companyID, customerID uuid.UUID, thirdPartyID *uuid.UUID) (string, error) {
	if thirdPartyID != nil {
		term, err := d.lookupTerm(ctx, companyID, *thirdPartyID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return "", err
		}
		if term != "" {
			return term, nil
		}
	}

	term, err := d.lookupTerm(ctx, companyID, customerID)
	if err != nil {
		return "", err
	}
	return term, nil
}

func (d *GormPartnerDirectory) lookupTerm(ctx context.Context, companyID, partnerID uuid.UUID) (string, error) {
	var model models.PartnerModel
	err := d.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, partnerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return model.PaymentTerm, nil
}

// RestrictedPlan reports whether the company's pricing plan enforces vendor
// invoice-number uniqueness on payables. Companies without a plan row are
// unrestricted.
func (d *GormPartnerDirectory) RestrictedPlan(ctx context.Context, companyID uuid.UUID) (bool, error) {
	var plan models.CompanyPlanModel
	err := d.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return plan.Restricted, nil
}
