package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPayableRepository implements PayableRepository using GORM
type GormPayableRepository struct {
	db *gorm.DB
}

// NewGormPayableRepository creates a new GormPayableRepository
func NewGormPayableRepository(db *gorm.DB) *GormPayableRepository {
	return &GormPayableRepository{db: db}
}

func (r *GormPayableRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Prices").
		Preload("Payments").
		Preload("Histories").
		Preload("Files")
}

// FindByID finds a payable by its ID
func (r *GormPayableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payable, error) {
	var model models.PayableModel
	if err := r.withChildren(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCompany finds a payable by ID scoped to a company
func (r *GormPayableRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Payable, error) {
	var model models.PayableModel
	if err := r.withChildren(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByJobSheet finds all payables owned by a job sheet
func (r *GormPayableRepository) FindByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]finance.Payable, error) {
	var payableModels []models.PayableModel
	if err := r.withChildren(ctx).
		Where("company_id = ? AND job_sheet_number = ?", companyID, jobSheetNumber).
		Order("created_at ASC").
		Find(&payableModels).Error; err != nil {
		return nil, err
	}
	payables := make([]finance.Payable, len(payableModels))
	for i, model := range payableModels {
		payables[i] = *model.ToDomain()
	}
	return payables, nil
}

// FindAllForCompany finds payables for a company with filtering
func (r *GormPayableRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter finance.PayableFilter) (shared.Paginated[finance.Payable], error) {
	var empty shared.Paginated[finance.Payable]

	countQuery := r.db.WithContext(ctx).Model(&models.PayableModel{}).
		Where("company_id = ?", companyID)
	countQuery = applyPayableFilter(countQuery, filter)
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return empty, err
	}

	query := r.withChildren(ctx).Model(&models.PayableModel{}).
		Where("company_id = ?", companyID)
	query = applyPayableFilter(query, filter)
	query = applyPagination(query, filter.Filter)

	var payableModels []models.PayableModel
	if err := query.Find(&payableModels).Error; err != nil {
		return empty, err
	}
	payables := make([]finance.Payable, len(payableModels))
	for i, model := range payableModels {
		payables[i] = *model.ToDomain()
	}
	return shared.NewPaginated(payables, total, filter.Page, filter.PageSize), nil
}

// StatusesByJobSheet returns the status of every payable owned by a job sheet
func (r *GormPayableRepository) StatusesByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]string, error) {
	var statuses []string
	if err := r.db.WithContext(ctx).
		Model(&models.PayableModel{}).
		Where("company_id = ? AND job_sheet_number = ?", companyID, jobSheetNumber).
		Pluck("status", &statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// ExistsByInvoiceNumber checks whether a vendor invoice number is taken within
// the company, excluding the given payable ID
func (r *GormPayableRepository) ExistsByInvoiceNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.PayableModel{}).
		Where("company_id = ? AND invoice_number = ?", companyID, invoiceNumber)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a payable with its child records
func (r *GormPayableRepository) Save(ctx context.Context, payable *finance.Payable) error {
	model := models.PayableModelFromDomain(payable)
	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error; err != nil {
		return err
	}
	payable.MarkVersionPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking. The lock matches the version
// the row held when the aggregate was loaded, not the in-memory version.
func (r *GormPayableRepository) SaveWithLock(ctx context.Context, payable *finance.Payable) error {
	model := models.PayableModelFromDomain(payable)
	result := r.db.WithContext(ctx).
		Model(&models.PayableModel{}).
		Where("id = ? AND version = ?", payable.ID, payable.PersistedVersion()).
		Select("*").Omit(clause.Associations).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	payable.MarkVersionPersisted()
	return r.savePayableChildren(ctx, model)
}

func (r *GormPayableRepository) savePayableChildren(ctx context.Context, model *models.PayableModel) error {
	tx := r.db.WithContext(ctx)
	if len(model.Prices) > 0 {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Prices).Error; err != nil {
			return err
		}
	}
	if len(model.Payments) > 0 {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Payments).Error; err != nil {
			return err
		}
	}
	if len(model.Histories) > 0 {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Histories).Error; err != nil {
			return err
		}
	}
	if len(model.Files) > 0 {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Files).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyPayableFilter applies filter options to the query, without pagination
func applyPayableFilter(query *gorm.DB, filter finance.PayableFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("job_sheet_number ILIKE ? OR vendor_name ILIKE ? OR invoice_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.JobSheetNumber != nil {
		query = query.Where("job_sheet_number = ?", *filter.JobSheetNumber)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.VendorName != nil {
		query = query.Where("vendor_name = ?", *filter.VendorName)
	}
	if filter.FromDate != nil {
		query = query.Where("payable_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("payable_date <= ?", *filter.ToDate)
	}
	return query
}

// applyPagination applies page, page size and ordering to the query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}
	return query
}

// Ensure GormPayableRepository implements PayableRepository
var _ finance.PayableRepository = (*GormPayableRepository)(nil)
