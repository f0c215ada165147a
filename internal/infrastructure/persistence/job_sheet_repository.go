package persistence

import (
	"context"
	"errors"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJobSheetRepository implements JobSheetRepository using GORM
type GormJobSheetRepository struct {
	db *gorm.DB
}

// NewGormJobSheetRepository creates a new GormJobSheetRepository
func NewGormJobSheetRepository(db *gorm.DB) *GormJobSheetRepository {
	return &GormJobSheetRepository{db: db}
}

// FindByID finds a job sheet by its ID
func (r *GormJobSheetRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.JobSheet, error) {
	var model models.JobSheetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a job sheet by its number scoped to a company
func (r *GormJobSheetRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) (*finance.JobSheet, error) {
	var model models.JobSheetModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND job_sheet_number = ?", companyID, jobSheetNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCompany finds job sheets for a company with filtering
func (r *GormJobSheetRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[finance.JobSheet], error) {
	var empty shared.Paginated[finance.JobSheet]

	countQuery := r.db.WithContext(ctx).Model(&models.JobSheetModel{}).
		Where("company_id = ?", companyID)
	if filter.Search != "" {
		countQuery = countQuery.Where("job_sheet_number ILIKE ?", "%"+filter.Search+"%")
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return empty, err
	}

	query := r.db.WithContext(ctx).Model(&models.JobSheetModel{}).
		Where("company_id = ?", companyID)
	if filter.Search != "" {
		query = query.Where("job_sheet_number ILIKE ?", "%"+filter.Search+"%")
	}
	query = applyPagination(query, filter)

	var jobSheetModels []models.JobSheetModel
	if err := query.Find(&jobSheetModels).Error; err != nil {
		return empty, err
	}
	jobSheets := make([]finance.JobSheet, len(jobSheetModels))
	for i, model := range jobSheetModels {
		jobSheets[i] = *model.ToDomain()
	}
	return shared.NewPaginated(jobSheets, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a job sheet
func (r *GormJobSheetRepository) Save(ctx context.Context, jobSheet *finance.JobSheet) error {
	model := models.JobSheetModelFromDomain(jobSheet)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	jobSheet.MarkVersionPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking. The lock matches the version
// the row held when the aggregate was loaded, not the in-memory version.
func (r *GormJobSheetRepository) SaveWithLock(ctx context.Context, jobSheet *finance.JobSheet) error {
	model := models.JobSheetModelFromDomain(jobSheet)
	result := r.db.WithContext(ctx).
		Model(&models.JobSheetModel{}).
		Where("id = ? AND version = ?", jobSheet.ID, jobSheet.PersistedVersion()).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	jobSheet.MarkVersionPersisted()
	return nil
}

// Ensure GormJobSheetRepository implements JobSheetRepository
var _ finance.JobSheetRepository = (*GormJobSheetRepository)(nil)
