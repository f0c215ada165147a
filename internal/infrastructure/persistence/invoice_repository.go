package persistence

import (
	"context"
	"errors"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Prices").
		Preload("Payments").
		Preload("Histories").
		Preload("Revision")
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.withChildren(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCompany finds an invoice by ID scoped to a company
func (r *GormInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
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

// FindByJobSheet finds all invoices owned by a job sheet
func (r *GormInvoiceRepository) FindByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.withChildren(ctx).
		Where("company_id = ? AND job_sheet_number = ?", companyID, jobSheetNumber).
		Order("created_at ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]finance.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// FindAllForCompany finds invoices for a company with filtering
func (r *GormInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter finance.InvoiceFilter) (shared.Paginated[finance.Invoice], error) {
	var empty shared.Paginated[finance.Invoice]

	countQuery := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("company_id = ?", companyID)
	countQuery = applyInvoiceFilter(countQuery, filter)
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return empty, err
	}

	query := r.withChildren(ctx).Model(&models.InvoiceModel{}).
		Where("company_id = ?", companyID)
	query = applyInvoiceFilter(query, filter)
	query = applyPagination(query, filter.Filter)

	var invoiceModels []models.InvoiceModel
	if err := query.Find(&invoiceModels).Error; err != nil {
		return empty, err
	}
	invoices := make([]finance.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return shared.NewPaginated(invoices, total, filter.Page, filter.PageSize), nil
}

// ARStatusesByJobSheet returns the arStatus of every invoice owned by a job sheet
func (r *GormInvoiceRepository) ARStatusesByJobSheet(ctx context.Context, companyID uuid.UUID, jobSheetNumber string) ([]string, error) {
	var statuses []string
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("company_id = ? AND job_sheet_number = ?", companyID, jobSheetNumber).
		Pluck("ar_status", &statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// ExistsByInvoiceNumber checks whether an invoice number is taken across all
// invoices, excluding the given invoice ID
func (r *GormInvoiceRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("invoice_number = ?", invoiceNumber)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an invoice with its child records
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error; err != nil {
		return err
	}
	invoice.MarkVersionPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking. The lock matches the version
// the row held when the aggregate was loaded, not the in-memory version.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.PersistedVersion()).
		Select("*").Omit(clause.Associations).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	invoice.MarkVersionPersisted()
	return r.saveInvoiceChildren(ctx, model)
}

func (r *GormInvoiceRepository) saveInvoiceChildren(ctx context.Context, model *models.InvoiceModel) error {
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
	if model.Revision != nil {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(model.Revision).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyInvoiceFilter applies filter options to the query, without pagination
func applyInvoiceFilter(query *gorm.DB, filter finance.InvoiceFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR job_sheet_number ILIKE ?",
			searchPattern, searchPattern)
	}
	if filter.JobSheetNumber != nil {
		query = query.Where("job_sheet_number = ?", *filter.JobSheetNumber)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ARStatus != nil {
		query = query.Where("ar_status = ?", *filter.ARStatus)
	}
	if filter.FromDate != nil {
		query = query.Where("invoice_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("invoice_date <= ?", *filter.ToDate)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
