package repository

import (
	"context"

	"github.com/rvaldez/rentora-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	CreateBatchIgnoreDuplicates(ctx context.Context, invoices []models.Invoice) (int64, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	MarkOverdue(ctx context.Context) (int64, error)
	List(ctx context.Context, query *InvoiceQuery) ([]models.Invoice, int64, error)
}

// InvoiceQuery extends ListQuery with invoice-specific filters
type InvoiceQuery struct {
	*ListQuery
	TenantID   uint
	PropertyID uint
	IsAdmin    bool
	Period     string
	Status     string
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Joins("Property").
		Joins("Tenant").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateBatchIgnoreDuplicates bulk-inserts invoices, silently skipping rows
// that collide with the (period, unit_id, tenant_id) unique index. Returns
// the number actually inserted, which makes repeated or concurrent
// generation runs idempotent without trusting a prior existence check.
func (r *invoiceRepository) CreateBatchIgnoreDuplicates(ctx context.Context, invoices []models.Invoice) (int64, error) {
	if len(invoices) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "period"}, {Name: "unit_id"}, {Name: "tenant_id"}},
			DoNothing: true,
		}).
		CreateInBatches(invoices, 100)
	return result.RowsAffected, result.Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// MarkOverdue flips pending invoices past their due date to overdue
func (r *invoiceRepository) MarkOverdue(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("status = ? AND due_date < CURRENT_DATE", models.InvoiceStatusPending).
		Update("status", models.InvoiceStatusOverdue)
	return result.RowsAffected, result.Error
}

func (r *invoiceRepository) List(ctx context.Context, query *InvoiceQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{})

	if !query.IsAdmin && query.TenantID > 0 {
		db = db.Where("tenant_id = ?", query.TenantID)
	}
	if query.PropertyID > 0 {
		db = db.Where("property_id = ?", query.PropertyID)
	}
	if query.Period != "" {
		db = db.Where("period = ?", query.Period)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	db.Count(&total)

	err := paginate(db, query.ListQuery).
		Joins("Property").
		Joins("Tenant").
		Find(&invoices).Error
	return invoices, total, err
}
