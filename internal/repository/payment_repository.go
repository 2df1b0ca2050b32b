package repository

import (
	"context"
	"time"

	"github.com/rvaldez/rentora-api/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByUnit(ctx context.Context, unitID uint) ([]models.Payment, error)
	FindByTenant(ctx context.Context, tenantID uint) ([]models.Payment, error)
	FindOverdue(ctx context.Context) ([]models.Payment, error)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error)
	HasSucceededForUnit(ctx context.Context, unitID uint) (bool, error)
	Create(ctx context.Context, payment *models.Payment) error
	CreateBatch(ctx context.Context, payments []models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	DeletePendingByUnit(ctx context.Context, unitID uint) (int64, error)
	List(ctx context.Context, query *PaymentQuery) ([]models.Payment, int64, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) PaymentRepository
}

// PaymentQuery extends ListQuery with payment-specific filters
type PaymentQuery struct {
	*ListQuery
	TenantID   uint
	UnitID     uint
	PropertyID uint
	IsAdmin    bool
	Status     string
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return &paymentRepository{db: tx}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Joins("Tenant").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByUnit(ctx context.Context, unitID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("due_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindByTenant(ctx context.Context, tenantID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("due_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindOverdue(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < CURRENT_DATE", models.PaymentStatusPending).
		Joins("Tenant").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date >= ? AND due_date < ?",
			models.PaymentStatusPending, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Joins("Tenant").
		Find(&payments).Error
	return payments, err
}

// HasSucceededForUnit reports whether any payment for the unit has already
// succeeded. The lease edit guard hangs off this.
func (r *paymentRepository) HasSucceededForUnit(ctx context.Context, unitID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("unit_id = ? AND status = ?", unitID, models.PaymentStatusSucceeded).
		Count(&count).Error
	return count > 0, err
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// CreateBatch inserts a payment schedule in one statement
func (r *paymentRepository) CreateBatch(ctx context.Context, payments []models.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(payments, 100).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// DeletePendingByUnit removes pending payments for a unit. Succeeded and
// failed records are never deleted.
func (r *paymentRepository) DeletePendingByUnit(ctx context.Context, unitID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("unit_id = ? AND status = ?", unitID, models.PaymentStatusPending).
		Delete(&models.Payment{})
	return result.RowsAffected, result.Error
}

func (r *paymentRepository) List(ctx context.Context, query *PaymentQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	// Tenants see only their own payments
	if !query.IsAdmin && query.TenantID > 0 {
		db = db.Where("tenant_id = ?", query.TenantID)
	}

	if query.UnitID > 0 {
		db = db.Where("unit_id = ?", query.UnitID)
	}
	if query.PropertyID > 0 {
		db = db.Where("property_id = ?", query.PropertyID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Filters["month"] != "" {
		db = db.Where("month_label = ?", query.Filters["month"])
	}

	db.Count(&total)

	err := paginate(db, query.ListQuery).
		Joins("Tenant").
		Find(&payments).Error
	return payments, total, err
}
