package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rvaldez/rentora-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeaseRepository defines the interface for lease data access
type LeaseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Lease, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Lease, error)
	FindByUnit(ctx context.Context, unitID uint) ([]models.Lease, error)
	FindActiveEndedBefore(ctx context.Context, cutoff string) ([]models.Lease, error)
	Create(ctx context.Context, lease *models.Lease) error
	Update(ctx context.Context, lease *models.Lease) error
	List(ctx context.Context, query *LeaseQuery) ([]models.Lease, int64, error)
	NextAgreementNumber(ctx context.Context) (string, error)
	UpsertDocument(ctx context.Context, doc *models.LeaseDocument) error

	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) LeaseRepository
}

// LeaseQuery extends ListQuery with lease-specific filters
type LeaseQuery struct {
	*ListQuery
	UnitID     uint
	PropertyID uint
	TenantID   uint
	OwnerID    uint
	IsAdmin    bool
	Status     string
}

type leaseRepository struct {
	db *gorm.DB
}

// NewLeaseRepository creates a new lease repository
func NewLeaseRepository(db *gorm.DB) LeaseRepository {
	return &leaseRepository{db: db}
}

func (r *leaseRepository) WithTx(tx *gorm.DB) LeaseRepository {
	return &leaseRepository{db: tx}
}

func (r *leaseRepository) FindByID(ctx context.Context, id uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Lease, error) {
	var lease models.Lease
	// Property, Unit, Tenant and Owner load via Joins in one query;
	// Documents are one-to-many so they stay a Preload.
	err := r.db.WithContext(ctx).
		Joins("Property").
		Joins("Unit").
		Joins("Tenant").
		Joins("Owner").
		Preload("Documents").
		First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindByUnit(ctx context.Context, unitID uint) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Joins("Tenant").
		Order("lease_start_date DESC").
		Find(&leases).Error
	return leases, err
}

// FindActiveEndedBefore returns active leases whose end date is before the
// given cutoff date (YYYY-MM-DD). Used by the expiry sweep.
func (r *leaseRepository) FindActiveEndedBefore(ctx context.Context, cutoff string) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.WithContext(ctx).
		Where("status = ? AND lease_end_date < ?", models.LeaseStatusActive, cutoff).
		Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) Create(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Create(lease).Error
}

func (r *leaseRepository) Update(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Save(lease).Error
}

func (r *leaseRepository) List(ctx context.Context, query *LeaseQuery) ([]models.Lease, int64, error) {
	var leases []models.Lease
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Lease{})

	// Non-admin callers see only leases they own or hold
	if !query.IsAdmin {
		if query.OwnerID > 0 {
			db = db.Where("owner_id = ?", query.OwnerID)
		}
		if query.TenantID > 0 {
			db = db.Where("tenant_id = ?", query.TenantID)
		}
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

	db.Count(&total)

	err := paginate(db, query.ListQuery).
		Joins("Unit").
		Joins("Tenant").
		Find(&leases).Error
	return leases, total, err
}

// agreementSeqLockKey serializes agreement number allocation. A row lock on
// the current max would not cover an empty table, so concurrent first
// move-ins could both mint LA-000001.
const agreementSeqLockKey = 874311

// NextAgreementNumber returns the next sequential agreement number. Callers
// run inside the move-in transaction, so the advisory lock is held until the
// transaction ends; the zero-padded format keeps MAX() lexically correct.
// Numbers survive deletes: the sequence never restarts.
func (r *leaseRepository) NextAgreementNumber(ctx context.Context) (string, error) {
	if err := r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?)", agreementSeqLockKey).Error; err != nil {
		return "", err
	}

	var last models.Lease
	err := r.db.WithContext(ctx).
		Order("agreement_number DESC").
		Select("agreement_number").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FormatAgreementNumber(1), nil
		}
		return "", err
	}

	seq, err := strconv.ParseInt(strings.TrimPrefix(last.AgreementNumber, "LA-"), 10, 64)
	if err != nil {
		return "", err
	}
	return models.FormatAgreementNumber(seq + 1), nil
}

// UpsertDocument replaces the document stored in a lease's slot, keyed by
// (lease_id, kind).
func (r *leaseRepository) UpsertDocument(ctx context.Context, doc *models.LeaseDocument) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lease_id"}, {Name: "kind"}},
			UpdateAll: true,
		}).
		Create(doc).Error
}
