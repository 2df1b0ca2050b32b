package repository

import (
	"context"

	"github.com/rvaldez/rentora-api/internal/models"
	"gorm.io/gorm"
)

// UnitRepository defines the interface for unit data access. Occupy and
// Vacate are conditional updates: the WHERE clause carries the expected
// current status and callers must check the returned rows-affected result,
// which is what makes two concurrent move-ins on one unit impossible.
type UnitRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Unit, error)
	FindByProperty(ctx context.Context, propertyID uint) ([]models.Unit, error)
	FindOccupied(ctx context.Context) ([]models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
	Delete(ctx context.Context, id uint) error
	Occupy(ctx context.Context, unitID, tenantID uint) (int64, error)
	Vacate(ctx context.Context, unitID uint) (int64, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) UnitRepository
}

type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) WithTx(tx *gorm.DB) UnitRepository {
	return &unitRepository{db: tx}
}

func (r *unitRepository) FindByID(ctx context.Context, id uint) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) FindByProperty(ctx context.Context, propertyID uint) ([]models.Unit, error) {
	var units []models.Unit
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Preload("Tenant").
		Order("name ASC").
		Find(&units).Error
	return units, err
}

func (r *unitRepository) FindOccupied(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	err := r.db.WithContext(ctx).
		Where("status = ? AND tenant_id IS NOT NULL", models.UnitStatusOccupied).
		Find(&units).Error
	return units, err
}

func (r *unitRepository) Create(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepository) Update(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *unitRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Unit{}, id).Error
}

// Occupy flips an available unit to occupied for the given tenant. Returns
// the number of rows updated: zero means the unit was not available.
func (r *unitRepository) Occupy(ctx context.Context, unitID, tenantID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Unit{}).
		Where("id = ? AND status = ?", unitID, models.UnitStatusAvailable).
		Updates(map[string]interface{}{
			"status":    models.UnitStatusOccupied,
			"tenant_id": tenantID,
		})
	return result.RowsAffected, result.Error
}

// Vacate frees an occupied unit back to available. Returns the number of
// rows updated: zero means the unit was not occupied.
func (r *unitRepository) Vacate(ctx context.Context, unitID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Unit{}).
		Where("id = ? AND status = ?", unitID, models.UnitStatusOccupied).
		Updates(map[string]interface{}{
			"status":    models.UnitStatusAvailable,
			"tenant_id": nil,
		})
	return result.RowsAffected, result.Error
}
