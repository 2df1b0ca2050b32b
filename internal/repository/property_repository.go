package repository

import (
	"context"

	"github.com/rvaldez/rentora-api/internal/models"
	"gorm.io/gorm"
)

// PropertyRepository defines the interface for property data access
type PropertyRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Property, error)
	FindByIDWithUnits(ctx context.Context, id uint) (*models.Property, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]models.Property, error)
	FindAllWithUnits(ctx context.Context) ([]models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *PropertyQuery) ([]models.Property, int64, error)
}

// PropertyQuery extends ListQuery with property-specific filters
type PropertyQuery struct {
	*ListQuery
	OwnerID uint
	IsAdmin bool
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) FindByIDWithUnits(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Joins("Owner").
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Preload("Units.Tenant").
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) FindByOwner(ctx context.Context, ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Preload("Units").
		Preload("Units.Tenant").
		Find(&properties).Error
	return properties, err
}

// FindAllWithUnits loads every property with its units and unit tenants.
// Used by the invoice generator's full scan.
func (r *propertyRepository) FindAllWithUnits(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Preload("Units").
		Preload("Units.Tenant").
		Find(&properties).Error
	return properties, err
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

func (r *propertyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Property{}, id).Error
}

func (r *propertyRepository) List(ctx context.Context, query *PropertyQuery) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Property{})

	// Owners see only their own properties
	if !query.IsAdmin && query.OwnerID > 0 {
		db = db.Where("owner_id = ?", query.OwnerID)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR address ILIKE ?", search, search)
	}

	if query.Filters["property_type"] != "" {
		db = db.Where("property_type = ?", query.Filters["property_type"])
	}

	db.Count(&total)

	err := paginate(db, query.ListQuery).
		Preload("Units").
		Joins("Owner").
		Find(&properties).Error
	return properties, total, err
}
