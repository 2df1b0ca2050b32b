package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"gorm.io/gorm"
)

// PropertyService handles property and unit management
type PropertyService struct {
	propertyRepo repository.PropertyRepository
	unitRepo     repository.UnitRepository
	leaseRepo    repository.LeaseRepository
	imageService *ImageService
	auditSvc     *AuditService
}

// NewPropertyService creates a new property service
func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	unitRepo repository.UnitRepository,
	leaseRepo repository.LeaseRepository,
	imageService *ImageService,
	auditSvc *AuditService,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		leaseRepo:    leaseRepo,
		imageService: imageService,
		auditSvc:     auditSvc,
	}
}

// CreatePropertyInput is the request payload for creating a property
type CreatePropertyInput struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	PropertyType string `json:"property_type" binding:"omitempty,oneof=residential commercial mixed"`
	Address      string `json:"address" binding:"required"`
	OwnerID      uint   `json:"owner_id"`
}

// CreateProperty creates a property. Owners create their own; admins can
// create for any owner via OwnerID.
func (s *PropertyService) CreateProperty(ctx context.Context, actor Actor, input *CreatePropertyInput) (*models.Property, error) {
	if !actor.IsAdmin() && !actor.IsOwner() {
		return nil, forbiddenError("only owners and admins can create properties")
	}

	ownerID := actor.ID
	if actor.IsAdmin() && input.OwnerID != 0 {
		ownerID = input.OwnerID
	}

	propertyType := input.PropertyType
	if propertyType == "" {
		propertyType = models.PropertyTypeResidential
	}

	property := &models.Property{
		OwnerID:      ownerID,
		Name:         input.Name,
		Description:  input.Description,
		PropertyType: propertyType,
		Address:      input.Address,
		GUID:         uuid.NewString(),
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor.ID, "CREATE", "Property", property.ID,
		fmt.Sprintf("Property created: %s (%s)", property.Name, property.Address), "", "")

	return property, nil
}

// UpdatePropertyInput is the request payload for updating a property
type UpdatePropertyInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	PropertyType *string `json:"property_type" binding:"omitempty,oneof=residential commercial mixed"`
	Address      *string `json:"address"`
}

// UpdateProperty edits a property
func (s *PropertyService) UpdateProperty(ctx context.Context, actor Actor, propertyID uint, input *UpdatePropertyInput) (*models.Property, error) {
	property, err := s.authorizeProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		property.Name = *input.Name
	}
	if input.Description != nil {
		property.Description = *input.Description
	}
	if input.PropertyType != nil {
		property.PropertyType = *input.PropertyType
	}
	if input.Address != nil {
		property.Address = *input.Address
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// GetProperty loads a property with its units
func (s *PropertyService) GetProperty(ctx context.Context, actor Actor, propertyID uint) (*models.Property, error) {
	property, err := s.propertyRepo.FindByIDWithUnits(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("property")
		}
		return nil, err
	}

	if !actor.IsAdmin() && property.OwnerID != actor.ID {
		// Tenants may view a property they rent in
		if !s.actorRentsIn(property, actor) {
			return nil, forbiddenError("you do not have access to this property")
		}
	}

	return property, nil
}

func (s *PropertyService) actorRentsIn(property *models.Property, actor Actor) bool {
	for i := range property.Units {
		if t := property.Units[i].TenantID; t != nil && *t == actor.ID {
			return true
		}
	}
	return false
}

// ListProperties lists properties visible to the caller
func (s *PropertyService) ListProperties(ctx context.Context, actor Actor, query *repository.PropertyQuery) ([]models.Property, int64, error) {
	query.IsAdmin = actor.IsAdmin()
	if !actor.IsAdmin() {
		query.OwnerID = actor.ID
	}
	return s.propertyRepo.List(ctx, query)
}

// DeleteProperty removes a property. Blocked while any unit is occupied.
func (s *PropertyService) DeleteProperty(ctx context.Context, actor Actor, propertyID uint) error {
	property, err := s.propertyRepo.FindByIDWithUnits(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("property")
		}
		return err
	}

	if !actor.IsAdmin() && property.OwnerID != actor.ID {
		return forbiddenError("you do not have access to this property")
	}

	for i := range property.Units {
		if property.Units[i].IsOccupied() {
			return fmt.Errorf("%w: property has occupied units", ErrConflict)
		}
	}

	if property.PhotoPath != nil {
		s.imageService.DeletePhoto(*property.PhotoPath)
	}

	if err := s.propertyRepo.Delete(ctx, propertyID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "DELETE", "Property", propertyID,
		fmt.Sprintf("Property deleted: %s", property.Name), "", "")
	return nil
}

// UploadPhoto stores a property photo, replacing any previous one
func (s *PropertyService) UploadPhoto(ctx context.Context, actor Actor, propertyID uint, file multipart.File, header *multipart.FileHeader) (*models.Property, error) {
	property, err := s.authorizeProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}

	path, err := s.imageService.SavePhoto(file, header)
	if err != nil {
		return nil, err
	}

	if property.PhotoPath != nil {
		s.imageService.DeletePhoto(*property.PhotoPath)
	}

	property.PhotoPath = &path
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// CreateUnitInput is the request payload for adding a unit to a property
type CreateUnitInput struct {
	Name       string  `json:"name" binding:"required"`
	RentAmount float64 `json:"rent_amount" binding:"required,gt=0"`
	Note       *string `json:"note"`
}

// CreateUnit adds a unit to a property
func (s *PropertyService) CreateUnit(ctx context.Context, actor Actor, propertyID uint, input *CreateUnitInput) (*models.Unit, error) {
	property, err := s.authorizeProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}

	unit := &models.Unit{
		PropertyID: property.ID,
		Name:       input.Name,
		Status:     models.UnitStatusAvailable,
		RentAmount: input.RentAmount,
		Note:       input.Note,
	}

	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// UpdateUnitInput is the request payload for editing a unit
type UpdateUnitInput struct {
	Name       *string  `json:"name"`
	RentAmount *float64 `json:"rent_amount" binding:"omitempty,gt=0"`
	Status     *string  `json:"status" binding:"omitempty,oneof=available maintenance"`
	Note       *string  `json:"note"`
}

// UpdateUnit edits a unit. Status can only be toggled between available and
// maintenance here; occupied is owned by the move-in and move-out flows.
func (s *PropertyService) UpdateUnit(ctx context.Context, actor Actor, unitID uint, input *UpdateUnitInput) (*models.Unit, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("unit")
		}
		return nil, err
	}

	if _, err := s.authorizeProperty(ctx, actor, unit.PropertyID); err != nil {
		return nil, err
	}

	if input.Status != nil && unit.IsOccupied() {
		return nil, fmt.Errorf("%w: cannot change status of an occupied unit", ErrConflict)
	}

	if input.Name != nil {
		unit.Name = *input.Name
	}
	if input.RentAmount != nil {
		unit.RentAmount = *input.RentAmount
	}
	if input.Status != nil {
		unit.Status = *input.Status
	}
	if input.Note != nil {
		unit.Note = input.Note
	}

	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// DeleteUnit removes a unit. Blocked while occupied or with lease history.
func (s *PropertyService) DeleteUnit(ctx context.Context, actor Actor, unitID uint) error {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("unit")
		}
		return err
	}

	if _, err := s.authorizeProperty(ctx, actor, unit.PropertyID); err != nil {
		return err
	}

	if unit.IsOccupied() {
		return fmt.Errorf("%w: unit is occupied", ErrConflict)
	}

	leases, err := s.leaseRepo.FindByUnit(ctx, unitID)
	if err != nil {
		return err
	}
	if len(leases) > 0 {
		return fmt.Errorf("%w: unit has lease history", ErrConflict)
	}

	return s.unitRepo.Delete(ctx, unitID)
}

// ListUnits lists a property's units
func (s *PropertyService) ListUnits(ctx context.Context, actor Actor, propertyID uint) ([]models.Unit, error) {
	if _, err := s.authorizeProperty(ctx, actor, propertyID); err != nil {
		return nil, err
	}
	return s.unitRepo.FindByProperty(ctx, propertyID)
}

// authorizeProperty loads a property and checks the actor owns it or is an
// admin.
func (s *PropertyService) authorizeProperty(ctx context.Context, actor Actor, propertyID uint) (*models.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("property")
		}
		return nil, err
	}

	if !actor.IsAdmin() && property.OwnerID != actor.ID {
		return nil, forbiddenError("you do not have access to this property")
	}

	return property, nil
}
