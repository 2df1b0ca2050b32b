package models

import (
	"time"
)

// Property represents a rental property owned by a user
type Property struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	PropertyType string    `gorm:"default:residential" json:"property_type"`
	Address      string    `gorm:"not null" json:"address"`
	GUID         string    `gorm:"column:guid;not null" json:"guid"`
	PhotoPath    *string   `json:"photo_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Owner User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Units []Unit `gorm:"foreignKey:PropertyID" json:"units,omitempty"`
}

// TableName specifies the table name for Property
func (Property) TableName() string {
	return "properties"
}

// Property type constants
const (
	PropertyTypeResidential = "residential"
	PropertyTypeCommercial  = "commercial"
	PropertyTypeMixed       = "mixed"
)

// FindUnit returns the unit with the given ID, or nil when the unit does
// not belong to this property.
func (p *Property) FindUnit(unitID uint) *Unit {
	for i := range p.Units {
		if p.Units[i].ID == unitID {
			return &p.Units[i]
		}
	}
	return nil
}

// PropertyResponse is the JSON response format for properties
type PropertyResponse struct {
	ID             uint           `json:"id"`
	OwnerID        uint           `json:"owner_id"`
	OwnerName      string         `json:"owner_name"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	PropertyType   string         `json:"property_type"`
	Address        string         `json:"address"`
	PhotoPath      *string        `json:"photo_path"`
	UnitCount      int            `json:"unit_count"`
	AvailableUnits int            `json:"available_units"`
	OccupiedUnits  int            `json:"occupied_units"`
	Units          []UnitResponse `json:"units,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ToResponse converts Property to PropertyResponse
func (p *Property) ToResponse() PropertyResponse {
	resp := PropertyResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		OwnerName:    p.Owner.FullName,
		Name:         p.Name,
		Description:  p.Description,
		PropertyType: p.PropertyType,
		Address:      p.Address,
		PhotoPath:    p.PhotoPath,
		UnitCount:    len(p.Units),
		CreatedAt:    p.CreatedAt,
	}

	for i := range p.Units {
		unit := &p.Units[i]
		switch unit.Status {
		case UnitStatusAvailable:
			resp.AvailableUnits++
		case UnitStatusOccupied:
			resp.OccupiedUnits++
		}
		resp.Units = append(resp.Units, unit.ToResponse())
	}

	return resp
}
