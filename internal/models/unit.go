package models

import (
	"time"
)

// Unit represents a rentable sub-space of a property (apartment, office).
// Invariant: Status == occupied exactly when TenantID is set; both fields
// are only flipped together, inside the move-in and move-out transactions.
type Unit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	Name       string    `gorm:"not null" json:"name"`
	Status     string    `gorm:"default:available;index" json:"status"`
	RentAmount float64   `gorm:"type:decimal(15,2);not null" json:"rent_amount"`
	TenantID   *uint     `gorm:"index" json:"tenant_id"`
	Note       *string   `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Property Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Tenant   *User    `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Leases   []Lease  `gorm:"foreignKey:UnitID" json:"leases,omitempty"`
}

// TableName specifies the table name for Unit
func (Unit) TableName() string {
	return "units"
}

// Unit status constants
const (
	UnitStatusAvailable   = "available"
	UnitStatusOccupied    = "occupied"
	UnitStatusMaintenance = "maintenance"
)

// IsAvailable returns true if the unit can be moved into
func (u *Unit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}

// IsOccupied returns true if a tenant currently holds the unit
func (u *Unit) IsOccupied() bool {
	return u.Status == UnitStatusOccupied && u.TenantID != nil
}

// UnitResponse is the JSON response format for units
type UnitResponse struct {
	ID         uint    `json:"id"`
	PropertyID uint    `json:"property_id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	RentAmount float64 `json:"rent_amount"`
	TenantID   *uint   `json:"tenant_id"`
	TenantName string  `json:"tenant_name,omitempty"`
	Note       *string `json:"note"`
}

// ToResponse converts Unit to UnitResponse
func (u *Unit) ToResponse() UnitResponse {
	resp := UnitResponse{
		ID:         u.ID,
		PropertyID: u.PropertyID,
		Name:       u.Name,
		Status:     u.Status,
		RentAmount: u.RentAmount,
		TenantID:   u.TenantID,
		Note:       u.Note,
	}
	if u.Tenant != nil {
		resp.TenantName = u.Tenant.FullName
	}
	return resp
}
