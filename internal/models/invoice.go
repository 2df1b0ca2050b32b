package models

import (
	"time"
)

// Invoice is the monthly billing record generated by the invoice cron, one
// per occupied unit per calendar period. Distinct from Payment: an invoice
// may later be settled by an invoice_payment that references it.
//
// The composite unique index on (period, unit_id, tenant_id) is what makes
// generation idempotent: concurrent or repeated runs insert with
// ON CONFLICT DO NOTHING instead of trusting a prior existence check.
type Invoice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	UnitID     uint      `gorm:"not null;uniqueIndex:idx_invoices_period_unit_tenant" json:"unit_id"`
	TenantID   uint      `gorm:"not null;uniqueIndex:idx_invoices_period_unit_tenant" json:"tenant_id"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate    time.Time `gorm:"type:date;not null;index" json:"due_date"`
	Period     string    `gorm:"size:7;not null;uniqueIndex:idx_invoices_period_unit_tenant" json:"period"`
	Status     string    `gorm:"default:pending;index" json:"status"`
	PaymentID  *uint     `gorm:"index" json:"payment_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Property Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Tenant   User     `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// Invoice status constants
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// IsOverdue returns true if the invoice is unpaid past its due date
func (i *Invoice) IsOverdue() bool {
	return i.Status == InvoiceStatusPending && time.Now().After(i.DueDate)
}

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	ID           uint      `json:"id"`
	PropertyID   uint      `json:"property_id"`
	PropertyName string    `json:"property_name,omitempty"`
	UnitID       uint      `json:"unit_id"`
	TenantID     uint      `json:"tenant_id"`
	TenantName   string    `json:"tenant_name,omitempty"`
	Amount       float64   `json:"amount"`
	DueDate      time.Time `json:"due_date"`
	Period       string    `json:"period"`
	Status       string    `json:"status"`
	PaymentID    *uint     `json:"payment_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse converts Invoice to InvoiceResponse
func (i *Invoice) ToResponse() InvoiceResponse {
	resp := InvoiceResponse{
		ID:         i.ID,
		PropertyID: i.PropertyID,
		UnitID:     i.UnitID,
		TenantID:   i.TenantID,
		Amount:     i.Amount,
		DueDate:    i.DueDate,
		Period:     i.Period,
		Status:     i.Status,
		PaymentID:  i.PaymentID,
		CreatedAt:  i.CreatedAt,
	}
	if i.Property.ID != 0 {
		resp.PropertyName = i.Property.Name
	}
	if i.Tenant.ID != 0 {
		resp.TenantName = i.Tenant.FullName
	}
	return resp
}
