package models

import (
	"time"
)

// Payment represents a billable/paid transaction record, either
// pre-scheduled by the payment schedule generator (one per lease month) or
// created ad hoc against an invoice. The unit/property columns snapshot the
// context at generation time so the record stays meaningful after a lease
// ends.
type Payment struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	TenantID              uint       `gorm:"not null;index" json:"tenant_id"`
	InvoiceID             *uint      `gorm:"index" json:"invoice_id"`
	Amount                float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method                string     `gorm:"default:card" json:"method"`
	Status                string     `gorm:"default:pending;not null;index" json:"status"`
	StripePaymentIntentID *string    `gorm:"index" json:"stripe_payment_intent_id"`
	PaidDate              *time.Time `gorm:"type:date" json:"paid_date"`
	Description           string     `json:"description"`
	FailureReason         *string    `gorm:"type:text" json:"failure_reason,omitempty"`
	ReminderSentAt        *time.Time `json:"-"`

	// Billing metadata
	PropertyID  uint      `gorm:"not null;index" json:"property_id"`
	UnitID      uint      `gorm:"not null;index" json:"unit_id"`
	UnitNumber  string    `json:"unit_number"`
	MonthLabel  string    `gorm:"column:month_label" json:"month_label"`
	DueDate     time.Time `gorm:"type:date;not null;index" json:"due_date"`
	PaymentType string    `gorm:"default:rent_payment;index" json:"payment_type"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Tenant  User     `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Invoice *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment method constants
const (
	PaymentMethodCard = "card"
	PaymentMethodBank = "bank"
	PaymentMethodCash = "cash"
)

// Payment type constants
const (
	PaymentTypeRent    = "rent_payment"
	PaymentTypeInvoice = "invoice_payment"
)

// MayConfirm returns true if the payment can move to succeeded
func (p *Payment) MayConfirm() bool {
	return p.Status == PaymentStatusPending
}

// MayFail returns true if the payment can move to failed
func (p *Payment) MayFail() bool {
	return p.Status == PaymentStatusPending
}

// MayRetry returns true if a failed payment can be re-opened
func (p *Payment) MayRetry() bool {
	return p.Status == PaymentStatusFailed
}

// IsOverdue returns true if the payment is pending past its due date
func (p *Payment) IsOverdue() bool {
	return p.Status == PaymentStatusPending && time.Now().After(p.DueDate)
}

// OverdueDays returns the number of days overdue
func (p *Payment) OverdueDays() int {
	if !p.IsOverdue() {
		return 0
	}
	return int(time.Since(p.DueDate).Hours() / 24)
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID            uint       `json:"id"`
	TenantID      uint       `json:"tenant_id"`
	TenantName    string     `json:"tenant_name,omitempty"`
	InvoiceID     *uint      `json:"invoice_id"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	PaidDate      *time.Time `json:"paid_date"`
	Description   string     `json:"description"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	PropertyID    uint       `json:"property_id"`
	UnitID        uint       `json:"unit_id"`
	UnitNumber    string     `json:"unit_number"`
	MonthLabel    string     `json:"month_label"`
	DueDate       time.Time  `json:"due_date"`
	PaymentType   string     `json:"payment_type"`
	OverdueDays   int        `json:"overdue_days"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		PaidDate:      p.PaidDate,
		Description:   p.Description,
		FailureReason: p.FailureReason,
		PropertyID:    p.PropertyID,
		UnitID:        p.UnitID,
		UnitNumber:    p.UnitNumber,
		MonthLabel:    p.MonthLabel,
		DueDate:       p.DueDate,
		PaymentType:   p.PaymentType,
		OverdueDays:   p.OverdueDays(),
		CreatedAt:     p.CreatedAt,
	}

	if p.Tenant.ID != 0 {
		resp.TenantName = p.Tenant.FullName
	}

	return resp
}
