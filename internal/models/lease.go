package models

import (
	"fmt"
	"time"
)

// LeaseTerms holds the negotiated terms embedded on a lease row
type LeaseTerms struct {
	LateFeeAmount    float64 `gorm:"type:decimal(10,2);default:50" json:"late_fee_amount"`
	LateFeeAfterDays int     `gorm:"default:5" json:"late_fee_after_days"`
	NoticePeriodDays int     `gorm:"default:30" json:"notice_period_days"`
	PetAllowed       bool    `gorm:"default:false" json:"pet_allowed"`
	SmokingAllowed   bool    `gorm:"default:false" json:"smoking_allowed"`
}

// DefaultLeaseTerms returns the terms applied when the move-in request
// leaves them unspecified.
func DefaultLeaseTerms() LeaseTerms {
	return LeaseTerms{
		LateFeeAmount:    50,
		LateFeeAfterDays: 5,
		NoticePeriodDays: 30,
	}
}

// Lease represents the contractual record binding a tenant to a unit for a
// date range and rent amount. One lease is current per unit while the unit
// is occupied; historical rows per unit are kept forever.
type Lease struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	PropertyID       uint       `gorm:"not null;index" json:"property_id"`
	UnitID           uint       `gorm:"not null;index" json:"unit_id"`
	TenantID         uint       `gorm:"not null;index" json:"tenant_id"`
	OwnerID          uint       `gorm:"not null;index" json:"owner_id"`
	LeaseStartDate   time.Time  `gorm:"type:date;not null" json:"lease_start_date"`
	LeaseEndDate     time.Time  `gorm:"type:date;not null" json:"lease_end_date"`
	MonthlyRent      float64    `gorm:"type:decimal(15,2);not null" json:"monthly_rent"`
	SecurityDeposit  float64    `gorm:"type:decimal(15,2);default:0" json:"security_deposit"`
	AdvancePayment   float64    `gorm:"type:decimal(15,2);default:0" json:"advance_payment"`
	AgreementNumber  string     `gorm:"uniqueIndex;not null" json:"agreement_number"`
	AgreementPDFPath *string    `json:"agreement_pdf_path"`
	Status           string     `gorm:"default:active;index" json:"status"`
	Terms            LeaseTerms `gorm:"embedded;embeddedPrefix:term_" json:"terms"`
	Notes            *string    `gorm:"type:text" json:"notes"`
	SignedDate       *time.Time `gorm:"type:date" json:"signed_date"`
	MoveInDate       *time.Time `gorm:"type:date" json:"move_in_date"`
	MoveOutDate      *time.Time `gorm:"type:date" json:"move_out_date"`
	TerminatedDate   *time.Time `gorm:"type:date" json:"terminated_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Associations
	Property  Property        `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Unit      Unit            `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Tenant    User            `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Owner     User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Documents []LeaseDocument `gorm:"foreignKey:LeaseID" json:"documents,omitempty"`
}

// TableName specifies the table name for Lease
func (Lease) TableName() string {
	return "leases"
}

// Lease status constants
const (
	LeaseStatusActive     = "active"
	LeaseStatusExpired    = "expired"
	LeaseStatusTerminated = "terminated"
)

// FormatAgreementNumber renders a sequential agreement number, e.g.
// FormatAgreementNumber(7) == "LA-000007". Numbers are assigned once at
// creation and never reused.
func FormatAgreementNumber(seq int64) string {
	return fmt.Sprintf("LA-%06d", seq)
}

// IsActive returns true if the lease is the current tenancy for its unit
func (l *Lease) IsActive() bool {
	return l.Status == LeaseStatusActive
}

// MayTerminate returns true if the lease can be terminated (move-out)
func (l *Lease) MayTerminate() bool {
	return l.Status == LeaseStatusActive
}

// MayExpire returns true if the lease can roll to expired
func (l *Lease) MayExpire() bool {
	return l.Status == LeaseStatusActive && time.Now().After(l.LeaseEndDate)
}

// MayReactivate returns true if a terminated or expired lease can be
// reactivated by an admin.
func (l *Lease) MayReactivate() bool {
	return l.Status == LeaseStatusTerminated || l.Status == LeaseStatusExpired
}

// LeaseDocument represents a file attached to a lease (signed copy, tenant
// ID proof, deposit receipt, move-in inspection report).
type LeaseDocument struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LeaseID    uint      `gorm:"not null;index:idx_lease_documents_lease_kind,unique" json:"lease_id"`
	Kind       string    `gorm:"size:50;not null;index:idx_lease_documents_lease_kind,unique" json:"kind"`
	URL        string    `gorm:"not null" json:"url"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TableName specifies the table name for LeaseDocument
func (LeaseDocument) TableName() string {
	return "lease_documents"
}

// Lease document kind constants
const (
	DocumentKindSignedLease      = "signed_lease"
	DocumentKindIDProof          = "id_proof"
	DocumentKindDepositReceipt   = "deposit_receipt"
	DocumentKindMoveInInspection = "move_in_inspection"
)

// ValidDocumentKind reports whether kind names a known lease document slot
func ValidDocumentKind(kind string) bool {
	switch kind {
	case DocumentKindSignedLease, DocumentKindIDProof,
		DocumentKindDepositReceipt, DocumentKindMoveInInspection:
		return true
	}
	return false
}

// LeaseResponse is the JSON response format for leases
type LeaseResponse struct {
	ID               uint            `json:"id"`
	PropertyID       uint            `json:"property_id"`
	PropertyName     string          `json:"property_name"`
	UnitID           uint            `json:"unit_id"`
	UnitName         string          `json:"unit_name"`
	TenantID         uint            `json:"tenant_id"`
	TenantName       string          `json:"tenant_name"`
	TenantPhone      string          `json:"tenant_phone"`
	OwnerID          uint            `json:"owner_id"`
	OwnerName        string          `json:"owner_name"`
	AgreementNumber  string          `json:"agreement_number"`
	AgreementPDFPath *string         `json:"agreement_pdf_path"`
	LeaseStartDate   time.Time       `json:"lease_start_date"`
	LeaseEndDate     time.Time       `json:"lease_end_date"`
	MonthlyRent      float64         `json:"monthly_rent"`
	SecurityDeposit  float64         `json:"security_deposit"`
	AdvancePayment   float64         `json:"advance_payment"`
	Status           string          `json:"status"`
	Terms            LeaseTerms      `json:"terms"`
	Notes            *string         `json:"notes"`
	SignedDate       *time.Time      `json:"signed_date"`
	MoveInDate       *time.Time      `json:"move_in_date"`
	MoveOutDate      *time.Time      `json:"move_out_date"`
	TerminatedDate   *time.Time      `json:"terminated_date"`
	Documents        []LeaseDocument `json:"documents"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToResponse converts Lease to LeaseResponse
func (l *Lease) ToResponse() LeaseResponse {
	resp := LeaseResponse{
		ID:               l.ID,
		PropertyID:       l.PropertyID,
		UnitID:           l.UnitID,
		TenantID:         l.TenantID,
		OwnerID:          l.OwnerID,
		AgreementNumber:  l.AgreementNumber,
		AgreementPDFPath: l.AgreementPDFPath,
		LeaseStartDate:   l.LeaseStartDate,
		LeaseEndDate:     l.LeaseEndDate,
		MonthlyRent:      l.MonthlyRent,
		SecurityDeposit:  l.SecurityDeposit,
		AdvancePayment:   l.AdvancePayment,
		Status:           l.Status,
		Terms:            l.Terms,
		Notes:            l.Notes,
		SignedDate:       l.SignedDate,
		MoveInDate:       l.MoveInDate,
		MoveOutDate:      l.MoveOutDate,
		TerminatedDate:   l.TerminatedDate,
		Documents:        l.Documents,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}

	resp.PropertyName = l.Property.Name
	resp.UnitName = l.Unit.Name
	resp.TenantName = l.Tenant.FullName
	resp.TenantPhone = l.Tenant.Phone
	resp.OwnerName = l.Owner.FullName

	return resp
}
