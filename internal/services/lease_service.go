package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/rvaldez/rentora-api/internal/statemachine"
	"github.com/rvaldez/rentora-api/pkg/logger"
	"gorm.io/gorm"
)

// AgreementGenerator renders the lease agreement PDF and returns its stored
// path.
type AgreementGenerator interface {
	Generate(ctx context.Context, lease *models.Lease, property *models.Property, unit *models.Unit, tenant, owner *models.User) (string, error)
	Remove(path string)
}

// LeaseService handles the move-in workflow and the lease lifecycle
type LeaseService struct {
	db           *gorm.DB
	leaseRepo    repository.LeaseRepository
	unitRepo     repository.UnitRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	paymentRepo  repository.PaymentRepository

	scheduleService     *PaymentScheduleService
	agreementService    AgreementGenerator
	emailService        *EmailService
	notificationService *NotificationService
}

// NewLeaseService creates a new lease service
func NewLeaseService(
	db *gorm.DB,
	repos *repository.Repositories,
	scheduleService *PaymentScheduleService,
	agreementService AgreementGenerator,
	emailService *EmailService,
	notificationService *NotificationService,
) *LeaseService {
	return &LeaseService{
		db:                  db,
		leaseRepo:           repos.Lease,
		unitRepo:            repos.Unit,
		propertyRepo:        repos.Property,
		userRepo:            repos.User,
		paymentRepo:         repos.Payment,
		scheduleService:     scheduleService,
		agreementService:    agreementService,
		emailService:        emailService,
		notificationService: notificationService,
	}
}

// MoveInInput is the request payload for moving a tenant into a unit
type MoveInInput struct {
	TenantID        uint               `json:"tenant_id" binding:"required"`
	LeaseStartDate  time.Time          `json:"-"`
	LeaseEndDate    time.Time          `json:"-"`
	MonthlyRent     float64            `json:"monthly_rent" binding:"required,gt=0"`
	SecurityDeposit float64            `json:"security_deposit" binding:"omitempty,gte=0"`
	AdvancePayment  float64            `json:"advance_payment" binding:"omitempty,gte=0"`
	Terms           *models.LeaseTerms `json:"terms"`
	Notes           *string            `json:"notes"`
}

// MoveIn runs the full move-in workflow: validates the tenant, unit and
// dates, then atomically occupies the unit, creates the lease with the next
// agreement number, generates the agreement PDF and the monthly rent
// schedule. Everything inside the transaction rolls back together; the PDF
// file is removed if the transaction fails after generating it.
func (s *LeaseService) MoveIn(ctx context.Context, actor Actor, propertyID, unitID uint, input *MoveInInput) (*models.Lease, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("property")
		}
		return nil, err
	}

	if !actor.IsAdmin() && property.OwnerID != actor.ID {
		return nil, forbiddenError("only the property owner or an admin can move a tenant in")
	}

	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("unit")
		}
		return nil, err
	}
	if unit.PropertyID != property.ID {
		return nil, notFoundError("unit")
	}

	// Early check for a friendly error; the authoritative check is the
	// conditional update inside the transaction.
	if !unit.IsAvailable() {
		return nil, ErrUnitNotAvailable
	}

	tenant, err := s.userRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("tenant")
		}
		return nil, err
	}
	// A user without the tenant role is not a tenant as far as move-in is
	// concerned
	if !tenant.IsTenant() {
		return nil, notFoundError("tenant")
	}
	if !tenant.IsActive() {
		return nil, validationError("tenant account is not active")
	}

	if input.LeaseEndDate.Before(input.LeaseStartDate) {
		return nil, validationError("lease end date must not be before the start date")
	}
	if input.MonthlyRent <= 0 {
		return nil, validationError("monthly rent must be greater than zero")
	}

	owner, err := s.userRepo.FindByID(ctx, property.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property owner: %w", err)
	}

	terms := models.DefaultLeaseTerms()
	if input.Terms != nil {
		terms = *input.Terms
	}

	now := time.Now()
	lease := &models.Lease{
		PropertyID:      property.ID,
		UnitID:          unit.ID,
		TenantID:        tenant.ID,
		OwnerID:         property.OwnerID,
		LeaseStartDate:  input.LeaseStartDate,
		LeaseEndDate:    input.LeaseEndDate,
		MonthlyRent:     input.MonthlyRent,
		SecurityDeposit: input.SecurityDeposit,
		AdvancePayment:  input.AdvancePayment,
		Status:          models.LeaseStatusActive,
		Terms:           terms,
		Notes:           input.Notes,
		SignedDate:      &now,
		MoveInDate:      &input.LeaseStartDate,
	}

	var pdfPath string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leases := s.leaseRepo.WithTx(tx)
		units := s.unitRepo.WithTx(tx)
		payments := s.paymentRepo.WithTx(tx)

		rows, err := units.Occupy(ctx, unit.ID, tenant.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrUnitNotAvailable
		}

		number, err := leases.NextAgreementNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to assign agreement number: %w", err)
		}
		lease.AgreementNumber = number

		if err := leases.Create(ctx, lease); err != nil {
			return fmt.Errorf("failed to create lease: %w", err)
		}

		pdfPath, err = s.agreementService.Generate(ctx, lease, property, unit, tenant, owner)
		if err != nil {
			return fmt.Errorf("failed to generate agreement: %w", err)
		}
		lease.AgreementPDFPath = &pdfPath
		if err := leases.Update(ctx, lease); err != nil {
			return err
		}

		schedule := s.scheduleService.BuildRentPayments(lease, unit)
		if err := payments.CreateBatch(ctx, schedule); err != nil {
			return fmt.Errorf("failed to create payment schedule: %w", err)
		}

		return nil
	})
	if err != nil {
		if pdfPath != "" {
			s.agreementService.Remove(pdfPath)
		}
		return nil, err
	}

	logger.Info("tenant moved in",
		"lease_id", lease.ID,
		"agreement_number", lease.AgreementNumber,
		"unit_id", unit.ID,
		"tenant_id", tenant.ID,
	)

	if err := s.emailService.SendLeaseActivated(ctx, tenant, lease); err != nil {
		logger.Error("failed to send lease activation email", "lease_id", lease.ID, "error", err)
	}
	s.notificationService.NotifyUser(ctx, tenant.ID,
		"Welcome to your new home",
		fmt.Sprintf("Your lease %s for unit %s is now active", lease.AgreementNumber, unit.Name),
		models.NotificationTypeMoveIn)
	s.notificationService.NotifyUser(ctx, property.OwnerID,
		"New tenant moved in",
		fmt.Sprintf("%s moved into unit %s at %s", tenant.FullName, unit.Name, property.Name),
		models.NotificationTypeMoveIn)

	return lease, nil
}

// UpdateLeaseInput is the request payload for editing an active lease
type UpdateLeaseInput struct {
	LeaseStartDate  *time.Time         `json:"-"`
	LeaseEndDate    *time.Time         `json:"-"`
	MonthlyRent     *float64           `json:"monthly_rent" binding:"omitempty,gt=0"`
	SecurityDeposit *float64           `json:"security_deposit" binding:"omitempty,gte=0"`
	Terms           *models.LeaseTerms `json:"terms"`
	Notes           *string            `json:"notes"`
}

// UpdateLease edits an active lease. Once any rent payment for the unit has
// succeeded the lease is locked and the edit is rejected. Date or rent
// changes regenerate the pending payment schedule; a schedule regeneration
// failure is logged but does not undo the saved lease changes.
func (s *LeaseService) UpdateLease(ctx context.Context, actor Actor, leaseID uint, input *UpdateLeaseInput) (*models.Lease, error) {
	lease, err := s.leaseRepo.FindByIDWithDetails(ctx, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("lease")
		}
		return nil, err
	}

	if !actor.IsAdmin() && lease.OwnerID != actor.ID {
		return nil, forbiddenError("only the property owner or an admin can edit a lease")
	}

	if !lease.IsActive() {
		return nil, fmt.Errorf("%w: lease is %s", ErrConflict, lease.Status)
	}

	collected, err := s.paymentRepo.HasSucceededForUnit(ctx, lease.UnitID)
	if err != nil {
		return nil, err
	}
	if collected {
		return nil, ErrRentAlreadyCollected
	}

	scheduleChanged := false
	if input.LeaseStartDate != nil {
		lease.LeaseStartDate = *input.LeaseStartDate
		scheduleChanged = true
	}
	if input.LeaseEndDate != nil {
		lease.LeaseEndDate = *input.LeaseEndDate
		scheduleChanged = true
	}
	if input.MonthlyRent != nil {
		lease.MonthlyRent = *input.MonthlyRent
		scheduleChanged = true
	}
	if input.SecurityDeposit != nil {
		lease.SecurityDeposit = *input.SecurityDeposit
	}
	if input.Terms != nil {
		lease.Terms = *input.Terms
	}
	if input.Notes != nil {
		lease.Notes = input.Notes
	}

	if lease.LeaseEndDate.Before(lease.LeaseStartDate) {
		return nil, validationError("lease end date must not be before the start date")
	}
	if lease.MonthlyRent <= 0 {
		return nil, validationError("monthly rent must be greater than zero")
	}

	if err := s.leaseRepo.Update(ctx, lease); err != nil {
		return nil, fmt.Errorf("failed to update lease: %w", err)
	}

	if scheduleChanged {
		if err := s.scheduleService.RegenerateForLease(ctx, lease, &lease.Unit); err != nil {
			logger.Error("failed to regenerate payment schedule", "lease_id", lease.ID, "error", err)
		}
		if path, err := s.agreementService.Generate(ctx, lease, &lease.Property, &lease.Unit, &lease.Tenant, &lease.Owner); err != nil {
			logger.Error("failed to regenerate agreement", "lease_id", lease.ID, "error", err)
		} else {
			old := lease.AgreementPDFPath
			lease.AgreementPDFPath = &path
			if err := s.leaseRepo.Update(ctx, lease); err != nil {
				return nil, err
			}
			if old != nil && *old != path {
				s.agreementService.Remove(*old)
			}
		}
	}

	s.notificationService.NotifyUser(ctx, lease.TenantID,
		"Lease updated",
		fmt.Sprintf("Your lease %s was updated", lease.AgreementNumber),
		models.NotificationTypeLeaseUpdated)

	return lease, nil
}

// MoveOutInput is the request payload for moving a tenant out
type MoveOutInput struct {
	MoveOutDate time.Time `json:"-"`
	Notes       *string   `json:"notes"`
}

// MoveOut terminates an active lease: the lease moves to terminated, the
// unit returns to available and the remaining pending payments are removed.
// Succeeded payments stay on record.
func (s *LeaseService) MoveOut(ctx context.Context, actor Actor, leaseID uint, input *MoveOutInput) (*models.Lease, error) {
	lease, err := s.leaseRepo.FindByIDWithDetails(ctx, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("lease")
		}
		return nil, err
	}

	if !actor.IsAdmin() && lease.OwnerID != actor.ID {
		return nil, forbiddenError("only the property owner or an admin can move a tenant out")
	}

	machine := statemachine.NewLeaseFSM(lease)
	if err := machine.Terminate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, err.Error())
	}

	now := time.Now()
	lease.MoveOutDate = &input.MoveOutDate
	lease.TerminatedDate = &now
	if input.Notes != nil {
		lease.Notes = input.Notes
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leases := s.leaseRepo.WithTx(tx)
		units := s.unitRepo.WithTx(tx)
		payments := s.paymentRepo.WithTx(tx)

		if err := leases.Update(ctx, lease); err != nil {
			return err
		}

		rows, err := units.Vacate(ctx, lease.UnitID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: unit is not occupied", ErrConflict)
		}

		if _, err := payments.DeletePendingByUnit(ctx, lease.UnitID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("tenant moved out",
		"lease_id", lease.ID,
		"unit_id", lease.UnitID,
		"tenant_id", lease.TenantID,
	)

	s.notificationService.NotifyUser(ctx, lease.TenantID,
		"Move-out complete",
		fmt.Sprintf("Your lease %s has been terminated", lease.AgreementNumber),
		models.NotificationTypeMoveOut)
	s.notificationService.NotifyUser(ctx, lease.OwnerID,
		"Tenant moved out",
		fmt.Sprintf("Unit %s is available again", lease.Unit.Name),
		models.NotificationTypeMoveOut)

	return lease, nil
}

// GetLease loads a lease with its associations, scoped to the caller
func (s *LeaseService) GetLease(ctx context.Context, actor Actor, leaseID uint) (*models.Lease, error) {
	lease, err := s.leaseRepo.FindByIDWithDetails(ctx, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("lease")
		}
		return nil, err
	}

	if !actor.IsAdmin() && lease.OwnerID != actor.ID && lease.TenantID != actor.ID {
		return nil, forbiddenError("you do not have access to this lease")
	}

	return lease, nil
}

// ListLeases lists leases visible to the caller
func (s *LeaseService) ListLeases(ctx context.Context, actor Actor, query *repository.LeaseQuery) ([]models.Lease, int64, error) {
	query.IsAdmin = actor.IsAdmin()
	if actor.IsOwner() {
		query.OwnerID = actor.ID
	}
	if actor.IsTenant() {
		query.TenantID = actor.ID
	}
	return s.leaseRepo.List(ctx, query)
}

// LeaseHistoryByUnit returns every lease a unit has had, newest first
func (s *LeaseService) LeaseHistoryByUnit(ctx context.Context, actor Actor, unitID uint) ([]models.Lease, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("unit")
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		property, err := s.propertyRepo.FindByID(ctx, unit.PropertyID)
		if err != nil {
			return nil, err
		}
		if property.OwnerID != actor.ID {
			return nil, forbiddenError("you do not have access to this unit")
		}
	}

	return s.leaseRepo.FindByUnit(ctx, unitID)
}

// AttachDocument stores a document in one of the lease's fixed slots,
// replacing whatever the slot held.
func (s *LeaseService) AttachDocument(ctx context.Context, actor Actor, leaseID uint, doc *models.LeaseDocument) error {
	lease, err := s.leaseRepo.FindByID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("lease")
		}
		return err
	}

	if !actor.IsAdmin() && lease.OwnerID != actor.ID {
		return forbiddenError("only the property owner or an admin can attach documents")
	}

	if !models.ValidDocumentKind(doc.Kind) {
		return validationError("unknown document kind %q", doc.Kind)
	}

	doc.LeaseID = lease.ID
	doc.UploadedAt = time.Now()
	return s.leaseRepo.UpsertDocument(ctx, doc)
}

// ExpireLeases rolls active leases whose end date has passed to expired and
// frees their units. Runs daily from the scheduler. Returns how many leases
// expired.
func (s *LeaseService) ExpireLeases(ctx context.Context) (int, error) {
	today := time.Now().UTC().Format("2006-01-02")
	leases, err := s.leaseRepo.FindActiveEndedBefore(ctx, today)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range leases {
		lease := &leases[i]

		machine := statemachine.NewLeaseFSM(lease)
		if err := machine.Expire(ctx); err != nil {
			logger.Warn("skipping lease expiry", "lease_id", lease.ID, "error", err)
			continue
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.leaseRepo.WithTx(tx).Update(ctx, lease); err != nil {
				return err
			}
			if _, err := s.unitRepo.WithTx(tx).Vacate(ctx, lease.UnitID); err != nil {
				return err
			}
			_, err := s.paymentRepo.WithTx(tx).DeletePendingByUnit(ctx, lease.UnitID)
			return err
		})
		if err != nil {
			logger.Error("failed to expire lease", "lease_id", lease.ID, "error", err)
			continue
		}

		expired++
		s.notificationService.NotifyUser(ctx, lease.TenantID,
			"Lease expired",
			fmt.Sprintf("Your lease %s has reached its end date", lease.AgreementNumber),
			models.NotificationTypeLeaseExpired)
	}

	if expired > 0 {
		logger.Info("lease expiry sweep complete", "expired", expired)
	}
	return expired, nil
}
