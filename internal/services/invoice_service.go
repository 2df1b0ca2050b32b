package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/rvaldez/rentora-api/pkg/logger"
	"gorm.io/gorm"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// InvoiceService generates and serves monthly invoices
type InvoiceService struct {
	invoiceRepo         repository.InvoiceRepository
	propertyRepo        repository.PropertyRepository
	unitRepo            repository.UnitRepository
	notificationService *NotificationService
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	propertyRepo repository.PropertyRepository,
	unitRepo repository.UnitRepository,
	notificationService *NotificationService,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:         invoiceRepo,
		propertyRepo:        propertyRepo,
		unitRepo:            unitRepo,
		notificationService: notificationService,
	}
}

// GenerationResult summarizes one invoice generation run
type GenerationResult struct {
	Period   string `json:"period"`
	Scanned  int    `json:"scanned"`
	Created  int64  `json:"created"`
	Skipped  int64  `json:"skipped"`
	Duration string `json:"duration"`
}

// GenerateForPeriod creates one invoice per occupied unit for the given
// period (YYYY-MM), due on the 5th of that month. Units already invoiced
// for the period are skipped by the unique index, so overlapping or repeated
// runs never double-bill.
func (s *InvoiceService) GenerateForPeriod(ctx context.Context, period string) (*GenerationResult, error) {
	if !periodPattern.MatchString(period) {
		return nil, validationError("period must be formatted YYYY-MM, got %q", period)
	}

	started := time.Now()

	month, err := time.Parse("2006-01", period)
	if err != nil {
		return nil, validationError("invalid period %q", period)
	}
	// Rent is billed with a five-day grace window
	dueDate := time.Date(month.Year(), month.Month(), 5, 0, 0, 0, 0, time.UTC)

	units, err := s.unitRepo.FindOccupied(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan occupied units: %w", err)
	}

	invoices := make([]models.Invoice, 0, len(units))
	for _, unit := range units {
		if unit.TenantID == nil {
			continue
		}
		invoices = append(invoices, models.Invoice{
			PropertyID: unit.PropertyID,
			UnitID:     unit.ID,
			TenantID:   *unit.TenantID,
			Amount:     unit.RentAmount,
			DueDate:    dueDate,
			Period:     period,
			Status:     models.InvoiceStatusPending,
		})
	}

	created, err := s.invoiceRepo.CreateBatchIgnoreDuplicates(ctx, invoices)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invoices: %w", err)
	}

	result := &GenerationResult{
		Period:   period,
		Scanned:  len(units),
		Created:  created,
		Skipped:  int64(len(invoices)) - created,
		Duration: time.Since(started).Round(time.Millisecond).String(),
	}

	logger.Info("invoice generation run complete",
		"period", result.Period,
		"scanned", result.Scanned,
		"created", result.Created,
		"skipped", result.Skipped,
	)

	// Notify tenants only on a run that actually billed; a repeat run that
	// inserted nothing stays silent.
	if created > 0 {
		for _, inv := range invoices {
			s.notificationService.NotifyUser(ctx, inv.TenantID,
				"New invoice",
				fmt.Sprintf("Your rent invoice for %s is ready", period),
				models.NotificationTypeInvoiceCreated)
		}
	}

	return result, nil
}

// GenerateCurrentMonth runs generation for the month the clock is in (UTC).
// This is what the cron schedule invokes.
func (s *InvoiceService) GenerateCurrentMonth(ctx context.Context) (*GenerationResult, error) {
	return s.GenerateForPeriod(ctx, time.Now().UTC().Format("2006-01"))
}

// GetInvoice loads an invoice, scoped to the caller
func (s *InvoiceService) GetInvoice(ctx context.Context, actor Actor, invoiceID uint) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("invoice")
		}
		return nil, err
	}

	if !actor.IsAdmin() && invoice.TenantID != actor.ID {
		if !actor.IsOwner() {
			return nil, forbiddenError("you do not have access to this invoice")
		}
		property, err := s.propertyRepo.FindByID(ctx, invoice.PropertyID)
		if err != nil {
			return nil, err
		}
		if property.OwnerID != actor.ID {
			return nil, forbiddenError("you do not have access to this invoice")
		}
	}

	return invoice, nil
}

// ListInvoices lists invoices visible to the caller
func (s *InvoiceService) ListInvoices(ctx context.Context, actor Actor, query *repository.InvoiceQuery) ([]models.Invoice, int64, error) {
	query.IsAdmin = actor.IsAdmin()
	if actor.IsTenant() {
		query.TenantID = actor.ID
	}
	return s.invoiceRepo.List(ctx, query)
}

// MarkOverdueInvoices flips unpaid invoices past their due date to overdue.
// Runs daily from the scheduler.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context) (int64, error) {
	flipped, err := s.invoiceRepo.MarkOverdue(ctx)
	if err != nil {
		return 0, err
	}
	if flipped > 0 {
		logger.Info("marked invoices overdue", "count", flipped)
	}
	return flipped, nil
}
