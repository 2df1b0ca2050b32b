package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/rvaldez/rentora-api/pkg/logger"
)

// PaymentScheduleService generates the monthly rent payment schedule for a
// lease
type PaymentScheduleService struct {
	paymentRepo repository.PaymentRepository
}

func NewPaymentScheduleService(paymentRepo repository.PaymentRepository) *PaymentScheduleService {
	return &PaymentScheduleService{paymentRepo: paymentRepo}
}

// BuildRentPayments computes the pending rent payments for a lease, one per
// calendar month the lease touches. Each payment is due on the first of its
// month (UTC). A lease ending before it starts yields no payments.
func (s *PaymentScheduleService) BuildRentPayments(lease *models.Lease, unit *models.Unit) []models.Payment {
	var payments []models.Payment

	start := lease.LeaseStartDate.UTC()
	end := lease.LeaseEndDate.UTC()
	if end.Before(start) {
		return nil
	}

	// Walk first-of-month cursors; stepping the raw start date would skip
	// short months when the lease starts on the 29th or later.
	dueDate := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !dueDate.After(lastMonth) {
		monthLabel := dueDate.Format("January 2006")

		payments = append(payments, models.Payment{
			TenantID:    lease.TenantID,
			PropertyID:  lease.PropertyID,
			UnitID:      unit.ID,
			UnitNumber:  unit.Name,
			Amount:      lease.MonthlyRent,
			Method:      models.PaymentMethodCard,
			Status:      models.PaymentStatusPending,
			PaymentType: models.PaymentTypeRent,
			MonthLabel:  monthLabel,
			DueDate:     dueDate,
			Description: fmt.Sprintf("Rent payment for %s", monthLabel),
		})

		dueDate = dueDate.AddDate(0, 1, 0)
	}

	return payments
}

// RegenerateForLease replaces the pending schedule after a lease date or
// rent change. Succeeded payments are never touched.
func (s *PaymentScheduleService) RegenerateForLease(ctx context.Context, lease *models.Lease, unit *models.Unit) error {
	deleted, err := s.paymentRepo.DeletePendingByUnit(ctx, unit.ID)
	if err != nil {
		return fmt.Errorf("failed to clear pending payments: %w", err)
	}

	payments := s.BuildRentPayments(lease, unit)
	if err := s.paymentRepo.CreateBatch(ctx, payments); err != nil {
		return fmt.Errorf("failed to create payment schedule: %w", err)
	}

	logger.Info("regenerated payment schedule",
		"lease_id", lease.ID,
		"unit_id", unit.ID,
		"deleted", deleted,
		"created", len(payments),
	)

	return nil
}
