package services

import (
	"context"
	"testing"
	"time"

	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestBuildRentPayments(t *testing.T) {
	svc := NewPaymentScheduleService(nil)

	lease := &models.Lease{
		TenantID:       7,
		PropertyID:     3,
		UnitID:         12,
		MonthlyRent:    1500,
		LeaseStartDate: date(2025, time.January, 15),
		LeaseEndDate:   date(2025, time.March, 20),
	}
	unit := &models.Unit{ID: 12, Name: "2B"}

	payments := svc.BuildRentPayments(lease, unit)
	require.Len(t, payments, 3)

	assert.Equal(t, date(2025, time.January, 1), payments[0].DueDate)
	assert.Equal(t, date(2025, time.February, 1), payments[1].DueDate)
	assert.Equal(t, date(2025, time.March, 1), payments[2].DueDate)

	assert.Equal(t, "January 2025", payments[0].MonthLabel)
	assert.Equal(t, "Rent payment for February 2025", payments[1].Description)

	for _, p := range payments {
		assert.Equal(t, uint(7), p.TenantID)
		assert.Equal(t, uint(12), p.UnitID)
		assert.Equal(t, "2B", p.UnitNumber)
		assert.Equal(t, 1500.0, p.Amount)
		assert.Equal(t, models.PaymentStatusPending, p.Status)
		assert.Equal(t, models.PaymentMethodCard, p.Method)
		assert.Equal(t, models.PaymentTypeRent, p.PaymentType)
	}
}

func TestBuildRentPayments_SingleMonth(t *testing.T) {
	svc := NewPaymentScheduleService(nil)

	lease := &models.Lease{
		MonthlyRent:    900,
		LeaseStartDate: date(2025, time.June, 1),
		LeaseEndDate:   date(2025, time.June, 30),
	}

	payments := svc.BuildRentPayments(lease, &models.Unit{ID: 1, Name: "1A"})
	require.Len(t, payments, 1)
	assert.Equal(t, date(2025, time.June, 1), payments[0].DueDate)
	assert.Equal(t, "June 2025", payments[0].MonthLabel)
}

func TestBuildRentPayments_EndBeforeStart(t *testing.T) {
	svc := NewPaymentScheduleService(nil)

	lease := &models.Lease{
		MonthlyRent:    900,
		LeaseStartDate: date(2025, time.June, 1),
		LeaseEndDate:   date(2025, time.May, 1),
	}

	payments := svc.BuildRentPayments(lease, &models.Unit{ID: 1})
	assert.Empty(t, payments)
}

func TestBuildRentPayments_MonthEndStart(t *testing.T) {
	svc := NewPaymentScheduleService(nil)

	// Starting on the 31st must still produce a row for every calendar
	// month, February included
	lease := &models.Lease{
		MonthlyRent:    1300,
		LeaseStartDate: date(2025, time.January, 31),
		LeaseEndDate:   date(2025, time.December, 31),
	}

	payments := svc.BuildRentPayments(lease, &models.Unit{ID: 1, Name: "1A"})
	require.Len(t, payments, 12)
	assert.Equal(t, "February 2025", payments[1].MonthLabel)
	for i, p := range payments {
		assert.Equal(t, date(2025, time.Month(i+1), 1), p.DueDate)
	}
}

func TestBuildRentPayments_YearBoundary(t *testing.T) {
	svc := NewPaymentScheduleService(nil)

	lease := &models.Lease{
		MonthlyRent:    1200,
		LeaseStartDate: date(2025, time.November, 10),
		LeaseEndDate:   date(2026, time.February, 9),
	}

	payments := svc.BuildRentPayments(lease, &models.Unit{ID: 1, Name: "1A"})
	require.Len(t, payments, 4)
	assert.Equal(t, "November 2025", payments[0].MonthLabel)
	assert.Equal(t, "December 2025", payments[1].MonthLabel)
	assert.Equal(t, "January 2026", payments[2].MonthLabel)
	assert.Equal(t, date(2026, time.February, 1), payments[3].DueDate)
}

func TestRegenerateForLease(t *testing.T) {
	var deletedUnit uint
	var created []models.Payment

	paymentRepo := &mockPaymentRepository{
		mockDeletePendingByUnit: func(ctx context.Context, unitID uint) (int64, error) {
			deletedUnit = unitID
			return 3, nil
		},
		mockCreateBatch: func(ctx context.Context, payments []models.Payment) error {
			created = payments
			return nil
		},
	}
	svc := NewPaymentScheduleService(paymentRepo)

	lease := &models.Lease{
		ID:             5,
		MonthlyRent:    1100,
		LeaseStartDate: date(2025, time.April, 1),
		LeaseEndDate:   date(2025, time.May, 31),
	}

	err := svc.RegenerateForLease(context.Background(), lease, &models.Unit{ID: 9, Name: "3C"})
	require.NoError(t, err)

	assert.Equal(t, uint(9), deletedUnit)
	require.Len(t, created, 2)
	assert.Equal(t, 1100.0, created[0].Amount)
}
