package services

import (
	"context"
	"testing"
	"time"

	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func newInvoiceServiceForTest(invoiceRepo *mockInvoiceRepository, unitRepo *mockUnitRepository, notifRepo *mockNotificationRepository) *InvoiceService {
	notifSvc := NewNotificationService(notifRepo, &mockUserRepository{})
	return NewInvoiceService(invoiceRepo, &mockPropertyRepository{}, unitRepo, notifSvc)
}

func TestGenerateForPeriod_InvalidPeriod(t *testing.T) {
	svc := newInvoiceServiceForTest(&mockInvoiceRepository{}, &mockUnitRepository{}, &mockNotificationRepository{})

	for _, period := range []string{"2025", "2025-13", "2025-00", "202501", "25-01", "2025-1"} {
		_, err := svc.GenerateForPeriod(context.Background(), period)
		assert.ErrorIs(t, err, ErrValidation, "period %q should be rejected", period)
	}
}

func TestGenerateForPeriod_BillsOccupiedUnits(t *testing.T) {
	unitRepo := &mockUnitRepository{
		mockFindOccupied: func(ctx context.Context) ([]models.Unit, error) {
			return []models.Unit{
				{ID: 1, PropertyID: 10, TenantID: uintPtr(100), RentAmount: 1500},
				{ID: 2, PropertyID: 10, TenantID: uintPtr(101), RentAmount: 1800},
				// Inconsistent row: occupied but no tenant. Skipped, never billed.
				{ID: 3, PropertyID: 11, TenantID: nil, RentAmount: 900},
			}, nil
		},
	}

	var inserted []models.Invoice
	invoiceRepo := &mockInvoiceRepository{
		mockCreateBatchIgnoreDuplicates: func(ctx context.Context, invoices []models.Invoice) (int64, error) {
			inserted = invoices
			return int64(len(invoices)), nil
		},
	}
	notifRepo := &mockNotificationRepository{}
	svc := newInvoiceServiceForTest(invoiceRepo, unitRepo, notifRepo)

	result, err := svc.GenerateForPeriod(context.Background(), "2025-07")
	require.NoError(t, err)

	assert.Equal(t, "2025-07", result.Period)
	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, int64(2), result.Created)
	assert.Equal(t, int64(0), result.Skipped)

	require.Len(t, inserted, 2)
	assert.Equal(t, uint(100), inserted[0].TenantID)
	assert.Equal(t, 1500.0, inserted[0].Amount)
	assert.Equal(t, "2025-07", inserted[0].Period)
	assert.Equal(t, models.InvoiceStatusPending, inserted[0].Status)

	// Invoices fall due on the 5th of the billed month
	for _, inv := range inserted {
		assert.Equal(t, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC), inv.DueDate)
	}

	// One notification per billed tenant
	assert.Len(t, notifRepo.created, 2)
}

func TestGenerateForPeriod_RepeatRunIsIdempotent(t *testing.T) {
	unitRepo := &mockUnitRepository{
		mockFindOccupied: func(ctx context.Context) ([]models.Unit, error) {
			return []models.Unit{
				{ID: 1, PropertyID: 10, TenantID: uintPtr(100), RentAmount: 1500},
				{ID: 2, PropertyID: 10, TenantID: uintPtr(101), RentAmount: 1800},
			}, nil
		},
	}
	// Second run: the unique index rejects every row
	invoiceRepo := &mockInvoiceRepository{
		mockCreateBatchIgnoreDuplicates: func(ctx context.Context, invoices []models.Invoice) (int64, error) {
			return 0, nil
		},
	}
	notifRepo := &mockNotificationRepository{}
	svc := newInvoiceServiceForTest(invoiceRepo, unitRepo, notifRepo)

	result, err := svc.GenerateForPeriod(context.Background(), "2025-07")
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Created)
	assert.Equal(t, int64(2), result.Skipped)

	// A run that billed nothing must not notify anyone
	assert.Empty(t, notifRepo.created)
}

func TestGetInvoice_TenantScoping(t *testing.T) {
	invoiceRepo := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, TenantID: 100, PropertyID: 10}, nil
		},
	}
	svc := newInvoiceServiceForTest(invoiceRepo, &mockUnitRepository{}, &mockNotificationRepository{})

	// Owning tenant sees it
	invoice, err := svc.GetInvoice(context.Background(), Actor{ID: 100, Role: "tenant"}, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(100), invoice.TenantID)

	// A different tenant does not
	_, err = svc.GetInvoice(context.Background(), Actor{ID: 101, Role: "tenant"}, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}
