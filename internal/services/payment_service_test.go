package services

import (
	"context"
	"testing"
	"time"

	"github.com/rvaldez/rentora-api/internal/config"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentServiceForTest(paymentRepo *mockPaymentRepository, invoiceRepo *mockInvoiceRepository, notifRepo *mockNotificationRepository) *PaymentService {
	notifSvc := NewNotificationService(notifRepo, &mockUserRepository{})
	emailSvc := NewEmailService(&config.Config{})
	return NewPaymentService(paymentRepo, invoiceRepo, &mockUserRepository{}, emailSvc, notifSvc)
}

func TestConfirmPayment_SettlesLinkedInvoice(t *testing.T) {
	invoiceID := uint(44)
	var savedPayment *models.Payment
	var settledInvoice *models.Invoice

	paymentRepo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return &models.Payment{
				ID:         id,
				TenantID:   7,
				Amount:     1500,
				Status:     models.PaymentStatusPending,
				MonthLabel: "July 2025",
				InvoiceID:  &invoiceID,
			}, nil
		},
		mockUpdate: func(ctx context.Context, payment *models.Payment) error {
			savedPayment = payment
			return nil
		},
	}
	invoiceRepo := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Status: models.InvoiceStatusPending}, nil
		},
		mockUpdate: func(ctx context.Context, invoice *models.Invoice) error {
			settledInvoice = invoice
			return nil
		},
	}
	notifRepo := &mockNotificationRepository{}
	svc := newPaymentServiceForTest(paymentRepo, invoiceRepo, notifRepo)

	payment, err := svc.ConfirmPayment(context.Background(), Actor{ID: 7, Role: "tenant"}, 10, models.PaymentMethodBank, nil)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusSucceeded, payment.Status)
	assert.Equal(t, models.PaymentMethodBank, payment.Method)
	require.NotNil(t, savedPayment)
	assert.NotNil(t, savedPayment.PaidDate)

	require.NotNil(t, settledInvoice)
	assert.Equal(t, models.InvoiceStatusPaid, settledInvoice.Status)
	require.NotNil(t, settledInvoice.PaymentID)
	assert.Equal(t, payment.ID, *settledInvoice.PaymentID)

	assert.Len(t, notifRepo.created, 1)
}

func TestConfirmPayment_TenantCannotPayOthers(t *testing.T) {
	paymentRepo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return &models.Payment{ID: id, TenantID: 7, Status: models.PaymentStatusPending}, nil
		},
	}
	svc := newPaymentServiceForTest(paymentRepo, &mockInvoiceRepository{}, &mockNotificationRepository{})

	_, err := svc.ConfirmPayment(context.Background(), Actor{ID: 8, Role: "tenant"}, 10, "", nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConfirmPayment_AlreadySucceeded(t *testing.T) {
	paymentRepo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return &models.Payment{ID: id, TenantID: 7, Status: models.PaymentStatusSucceeded}, nil
		},
	}
	svc := newPaymentServiceForTest(paymentRepo, &mockInvoiceRepository{}, &mockNotificationRepository{})

	_, err := svc.ConfirmPayment(context.Background(), Actor{ID: 7, Role: "tenant"}, 10, "", nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCheckOverduePayments_ThrottlesReminders(t *testing.T) {
	recent := time.Now().Add(-2 * time.Hour)
	stale := time.Now().Add(-48 * time.Hour)
	due := time.Now().AddDate(0, 0, -10)

	var stamped []uint
	paymentRepo := &mockPaymentRepository{
		mockFindOverdue: func(ctx context.Context) ([]models.Payment, error) {
			return []models.Payment{
				{ID: 1, TenantID: 7, DueDate: due, Status: models.PaymentStatusPending, ReminderSentAt: nil},
				{ID: 2, TenantID: 8, DueDate: due, Status: models.PaymentStatusPending, ReminderSentAt: &recent},
				{ID: 3, TenantID: 9, DueDate: due, Status: models.PaymentStatusPending, ReminderSentAt: &stale},
			}, nil
		},
		mockUpdate: func(ctx context.Context, payment *models.Payment) error {
			stamped = append(stamped, payment.ID)
			return nil
		},
	}
	notifRepo := &mockNotificationRepository{}
	svc := newPaymentServiceForTest(paymentRepo, &mockInvoiceRepository{}, notifRepo)

	notified, err := svc.CheckOverduePayments(context.Background())
	require.NoError(t, err)

	// Payment 2 was reminded two hours ago and is skipped
	assert.Equal(t, 2, notified)
	assert.Equal(t, []uint{1, 3}, stamped)
	assert.Len(t, notifRepo.created, 2)
}

func TestFailPayment_RecordsReason(t *testing.T) {
	var saved *models.Payment
	paymentRepo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return &models.Payment{ID: id, TenantID: 7, Status: models.PaymentStatusPending}, nil
		},
		mockUpdate: func(ctx context.Context, payment *models.Payment) error {
			saved = payment
			return nil
		},
	}
	svc := newPaymentServiceForTest(paymentRepo, &mockInvoiceRepository{}, &mockNotificationRepository{})

	payment, err := svc.FailPayment(context.Background(), Actor{ID: 7, Role: "tenant"}, 10, "card declined")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	require.NotNil(t, saved.FailureReason)
	assert.Equal(t, "card declined", *saved.FailureReason)
}
