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

// PaymentService handles rent payment lifecycle and the overdue/reminder
// sweeps
type PaymentService struct {
	paymentRepo         repository.PaymentRepository
	invoiceRepo         repository.InvoiceRepository
	userRepo            repository.UserRepository
	emailService        *EmailService
	notificationService *NotificationService
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	emailService *EmailService,
	notificationService *NotificationService,
) *PaymentService {
	return &PaymentService{
		paymentRepo:         paymentRepo,
		invoiceRepo:         invoiceRepo,
		userRepo:            userRepo,
		emailService:        emailService,
		notificationService: notificationService,
	}
}

// GetPayment loads a payment, scoped to the caller
func (s *PaymentService) GetPayment(ctx context.Context, actor Actor, paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("payment")
		}
		return nil, err
	}

	if actor.IsTenant() && payment.TenantID != actor.ID {
		return nil, forbiddenError("you do not have access to this payment")
	}

	return payment, nil
}

// ListPayments lists payments visible to the caller
func (s *PaymentService) ListPayments(ctx context.Context, actor Actor, query *repository.PaymentQuery) ([]models.Payment, int64, error) {
	query.IsAdmin = actor.IsAdmin() || actor.IsOwner()
	if actor.IsTenant() {
		query.TenantID = actor.ID
	}
	return s.paymentRepo.List(ctx, query)
}

// ConfirmPayment marks a pending payment as succeeded. Tenants can confirm
// their own payments, admins anyone's. When the payment settles an invoice
// the invoice flips to paid.
func (s *PaymentService) ConfirmPayment(ctx context.Context, actor Actor, paymentID uint, method string, intentID *string) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("payment")
		}
		return nil, err
	}

	if actor.IsTenant() && payment.TenantID != actor.ID {
		return nil, forbiddenError("you can only pay your own payments")
	}

	machine := statemachine.NewPaymentFSM(payment)
	if err := machine.Confirm(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, err.Error())
	}

	now := time.Now()
	payment.PaidDate = &now
	payment.FailureReason = nil
	if method != "" {
		payment.Method = method
	}
	if intentID != nil {
		payment.StripePaymentIntentID = intentID
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	if payment.InvoiceID != nil {
		if invoice, err := s.invoiceRepo.FindByID(ctx, *payment.InvoiceID); err == nil {
			invoice.Status = models.InvoiceStatusPaid
			invoice.PaymentID = &payment.ID
			if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
				logger.Error("failed to settle invoice", "invoice_id", invoice.ID, "error", err)
			}
		}
	}

	logger.Info("payment confirmed", "payment_id", payment.ID, "amount", payment.Amount)

	s.notificationService.NotifyUser(ctx, payment.TenantID,
		"Payment received",
		fmt.Sprintf("Your payment of %.2f for %s succeeded", payment.Amount, payment.MonthLabel),
		models.NotificationTypePaymentSucceeded)

	return payment, nil
}

// FailPayment marks a pending payment as failed with a reason
func (s *PaymentService) FailPayment(ctx context.Context, actor Actor, paymentID uint, reason string) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("payment")
		}
		return nil, err
	}

	if actor.IsTenant() && payment.TenantID != actor.ID {
		return nil, forbiddenError("you do not have access to this payment")
	}

	machine := statemachine.NewPaymentFSM(payment)
	if err := machine.Fail(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, err.Error())
	}

	payment.FailureReason = &reason
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to mark payment failed: %w", err)
	}

	s.notificationService.NotifyUser(ctx, payment.TenantID,
		"Payment failed",
		fmt.Sprintf("Your payment of %.2f for %s failed: %s", payment.Amount, payment.MonthLabel, reason),
		models.NotificationTypePaymentFailed)

	return payment, nil
}

// RetryPayment re-opens a failed payment so the tenant can try again
func (s *PaymentService) RetryPayment(ctx context.Context, actor Actor, paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("payment")
		}
		return nil, err
	}

	if actor.IsTenant() && payment.TenantID != actor.ID {
		return nil, forbiddenError("you do not have access to this payment")
	}

	machine := statemachine.NewPaymentFSM(payment)
	if err := machine.Retry(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, err.Error())
	}

	payment.FailureReason = nil
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to retry payment: %w", err)
	}

	return payment, nil
}

// CheckOverduePayments notifies tenants with rent past its due date. Each
// payment is emailed at most once per day. Runs hourly from the scheduler.
func (s *PaymentService) CheckOverduePayments(ctx context.Context) (int, error) {
	payments, err := s.paymentRepo.FindOverdue(ctx)
	if err != nil {
		return 0, err
	}

	notified := 0
	for i := range payments {
		payment := &payments[i]

		if payment.ReminderSentAt != nil && time.Since(*payment.ReminderSentAt) < 24*time.Hour {
			continue
		}

		if err := s.emailService.SendRentOverdue(ctx, &payment.Tenant, payment); err != nil {
			logger.Error("failed to send overdue email", "payment_id", payment.ID, "error", err)
			continue
		}
		s.notificationService.NotifyUser(ctx, payment.TenantID,
			"Rent overdue",
			fmt.Sprintf("Your rent for %s is %d day(s) overdue", payment.MonthLabel, payment.OverdueDays()),
			models.NotificationTypePaymentOverdue)

		now := time.Now()
		payment.ReminderSentAt = &now
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			logger.Error("failed to record reminder", "payment_id", payment.ID, "error", err)
		}
		notified++
	}

	if notified > 0 {
		logger.Info("overdue payment sweep complete", "notified", notified)
	}
	return notified, nil
}

// SendDueReminders emails tenants whose rent is due tomorrow. Runs daily
// from the scheduler.
func (s *PaymentService) SendDueReminders(ctx context.Context) (int, error) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	from := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	payments, err := s.paymentRepo.FindDueBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range payments {
		payment := &payments[i]
		if err := s.emailService.SendRentReminder(ctx, &payment.Tenant, payment); err != nil {
			logger.Error("failed to send rent reminder", "payment_id", payment.ID, "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		logger.Info("rent reminder sweep complete", "sent", sent)
	}
	return sent, nil
}
