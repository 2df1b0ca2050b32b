package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/rvaldez/rentora-api/internal/models"
)

// PaymentFSM wraps a payment with its state machine
type PaymentFSM struct {
	payment *models.Payment
	fsm     *fsm.FSM
}

// NewPaymentFSM creates a new payment state machine
func NewPaymentFSM(payment *models.Payment) *PaymentFSM {
	p := &PaymentFSM{
		payment: payment,
	}

	p.fsm = fsm.NewFSM(
		payment.Status,
		fsm.Events{
			// pending → succeeded (external payment confirmation)
			{Name: "confirm", Src: []string{models.PaymentStatusPending}, Dst: models.PaymentStatusSucceeded},

			// pending → failed
			{Name: "fail", Src: []string{models.PaymentStatusPending}, Dst: models.PaymentStatusFailed},

			// failed → pending (retry)
			{Name: "retry", Src: []string{models.PaymentStatusFailed}, Dst: models.PaymentStatusPending},
		},
		fsm.Callbacks{},
	)

	return p
}

// Confirm transitions the payment to succeeded state
func (p *PaymentFSM) Confirm(ctx context.Context) error {
	if !p.payment.MayConfirm() {
		return fmt.Errorf("payment cannot be confirmed in current state: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "confirm"); err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Fail transitions the payment to failed state
func (p *PaymentFSM) Fail(ctx context.Context) error {
	if !p.payment.MayFail() {
		return fmt.Errorf("payment cannot be failed in current state: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "fail"); err != nil {
		return fmt.Errorf("failed to fail payment: %w", err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Retry transitions a failed payment back to pending
func (p *PaymentFSM) Retry(ctx context.Context) error {
	if !p.payment.MayRetry() {
		return fmt.Errorf("payment cannot be retried in current state: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "retry"); err != nil {
		return fmt.Errorf("failed to retry payment: %w", err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *PaymentFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PaymentFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
