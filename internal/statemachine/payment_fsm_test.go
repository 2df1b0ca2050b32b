package statemachine

import (
	"context"
	"testing"

	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentFSM_ConfirmAndFail(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPending}
	machine := NewPaymentFSM(payment)

	require.NoError(t, machine.Confirm(context.Background()))
	assert.Equal(t, models.PaymentStatusSucceeded, payment.Status)

	// A succeeded payment can neither fail nor be confirmed again
	assert.Error(t, machine.Fail(context.Background()))
	assert.Error(t, machine.Confirm(context.Background()))
	assert.Equal(t, models.PaymentStatusSucceeded, payment.Status)
}

func TestPaymentFSM_FailThenRetry(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPending}
	machine := NewPaymentFSM(payment)

	require.NoError(t, machine.Fail(context.Background()))
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)

	require.NoError(t, machine.Retry(context.Background()))
	assert.Equal(t, models.PaymentStatusPending, payment.Status)

	// And the retried payment can succeed
	machine = NewPaymentFSM(payment)
	require.NoError(t, machine.Confirm(context.Background()))
	assert.Equal(t, models.PaymentStatusSucceeded, payment.Status)
}

func TestPaymentFSM_RetryPendingRejected(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPending}
	machine := NewPaymentFSM(payment)

	assert.Error(t, machine.Retry(context.Background()))
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}
