package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseFSM_Terminate(t *testing.T) {
	lease := &models.Lease{Status: models.LeaseStatusActive}
	machine := NewLeaseFSM(lease)

	require.NoError(t, machine.Terminate(context.Background()))
	assert.Equal(t, models.LeaseStatusTerminated, lease.Status)

	// Terminating twice is rejected
	err := machine.Terminate(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.LeaseStatusTerminated, lease.Status)
}

func TestLeaseFSM_Expire(t *testing.T) {
	lease := &models.Lease{
		Status:       models.LeaseStatusActive,
		LeaseEndDate: time.Now().AddDate(0, 0, -1),
	}
	machine := NewLeaseFSM(lease)

	require.NoError(t, machine.Expire(context.Background()))
	assert.Equal(t, models.LeaseStatusExpired, lease.Status)
}

func TestLeaseFSM_ExpireBeforeEndDate(t *testing.T) {
	lease := &models.Lease{
		Status:       models.LeaseStatusActive,
		LeaseEndDate: time.Now().AddDate(0, 1, 0),
	}
	machine := NewLeaseFSM(lease)

	err := machine.Expire(context.Background())
	assert.Error(t, err, "a lease still inside its term must not expire")
	assert.Equal(t, models.LeaseStatusActive, lease.Status)
}

func TestLeaseFSM_Reactivate(t *testing.T) {
	for _, status := range []string{models.LeaseStatusTerminated, models.LeaseStatusExpired} {
		lease := &models.Lease{Status: status}
		machine := NewLeaseFSM(lease)

		require.NoError(t, machine.Reactivate(context.Background()))
		assert.Equal(t, models.LeaseStatusActive, lease.Status)
	}

	lease := &models.Lease{Status: models.LeaseStatusActive}
	machine := NewLeaseFSM(lease)
	assert.Error(t, machine.Reactivate(context.Background()))
}
