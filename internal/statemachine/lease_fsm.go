package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/rvaldez/rentora-api/internal/models"
)

// LeaseFSM wraps a lease with its state machine
type LeaseFSM struct {
	lease *models.Lease
	fsm   *fsm.FSM
}

// NewLeaseFSM creates a new lease state machine
func NewLeaseFSM(lease *models.Lease) *LeaseFSM {
	l := &LeaseFSM{
		lease: lease,
	}

	l.fsm = fsm.NewFSM(
		lease.Status,
		fsm.Events{
			// active → terminated (move-out)
			{Name: "terminate", Src: []string{models.LeaseStatusActive}, Dst: models.LeaseStatusTerminated},

			// active → expired (end date passed)
			{Name: "expire", Src: []string{models.LeaseStatusActive}, Dst: models.LeaseStatusExpired},

			// terminated/expired → active (admin reactivation)
			{Name: "reactivate", Src: []string{models.LeaseStatusTerminated, models.LeaseStatusExpired}, Dst: models.LeaseStatusActive},
		},
		fsm.Callbacks{},
	)

	return l
}

// Terminate transitions the lease to terminated state
func (l *LeaseFSM) Terminate(ctx context.Context) error {
	if !l.lease.MayTerminate() {
		return fmt.Errorf("lease cannot be terminated in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "terminate"); err != nil {
		return fmt.Errorf("failed to terminate lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Expire transitions the lease to expired state
func (l *LeaseFSM) Expire(ctx context.Context) error {
	if !l.lease.MayExpire() {
		return fmt.Errorf("lease cannot expire in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "expire"); err != nil {
		return fmt.Errorf("failed to expire lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Reactivate transitions a terminated or expired lease back to active
func (l *LeaseFSM) Reactivate(ctx context.Context) error {
	if !l.lease.MayReactivate() {
		return fmt.Errorf("lease cannot be reactivated in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "reactivate"); err != nil {
		return fmt.Errorf("failed to reactivate lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Current returns the current state
func (l *LeaseFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LeaseFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
