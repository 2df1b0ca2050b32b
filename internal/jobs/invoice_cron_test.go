package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoiceCron_InvalidSchedule(t *testing.T) {
	_, err := NewInvoiceCron("not a schedule", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestNewInvoiceCron_ValidSchedule(t *testing.T) {
	ic, err := NewInvoiceCron("0 0 1 * *", func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	require.NotNil(t, ic)
}

func TestInvoiceCron_RunsJob(t *testing.T) {
	var mu sync.Mutex
	runs := 0

	// cron never fires faster than once per second
	ic, err := NewInvoiceCron("@every 1s", func(ctx context.Context) error {
		mu.Lock()
		runs++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	ic.Start()
	time.Sleep(1500 * time.Millisecond)
	ic.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, runs, 0)
}
