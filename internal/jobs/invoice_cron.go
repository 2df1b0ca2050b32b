package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rvaldez/rentora-api/pkg/logger"
)

// InvoiceCron runs a job on a cron expression, in UTC, skipping ticks that
// fire while the previous run is still going. Overlapping runs of the
// invoice generator would race its scan, so they are suppressed rather
// than queued.
type InvoiceCron struct {
	cron *cron.Cron
	job  Job
}

// NewInvoiceCron builds the scheduler for the given cron expression. It
// does not start ticking until Start is called.
func NewInvoiceCron(schedule string, job Job) (*InvoiceCron, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	ic := &InvoiceCron{cron: c, job: job}

	if _, err := c.AddFunc(schedule, ic.run); err != nil {
		return nil, fmt.Errorf("invalid invoice cron schedule %q: %w", schedule, err)
	}

	return ic, nil
}

func (ic *InvoiceCron) run() {
	start := time.Now()
	logger.Info("[InvoiceCron] Generating invoices...")

	if err := ic.job(context.Background()); err != nil {
		logger.Error("[InvoiceCron] Generation failed", "error", err)
		return
	}

	logger.Info("[InvoiceCron] Generation completed", "elapsed", time.Since(start))
}

// Start begins scheduling ticks
func (ic *InvoiceCron) Start() {
	ic.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish
func (ic *InvoiceCron) Stop() {
	<-ic.cron.Stop().Done()
}
