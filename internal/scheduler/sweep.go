package scheduler

import (
	"context"
	"time"
)

// Sweeper completes listings whose work date has passed
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// SweepJob runs the listing sweep on a schedule
type SweepJob struct {
	sweeper Sweeper
	timeout time.Duration
}

// NewSweepJob creates a sweep job bounded by timeout per run
func NewSweepJob(sweeper Sweeper, timeout time.Duration) *SweepJob {
	return &SweepJob{sweeper: sweeper, timeout: timeout}
}

func (j *SweepJob) Name() string {
	return "listing_sweep"
}

func (j *SweepJob) Run() error {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	_, err := j.sweeper.Sweep(ctx)
	return err
}
