// Package scheduler runs a wallpaper cycle step at a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Step advances the wallpaper cycle once. It is invoked repeatedly by
// Runner with the delays configured on the Runner.
type Step func(ctx context.Context) error

// Runner invokes a Step on a fixed schedule until its context is
// cancelled. A failing step is retried after ErrorDelay instead of the
// regular Delay so transient failures recover quickly.
type Runner struct {
	// Delay is the interval between successful steps.
	Delay time.Duration

	// ErrorDelay is the interval before retrying after a failed step.
	ErrorDelay time.Duration

	// Logger receives step failures. Defaults to a null logger.
	Logger hclog.Logger
}

// Run executes step immediately and then on every tick until ctx is
// cancelled. It returns ctx.Err() once cancelled. Step errors are
// logged, not returned.
func (r *Runner) Run(ctx context.Context, step Step) error {
	if step == nil {
		return fmt.Errorf("scheduler: step cannot be nil")
	}
	if r.Delay <= 0 {
		return fmt.Errorf("scheduler: delay must be positive, got %v", r.Delay)
	}

	logger := r.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	errDelay := r.ErrorDelay
	if errDelay <= 0 {
		errDelay = r.Delay
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		wait := r.Delay
		if err := step(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("wallpaper cycle step failed", "error", err, "retry_in", errDelay)
			wait = errDelay
		}

		timer.Reset(wait)
	}
}
