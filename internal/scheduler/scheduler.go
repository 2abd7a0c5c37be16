// Package scheduler runs the daily retention sweep at a configured
// wall-clock instant in a configured timezone.
package scheduler

import (
	"context"
	"time"

	"log/slog"

	"github.com/m3rciful/pickupbot/core/logger"
)

// NextRun returns the next occurrence of hour:minute in loc strictly after
// now. If today's instant has not passed yet it is chosen, otherwise
// tomorrow's; DST shifts are resolved by time.Date in loc.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}

// Daily invokes Job once per day at Hour:Minute in Loc until the context is
// cancelled.
type Daily struct {
	Hour   int
	Minute int
	Loc    *time.Location
	Job    func(ctx context.Context)
}

// Run blocks until ctx is done, firing the job at each scheduled instant.
func (d *Daily) Run(ctx context.Context) {
	loc := d.Loc
	if loc == nil {
		loc = time.UTC
	}
	for {
		next := NextRun(time.Now(), d.Hour, d.Minute, loc)
		logger.Info(ctx, "scheduler", "sweep.scheduled",
			slog.Time("next_run", next),
		)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if d.Job != nil {
			d.Job(ctx)
		}
	}
}
