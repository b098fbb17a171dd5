// Package loop drives a dashboard at a fixed frame rate. It is the only
// place that sleeps between frames.
package loop

import (
	"context"
	"time"

	"hive-map.klederson.com/internal/config"
)

// Plan describes one invocation of the refresh loop.
type Plan struct {
	Rate   int           // frames per second
	Live   bool          // false renders a single frame
	Window time.Duration // how long a live invocation lasts
}

// NewPlan clamps rate to the selector bounds and uses the default live window.
func NewPlan(rate int, live bool) Plan {
	return Plan{Rate: config.ClampRate(rate), Live: live, Window: config.LiveWindow}
}

// Frames is rate × window in live mode and exactly one otherwise.
func (p Plan) Frames() int {
	if !p.Live {
		return 1
	}
	return max(1, int(float64(p.Rate)*p.Window.Seconds()))
}

// Interval is the delay between frames.
func (p Plan) Interval() time.Duration {
	return time.Second / time.Duration(config.ClampRate(p.Rate))
}

// Step renders frame i of an invocation.
type Step func(ctx context.Context, i int) error

// sleep is replaced in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run calls step Frames() times with Interval() between calls. It stops early
// when step fails or ctx is cancelled, and returns the number of frames
// rendered.
func Run(ctx context.Context, p Plan, step Step) (int, error) {
	n := p.Frames()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := step(ctx, i); err != nil {
			return i, err
		}
		if i == n-1 {
			break
		}
		if err := sleep(ctx, p.Interval()); err != nil {
			return i + 1, err
		}
	}
	return n, nil
}
