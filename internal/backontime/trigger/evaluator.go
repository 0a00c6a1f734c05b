// Package trigger decides, on a fixed cadence, which locations are due for their action.
package trigger

import (
	"context"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/location"
	"github.com/dimasma0305/backontime/internal/log"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FireFunc runs the action for a due location and reports whether its trigger
// window should be reset.
type FireFunc func(ctx context.Context, l *location.Location, d location.Decision) (reset bool)

// Options configures an Evaluator.
type Options struct {
	Interval time.Duration
	Workers  int
	Clock    Clock
}

// Evaluator scans the registry every Interval and fires due locations. With one
// worker the action runs inline and the scan waits for it; with more, actions run
// on a bounded pool and a location that is still running is skipped.
type Evaluator struct {
	reg      *location.Registry
	fire     FireFunc
	interval time.Duration
	workers  int
	clock    Clock
	pool     *WorkerPool
}

// New creates an evaluator. Zero options fall back to a one-minute interval, a
// single worker and the system clock.
func New(reg *location.Registry, fire FireFunc, opts Options) *Evaluator {
	e := &Evaluator{
		reg:      reg,
		fire:     fire,
		interval: opts.Interval,
		workers:  opts.Workers,
		clock:    opts.Clock,
	}
	if e.interval <= 0 {
		e.interval = time.Minute
	}
	if e.workers <= 0 {
		e.workers = 1
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	return e
}

// Run evaluates once straight away, then every interval until ctx is cancelled. In
// pool mode it waits for in-flight actions before returning.
func (e *Evaluator) Run(ctx context.Context) error {
	if e.workers > 1 {
		e.pool = NewWorkerPool(ctx, e.workers)
		e.pool.Start()
		defer func() {
			e.pool.Stop()
			e.pool = nil
		}()
	}

	log.DebugH2("Evaluating locations every %s with %d worker(s)", e.interval, e.workers)

	e.Tick(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// Tick runs one evaluation pass in registry order and returns how many locations
// fired (or were queued, in pool mode).
func (e *Evaluator) Tick(ctx context.Context) int {
	fired := 0
	for _, l := range e.reg.All() {
		if ctx.Err() != nil {
			break
		}

		d, owned := l.Begin(e.clock.Now())
		log.Trace("[%s] changed=%d elapsed=%s fire=%t", l.Name(), d.Changed, d.Elapsed.Truncate(time.Second), d.Fire)
		if !owned {
			if d.Fire {
				log.Debug("[%s] Still running, skipping this pass", l.Name())
			}
			continue
		}

		fired++
		if e.pool == nil {
			e.run(ctx, l, d)
			continue
		}
		if !e.pool.Submit(func(ctx context.Context) { e.run(ctx, l, d) }) {
			l.Finish(e.clock.Now(), false)
		}
	}
	return fired
}

func (e *Evaluator) run(ctx context.Context, l *location.Location, d location.Decision) {
	if ctx.Err() != nil {
		l.Finish(e.clock.Now(), false)
		return
	}
	reset := e.fire(ctx, l, d)
	l.Finish(e.clock.Now(), reset)
}
