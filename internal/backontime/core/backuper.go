// Package core wires the watcher, the trigger evaluator and the action pipeline
// into the running daemon.
package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/action"
	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/backontime/errors"
	"github.com/dimasma0305/backontime/internal/backontime/history"
	"github.com/dimasma0305/backontime/internal/backontime/location"
	"github.com/dimasma0305/backontime/internal/backontime/notify"
	"github.com/dimasma0305/backontime/internal/backontime/report"
	"github.com/dimasma0305/backontime/internal/backontime/socket"
	"github.com/dimasma0305/backontime/internal/backontime/trigger"
	"github.com/dimasma0305/backontime/internal/backontime/watcher"
	"github.com/dimasma0305/backontime/internal/log"
)

const notifyTimeout = 30 * time.Second

// Backuper owns every component of a running daemon.
type Backuper struct {
	settings *config.Settings
	reg      *location.Registry

	watcher   *watcher.Watcher
	evaluator *trigger.Evaluator
	executor  *action.Executor
	reporter  *report.Reporter
	notifier  notify.Multi
	db        *history.DB
	socket    *socket.Server

	clock     trigger.Clock
	startedAt time.Time
	closeOnce sync.Once
}

// Option customizes a Backuper.
type Option func(*Backuper)

// WithClock replaces the wall clock used for trigger windows.
func WithClock(c trigger.Clock) Option {
	return func(b *Backuper) { b.clock = c }
}

// WithExecutor replaces the command executor.
func WithExecutor(e *action.Executor) Option {
	return func(b *Backuper) { b.executor = e }
}

// WithNotifier adds a notifier on top of the configured ones.
func WithNotifier(n notify.Notifier) Option {
	return func(b *Backuper) { b.notifier = append(b.notifier, n) }
}

// New builds the registry and every component from validated settings. Nothing is
// started until Run.
func New(s *config.Settings, opts ...Option) (*Backuper, error) {
	notifier, err := notify.FromConfig(s.Notify)
	if err != nil {
		return nil, fmt.Errorf("failed to configure notifications: %w", err)
	}

	b := &Backuper{
		settings: s,
		executor: &action.Executor{},
		reporter: report.New(s.Verbosity),
		notifier: notifier,
		db:       history.New(s.HistoryPath, s.HistoryEnabled),
		clock:    trigger.SystemClock{},
	}
	for _, opt := range opts {
		opt(b)
	}

	b.reg = location.NewRegistry(s.Locations, b.clock.Now())

	b.watcher, err = watcher.New(b.reg, s.Debounce, b.db)
	if err != nil {
		return nil, err
	}

	b.evaluator = trigger.New(b.reg, b.fire, trigger.Options{
		Interval: s.Interval,
		Workers:  s.Workers,
		Clock:    b.clock,
	})
	b.socket = socket.NewServer(s.SocketPath, s.SocketEnabled, socket.NewDispatcher(b))

	return b, nil
}

// Registry returns the locations managed by b.
func (b *Backuper) Registry() *location.Registry {
	return b.reg
}

// Run starts watching and evaluating until ctx is cancelled. An empty location
// list is logged as an error and Run returns nil without starting anything.
func (b *Backuper) Run(ctx context.Context) error {
	if b.reg.Len() == 0 {
		log.Error("%v, nothing to do", errors.ErrNoLocations)
		b.Close()
		return nil
	}
	defer b.Close()

	if err := b.db.Init(); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	if err := b.socket.Init(); err != nil {
		return fmt.Errorf("failed to initialize control socket: %w", err)
	}

	b.logRegistrations()
	watched := b.watcher.Subscribe()
	log.Info("Watching %d of %d location(s)", watched, b.reg.Len())

	b.startedAt = time.Now()
	b.db.LogToDatabase("INFO", "core", "", fmt.Sprintf("daemon started with %d location(s)", b.reg.Len()), "")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := b.watcher.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Watcher stopped: %v", err)
			b.db.LogToDatabase("ERROR", "watcher", "", "watcher stopped", err.Error())
		}
	}()
	go func() {
		defer wg.Done()
		_ = b.evaluator.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		b.socket.Run(ctx)
	}()

	<-ctx.Done()
	log.Info("Shutting down, waiting for running actions to finish...")
	wg.Wait()

	b.db.LogToDatabase("INFO", "core", "", "daemon stopped", "")
	log.Info("Stopped")
	return nil
}

// Close releases the watcher, the socket and the history database. It is safe to
// call more than once.
func (b *Backuper) Close() {
	b.closeOnce.Do(func() {
		if err := b.watcher.Close(); err != nil {
			log.Warn("Failed to close watcher: %v", err)
		}
		if err := b.socket.Close(); err != nil {
			log.Warn("Failed to close control socket: %v", err)
		}
		if err := b.db.Close(); err != nil {
			log.Warn("Failed to close history database: %v", err)
		}
	})
}

func (b *Backuper) logRegistrations() {
	for _, l := range b.reg.All() {
		log.Info("Registered %s", l.Name())
		log.InfoH2("path: %s (recursive: %t)", l.Path(), l.Recursive())
		log.InfoH2("triggers: changes %s, timer %s", l.Changes(), l.Timer())
		log.DebugH2("exec: %s", l.Exec())
	}
}

// fire runs one location's action and reports whether its trigger window should
// be settled.
func (b *Backuper) fire(ctx context.Context, l *location.Location, d location.Decision) bool {
	log.Info("[%s] Triggered by %s (changes: %d, elapsed: %s)", l.Name(), d.Reason(), d.Changed, d.Elapsed.Truncate(time.Second))

	res := b.executor.Run(ctx, l)
	b.reporter.Report(res)

	run := history.Run{
		StartedAt: res.StartedAt,
		Location:  res.Location,
		Path:      res.Path,
		Command:   res.Command,
		Reason:    d.Reason(),
		Status:    res.Status(),
		ExitCode:  res.ExitCode,
		Duration:  res.Duration.Milliseconds(),
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
	}
	if res.Err != nil {
		run.Error = res.Err.Error()
	}
	b.db.RecordRun(run)

	if res.Success() {
		return true
	}

	if len(b.notifier) > 0 {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		b.notifier.Notify(nctx, notify.Failure{
			Location:  res.Location,
			Path:      res.Path,
			Command:   res.Command,
			Reason:    d.Reason(),
			ExitCode:  res.ExitCode,
			Error:     run.Error,
			Stdout:    res.Stdout,
			Stderr:    res.Stderr,
			StartedAt: res.StartedAt,
			Duration:  res.Duration,
		})
	}
	return b.settings.ResetOnFailure
}
