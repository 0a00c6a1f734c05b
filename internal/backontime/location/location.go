// Package location holds the watched locations and their per-location trigger state.
package location

import (
	"sync"
	"time"
)

// Descriptor is a validated location as produced by the configuration loader.
type Descriptor struct {
	Name      string
	Path      string
	Recursive bool
	Changes   Threshold
	Timer     Threshold // minutes
	Exec      string
	Timeout   time.Duration // zero means no timeout
}

// Handle addresses a Location inside its Registry. Handles are stable for the
// lifetime of the registry.
type Handle int

// Location is one watched path and its trigger window. The configuration fields are
// immutable; path and the window counters are guarded by the location's own mutex.
type Location struct {
	handle    Handle
	name      string
	recursive bool
	changes   Threshold
	timer     Threshold
	exec      string
	timeout   time.Duration

	mu            sync.Mutex
	path          string
	changed       uint64
	lastTriggered time.Time
	running       bool
	forced        bool
}

// Decision is the outcome of evaluating a location's trigger conditions.
type Decision struct {
	Fire    bool
	ByTime  bool
	ByCount bool
	Forced  bool
	Changed uint64
	Elapsed time.Duration
}

// Reason describes which condition fired.
func (d Decision) Reason() string {
	switch {
	case d.Forced:
		return "forced"
	case d.ByTime && d.ByCount:
		return "timer+changes"
	case d.ByTime:
		return "timer"
	case d.ByCount:
		return "changes"
	default:
		return "none"
	}
}

// State is a consistent copy of a location, safe to hand to other goroutines.
type State struct {
	Handle         Handle    `json:"handle"`
	Name           string    `json:"name"`
	Path           string    `json:"path"`
	Recursive      bool      `json:"recursive"`
	Exec           string    `json:"exec"`
	TriggerChanges string    `json:"trigger_changes"`
	TriggerTimer   string    `json:"trigger_timer"`
	Changed        uint64    `json:"changed"`
	LastTriggered  time.Time `json:"last_triggered"`
	Running        bool      `json:"running"`
	Forced         bool      `json:"forced"`
}

func newLocation(h Handle, d Descriptor, now time.Time) *Location {
	return &Location{
		handle:        h,
		name:          d.Name,
		recursive:     d.Recursive,
		changes:       d.Changes,
		timer:         d.Timer,
		exec:          d.Exec,
		timeout:       d.Timeout,
		path:          d.Path,
		lastTriggered: now,
	}
}

func (l *Location) Handle() Handle { return l.handle }
func (l *Location) Name() string { return l.name }
func (l *Location) Recursive() bool { return l.recursive }
func (l *Location) Exec() string { return l.exec }
func (l *Location) Timeout() time.Duration { return l.timeout }
func (l *Location) Changes() Threshold { return l.changes }
func (l *Location) Timer() Threshold { return l.timer }

// Path returns the current path, which moves when the location is renamed.
func (l *Location) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// RecordChange counts one change event and returns the new count.
func (l *Location) RecordChange() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changed++
	return l.changed
}

// Relocate moves the location to newPath and returns the previous path.
// The trigger window is left untouched.
func (l *Location) Relocate(newPath string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	old := l.path
	l.path = newPath
	return old
}

// Force makes the next evaluation fire regardless of thresholds.
func (l *Location) Force() {
	l.mu.Lock()
	l.forced = true
	l.mu.Unlock()
}

// Evaluate computes the trigger decision at now without changing any state.
func (l *Location) Evaluate(now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evaluateLocked(now)
}

func (l *Location) evaluateLocked(now time.Time) Decision {
	d := Decision{
		Changed: l.changed,
		Elapsed: now.Sub(l.lastTriggered),
		Forced:  l.forced,
	}
	if minutes, ok := l.timer.Get(); ok {
		d.ByTime = d.Elapsed >= time.Duration(minutes)*time.Minute
	}
	if limit, ok := l.changes.Get(); ok {
		d.ByCount = l.changed >= uint64(limit)
	}
	d.Fire = d.ByTime || d.ByCount || d.Forced
	return d
}

// Begin evaluates the location and, when it is due and not already running, marks
// it running. The returned bool is true only when the caller now owns the run and
// must call Finish.
func (l *Location) Begin(now time.Time) (Decision, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	d := l.evaluateLocked(now)
	if !d.Fire || l.running {
		return d, false
	}
	l.running = true
	l.forced = false
	return d, true
}

// Finish ends a run started by Begin. When reset is true the trigger window is
// settled: changed drops to zero and lastTriggered becomes now, in one step.
func (l *Location) Finish(now time.Time, reset bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
	if reset {
		l.changed = 0
		l.lastTriggered = now
	}
}

// Snapshot returns a consistent copy of the location.
func (l *Location) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{
		Handle:         l.handle,
		Name:           l.name,
		Path:           l.path,
		Recursive:      l.recursive,
		Exec:           l.exec,
		TriggerChanges: l.changes.String(),
		TriggerTimer:   l.timer.String(),
		Changed:        l.changed,
		LastTriggered:  l.lastTriggered,
		Running:        l.running,
		Forced:         l.forced,
	}
}
