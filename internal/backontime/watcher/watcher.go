// Package watcher turns filesystem notifications into per-location change counts.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dimasma0305/backontime/internal/backontime/location"
	"github.com/dimasma0305/backontime/internal/log"
)

const (
	// PairWindow is how long a Rename waits for the Create carrying its new name.
	// Pairing goes by timing only: when a file leaves every watched directory, an
	// unrelated Create inside the window is taken as its new name and the pair
	// counts as one change instead of two.
	PairWindow = 250 * time.Millisecond

	tickInterval = 100 * time.Millisecond
)

// Recorder receives daemon events worth keeping in the run history.
type Recorder interface {
	LogToDatabase(level, component, location, message, errorMsg string)
}

type pendingRename struct {
	path string
	at   time.Time
}

// Watcher owns the fsnotify subscription, the path index and the debouncer.
// Everything except Close runs on the goroutine that calls Run.
type Watcher struct {
	reg      *location.Registry
	index    *Index
	fsw      *fsnotify.Watcher
	debounce *Debouncer
	recorder Recorder
	rename   *pendingRename
	now      func() time.Time
}

// New creates a watcher for every location in reg. Nothing is subscribed until Subscribe.
func New(reg *location.Registry, debounce time.Duration, recorder Recorder) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		reg:      reg,
		index:    NewIndex(reg),
		fsw:      fsw,
		debounce: NewDebouncer(debounce),
		recorder: recorder,
		now:      time.Now,
	}, nil
}

// Subscribe registers every location with fsnotify. A location that cannot be
// watched is reported and skipped; the number of watched locations is returned.
func (w *Watcher) Subscribe() int {
	ok := 0
	for _, l := range w.reg.All() {
		if err := w.subscribe(l.Path(), l.Recursive()); err != nil {
			log.Warn("Failed to watch %s: %v", l.Path(), err)
			w.record("WARN", l.Name(), "failed to watch "+l.Path(), err)
			continue
		}
		log.DebugH2("Watching %s (recursive: %t)", l.Path(), l.Recursive())
		ok++
	}
	return ok
}

func (w *Watcher) subscribe(path string, recursive bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fsw.Add(filepath.Dir(path))
	}
	if !recursive {
		err = w.fsw.Add(path)
	} else {
		err = w.addTree(path)
	}
	if err != nil {
		return err
	}
	w.watchParent(path)
	return nil
}

// watchParent watches the directory holding a location root so that renaming the
// root delivers the Create of its new name. Sibling events there match no location
// and are dropped by the index.
func (w *Watcher) watchParent(root string) {
	parent := filepath.Dir(root)
	if parent == root {
		return
	}
	if err := w.fsw.Add(parent); err != nil {
		log.Debug("Not watching parent %s: %v", parent, err)
	}
}

// addTree watches root and every directory below it. Unreadable subdirectories are
// skipped with a warning; only a failure on root itself is returned.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			log.Warn("Skipping %s: %v", p, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(p); err != nil {
			if p == root {
				return err
			}
			log.Warn("Failed to watch %s: %v", p, err)
		}
		return nil
	})
}

func (w *Watcher) unsubscribe(path string) {
	for _, p := range w.fsw.WatchList() {
		if p == path || isBeneath(p, path) {
			_ = w.fsw.Remove(p)
		}
	}
}

// Run processes notifications until ctx is cancelled. Receive errors are logged and
// the loop carries on.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleRaw(ev, w.now())

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error: %v", err)
			w.record("ERROR", "", "watcher error", err)

		case <-ticker.C:
			w.tick(w.now())
		}
	}
}

// Close releases the fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// handleRaw translates one fsnotify event. Renames are held back until the matching
// Create arrives or PairWindow passes.
func (w *Watcher) handleRaw(ev fsnotify.Event, now time.Time) {
	log.Trace("fsnotify: %s %s", ev.Op, ev.Name)

	if ev.Has(fsnotify.Rename) {
		w.expireRename(now, true)
		w.rename = &pendingRename{path: ev.Name, at: now}
	}
	if ev.Has(fsnotify.Create) {
		if w.rename != nil && now.Sub(w.rename.at) <= PairWindow {
			old := w.rename.path
			w.rename = nil
			w.Rename(old, ev.Name)
		} else {
			w.watchCreated(ev.Name)
			w.emit(w.debounce.Add(Create, ev.Name, now))
		}
	}
	if ev.Has(fsnotify.Write) {
		w.emit(w.debounce.Add(Write, ev.Name, now))
	}
	if ev.Has(fsnotify.Remove) {
		w.emit(w.debounce.Add(Remove, ev.Name, now))
	}
	if ev.Has(fsnotify.Chmod) {
		w.emit(w.debounce.Add(Chmod, ev.Name, now))
	}
}

func (w *Watcher) tick(now time.Time) {
	w.expireRename(now, false)
	w.emit(w.debounce.Flush(now))
}

// expireRename degrades an unpaired rename to a removal of the old path. With force
// the pending rename is dropped whatever its age.
func (w *Watcher) expireRename(now time.Time, force bool) {
	if w.rename == nil {
		return
	}
	if !force && now.Sub(w.rename.at) <= PairWindow {
		return
	}
	old := w.rename.path
	w.rename = nil
	log.Debug("Rename of %s was not paired, treating it as a removal", old)
	w.emit(w.debounce.Add(Remove, old, now))
}

// watchCreated adds watches for a directory created under a recursive location.
func (w *Watcher) watchCreated(path string) {
	h, ok := w.index.Match(path)
	if !ok || !w.reg.Get(h).Recursive() {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		log.Warn("Failed to watch new directory %s: %v", path, err)
	}
}

func (w *Watcher) emit(events []Event) {
	for _, ev := range events {
		w.Apply(ev)
	}
}

// Apply counts one normalised event against the location owning its path.
// Rename events are ignored here; use Rename.
func (w *Watcher) Apply(ev Event) {
	if ev.Kind == Rename {
		return
	}
	h, ok := w.index.Match(ev.Path)
	if !ok {
		log.Trace("No location for %s (%s), dropping", ev.Path, ev.Kind)
		return
	}
	l := w.reg.Get(h)
	n := l.RecordChange()
	log.Debug("[%s] %s %s (changed: %d)", l.Name(), ev.Kind, ev.Path, n)
}

// Rename applies a paired rename immediately. Locations at or beneath oldPath move
// with it, keeping their trigger window, and one change is counted against the
// location owning newPath (or oldPath, when the file left every location).
func (w *Watcher) Rename(oldPath, newPath string) {
	moved := w.index.Rename(oldPath, newPath)
	for _, m := range moved {
		l := w.reg.Get(m.Handle)
		l.Relocate(m.To)
		log.Info("[%s] Location renamed: %s -> %s", l.Name(), m.From, m.To)
		w.record("INFO", l.Name(), fmt.Sprintf("renamed %s -> %s", m.From, m.To), nil)

		w.unsubscribe(m.From)
		if err := w.subscribe(m.To, l.Recursive()); err != nil {
			log.Warn("Failed to watch %s: %v", m.To, err)
			w.record("WARN", l.Name(), "failed to watch "+m.To, err)
		}
	}
	if len(moved) == 0 {
		w.watchCreated(newPath)
	}

	h, ok := w.index.Match(newPath)
	if !ok {
		h, ok = w.index.Match(oldPath)
	}
	if !ok {
		log.Trace("No location for rename %s -> %s, dropping", oldPath, newPath)
		return
	}
	l := w.reg.Get(h)
	n := l.RecordChange()
	log.Debug("[%s] rename %s -> %s (changed: %d)", l.Name(), oldPath, newPath, n)
}

func (w *Watcher) record(level, loc, message string, err error) {
	if w.recorder == nil {
		return
	}
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	w.recorder.LogToDatabase(level, "watcher", loc, message, errMsg)
}
