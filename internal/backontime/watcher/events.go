package watcher

import (
	"sort"
	"time"
)

// Kind is a normalised filesystem event.
type Kind int

const (
	// NoticeWrite and NoticeRemove are pre-signals sent as soon as a burst starts.
	NoticeWrite Kind = iota
	NoticeRemove
	Create
	Write
	Chmod
	Remove
	Rename
)

func (k Kind) String() string {
	switch k {
	case NoticeWrite:
		return "notice-write"
	case NoticeRemove:
		return "notice-remove"
	case Create:
		return "create"
	case Write:
		return "write"
	case Chmod:
		return "chmod"
	case Remove:
		return "remove"
	case Rename:
		return "rename"
	default:
		return "unknown"
	}
}

// strength orders coalesced kinds; the strongest kind seen in a window wins.
func (k Kind) strength() int {
	switch k {
	case Remove:
		return 4
	case Create:
		return 3
	case Write:
		return 2
	case Chmod:
		return 1
	default:
		return 0
	}
}

// Event is a normalised change against a single path.
type Event struct {
	Kind Kind
	Path string
}

type pendingEvent struct {
	kind    Kind
	first   time.Time
	noticed bool
}

// Debouncer coalesces events per path. The window opens on the first event for a
// path and closes window later, at which point a single event carrying the strongest
// kind seen is released. It is not safe for concurrent use.
type Debouncer struct {
	window  time.Duration
	pending map[string]*pendingEvent
}

// NewDebouncer returns a Debouncer with the given window. A window <= 0 disables
// coalescing: every event is released immediately.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]*pendingEvent),
	}
}

// Add records an event and returns whatever must be emitted right away: the notice
// for the first write or remove of a burst, or the event itself when coalescing is off.
func (d *Debouncer) Add(kind Kind, path string, now time.Time) []Event {
	if d.window <= 0 {
		return []Event{{Kind: kind, Path: path}}
	}

	p, ok := d.pending[path]
	if !ok {
		p = &pendingEvent{kind: kind, first: now}
		d.pending[path] = p
	} else if kind.strength() > p.kind.strength() {
		p.kind = kind
	}

	if p.noticed {
		return nil
	}
	switch kind {
	case Write:
		p.noticed = true
		return []Event{{Kind: NoticeWrite, Path: path}}
	case Remove:
		p.noticed = true
		return []Event{{Kind: NoticeRemove, Path: path}}
	}
	return nil
}

// Flush releases every path whose window has closed by now, ordered by path.
func (d *Debouncer) Flush(now time.Time) []Event {
	var out []Event
	for path, p := range d.pending {
		if now.Sub(p.first) < d.window {
			continue
		}
		out = append(out, Event{Kind: p.kind, Path: path})
		delete(d.pending, path)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len returns the number of paths waiting for their window to close.
func (d *Debouncer) Len() int {
	return len(d.pending)
}
