package location

import (
	"fmt"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/errors"
)

// Registry is the fixed set of locations. It is built once and never grows or
// shrinks; only the per-location state changes afterwards.
type Registry struct {
	locations []*Location
}

// NewRegistry creates one Location per descriptor, in descriptor order. Every
// location starts its trigger window at now.
func NewRegistry(descs []Descriptor, now time.Time) *Registry {
	r := &Registry{locations: make([]*Location, 0, len(descs))}
	for i, d := range descs {
		r.locations = append(r.locations, newLocation(Handle(i), d, now))
	}
	return r
}

// Len returns the number of locations.
func (r *Registry) Len() int {
	return len(r.locations)
}

// Get returns the location for h, or nil if h is out of range.
func (r *Registry) Get(h Handle) *Location {
	if h < 0 || int(h) >= len(r.locations) {
		return nil
	}
	return r.locations[h]
}

// All returns the locations in registry order.
func (r *Registry) All() []*Location {
	out := make([]*Location, len(r.locations))
	copy(out, r.locations)
	return out
}

// Lookup finds a location by name, falling back to its current path.
// With duplicate names the first registered location wins.
func (r *Registry) Lookup(key string) (*Location, error) {
	for _, l := range r.locations {
		if l.Name() == key {
			return l, nil
		}
	}
	for _, l := range r.locations {
		if l.Path() == key {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errors.ErrLocationNotFound, key)
}

// Snapshot returns a copy of every location's state.
func (r *Registry) Snapshot() []State {
	states := make([]State, 0, len(r.locations))
	for _, l := range r.locations {
		states = append(states, l.Snapshot())
	}
	return states
}
