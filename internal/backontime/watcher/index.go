package watcher

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dimasma0305/backontime/internal/backontime/location"
)

type indexEntry struct {
	path      string
	handle    location.Handle
	recursive bool
}

// Moved describes one index entry relocated by a rename.
type Moved struct {
	Handle location.Handle
	From   string
	To     string
}

// Index maps paths to the location that owns them. Entries are kept sorted by path
// length descending, then lexically, so the first match is the longest one.
// It is owned by a single goroutine and not safe for concurrent use.
type Index struct {
	entries []indexEntry
}

// NewIndex builds an index from the current paths of the registry's locations.
func NewIndex(reg *location.Registry) *Index {
	ix := &Index{}
	for _, l := range reg.All() {
		ix.Insert(l.Path(), l.Handle(), l.Recursive())
	}
	return ix
}

// Insert adds or replaces the entry for path.
func (ix *Index) Insert(path string, h location.Handle, recursive bool) {
	path = filepath.Clean(path)
	for i := range ix.entries {
		if ix.entries[i].path == path {
			ix.entries[i] = indexEntry{path: path, handle: h, recursive: recursive}
			return
		}
	}
	ix.entries = append(ix.entries, indexEntry{path: path, handle: h, recursive: recursive})
	ix.sort()
}

func (ix *Index) sort() {
	sort.SliceStable(ix.entries, func(i, j int) bool {
		a, b := ix.entries[i].path, ix.entries[j].path
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
}

// Match returns the location owning path. Recursive entries own the path itself and
// every descendant; non-recursive entries own the path itself and direct children.
func (ix *Index) Match(path string) (location.Handle, bool) {
	path = filepath.Clean(path)
	for _, e := range ix.entries {
		if e.matches(path) {
			return e.handle, true
		}
	}
	return 0, false
}

func (e indexEntry) matches(path string) bool {
	if path == e.path {
		return true
	}
	if e.recursive {
		return isBeneath(path, e.path)
	}
	return filepath.Dir(path) == e.path
}

// Rename moves every entry at or beneath oldPath to the same place under newPath.
func (ix *Index) Rename(oldPath, newPath string) []Moved {
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)

	var moved []Moved
	for i := range ix.entries {
		e := &ix.entries[i]
		if e.path != oldPath && !isBeneath(e.path, oldPath) {
			continue
		}
		to := newPath + strings.TrimPrefix(e.path, oldPath)
		moved = append(moved, Moved{Handle: e.handle, From: e.path, To: to})
		e.path = to
	}
	if len(moved) > 0 {
		ix.sort()
	}
	return moved
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Paths returns the indexed paths in match order.
func (ix *Index) Paths() []string {
	out := make([]string, len(ix.entries))
	for i, e := range ix.entries {
		out[i] = e.path
	}
	return out
}

func isBeneath(path, dir string) bool {
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
