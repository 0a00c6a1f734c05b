package watcher

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dimasma0305/backontime/internal/backontime/location"
)

func TestIndex_LongestPrefixWins(t *testing.T) {
	ix := &Index{}
	ix.Insert("/srv", 0, true)
	ix.Insert("/srv/www", 1, true)
	ix.Insert("/etc", 2, false)

	tests := []struct {
		path string
		want location.Handle
		ok   bool
	}{
		{"/srv", 0, true},
		{"/srv/db/data.sql", 0, true},
		{"/srv/www", 1, true},
		{"/srv/www/index.html", 1, true},
		{"/srv/www/static/app.js", 1, true},
		{"/srv/wwwroot/x", 0, true},
		{"/etc/hosts", 2, true},
		{"/etc/ssh/sshd_config", 0, false},
		{"/var/log/syslog", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ix.Match(tt.path)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("Match(%q) = (%d, %v), want (%d, %v)", tt.path, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIndex_OrderIsDeterministic(t *testing.T) {
	ix := &Index{}
	ix.Insert("/b", 0, true)
	ix.Insert("/a/long", 1, true)
	ix.Insert("/a", 2, true)

	want := []string{"/a/long", "/a", "/b"}
	if diff := cmp.Diff(want, ix.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}
}

func TestIndex_InsertReplaces(t *testing.T) {
	ix := &Index{}
	ix.Insert("/data/", 0, true)
	ix.Insert("/data", 3, false)

	if ix.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ix.Len())
	}
	if h, _ := ix.Match("/data"); h != 3 {
		t.Errorf("Match() = %d, want 3", h)
	}
}

func TestIndex_RenameMovesNestedEntries(t *testing.T) {
	ix := &Index{}
	ix.Insert("/home/u/docs", 0, true)
	ix.Insert("/home/u/docs/taxes", 1, true)
	ix.Insert("/home/u/docsx", 2, true)

	moved := ix.Rename("/home/u/docs", "/home/u/papers")

	want := []Moved{
		{Handle: 0, From: "/home/u/docs", To: "/home/u/papers"},
		{Handle: 1, From: "/home/u/docs/taxes", To: "/home/u/papers/taxes"},
	}
	opts := cmp.Transformer("sort", func(in []Moved) map[location.Handle]Moved {
		out := make(map[location.Handle]Moved, len(in))
		for _, m := range in {
			out[m.Handle] = m
		}
		return out
	})
	if diff := cmp.Diff(want, moved, opts); diff != "" {
		t.Errorf("Rename() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := ix.Match("/home/u/docs/a.txt"); ok {
		t.Error("old path should no longer match")
	}
	if h, _ := ix.Match("/home/u/papers/taxes/2024.pdf"); h != 1 {
		t.Errorf("Match() = %d, want 1", h)
	}
	if h, _ := ix.Match("/home/u/docsx/a"); h != 2 {
		t.Errorf("sibling with shared prefix moved: Match() = %d, want 2", h)
	}
}

func TestIndex_FromRegistry(t *testing.T) {
	reg := location.NewRegistry([]location.Descriptor{
		{Name: "a", Path: "/a", Recursive: true, Changes: location.Limit(1), Exec: "true"},
		{Name: "b", Path: "/a/b", Recursive: false, Changes: location.Limit(1), Exec: "true"},
	}, time.Now())

	ix := NewIndex(reg)
	if h, _ := ix.Match("/a/b/c"); h != 1 {
		t.Errorf("Match(/a/b/c) = %d, want 1", h)
	}
	if h, _ := ix.Match("/a/b/c/d"); h != 0 {
		t.Errorf("Match(/a/b/c/d) = %d, want 0", h)
	}
}
