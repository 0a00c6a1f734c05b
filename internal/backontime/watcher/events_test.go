package watcher

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d := NewDebouncer(time.Minute)
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	got := d.Add(Write, "/data/a", t0)
	if diff := cmp.Diff([]Event{{Kind: NoticeWrite, Path: "/data/a"}}, got); diff != "" {
		t.Errorf("first write mismatch (-want +got):\n%s", diff)
	}
	if got := d.Add(Write, "/data/a", t0.Add(time.Second)); len(got) != 0 {
		t.Errorf("second write emitted %v", got)
	}
	if got := d.Add(Create, "/data/a", t0.Add(2*time.Second)); len(got) != 0 {
		t.Errorf("create emitted %v", got)
	}
	if got := d.Add(Chmod, "/data/a", t0.Add(3*time.Second)); len(got) != 0 {
		t.Errorf("chmod emitted %v", got)
	}

	if got := d.Flush(t0.Add(30 * time.Second)); len(got) != 0 {
		t.Errorf("Flush() before window closed = %v", got)
	}

	got = d.Flush(t0.Add(time.Minute))
	if diff := cmp.Diff([]Event{{Kind: Create, Path: "/data/a"}}, got); diff != "" {
		t.Errorf("Flush() mismatch (-want +got):\n%s", diff)
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d after flush", d.Len())
	}
}

func TestDebouncer_RemoveIsStrongest(t *testing.T) {
	d := NewDebouncer(time.Second)
	t0 := time.Now()

	d.Add(Create, "/x", t0)
	got := d.Add(Remove, "/x", t0)
	if diff := cmp.Diff([]Event{{Kind: NoticeRemove, Path: "/x"}}, got); diff != "" {
		t.Errorf("remove notice mismatch (-want +got):\n%s", diff)
	}
	d.Add(Write, "/x", t0)

	got = d.Flush(t0.Add(time.Second))
	if diff := cmp.Diff([]Event{{Kind: Remove, Path: "/x"}}, got); diff != "" {
		t.Errorf("Flush() mismatch (-want +got):\n%s", diff)
	}
}

func TestDebouncer_PathsAreIndependent(t *testing.T) {
	d := NewDebouncer(10 * time.Second)
	t0 := time.Now()

	d.Add(Chmod, "/b", t0)
	d.Add(Chmod, "/a", t0.Add(time.Second))
	d.Add(Chmod, "/c", t0.Add(5*time.Second))

	got := d.Flush(t0.Add(11 * time.Second))
	want := []Event{{Kind: Chmod, Path: "/a"}, {Kind: Chmod, Path: "/b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flush() mismatch (-want +got):\n%s", diff)
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}

func TestDebouncer_ZeroWindowPassesThrough(t *testing.T) {
	d := NewDebouncer(0)
	got := d.Add(Write, "/a", time.Now())
	if diff := cmp.Diff([]Event{{Kind: Write, Path: "/a"}}, got); diff != "" {
		t.Errorf("Add() mismatch (-want +got):\n%s", diff)
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
}

func TestKindString(t *testing.T) {
	if NoticeWrite.String() != "notice-write" || Rename.String() != "rename" || Kind(42).String() != "unknown" {
		t.Error("unexpected Kind names")
	}
}
