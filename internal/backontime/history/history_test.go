package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dimasma0305/backontime/internal/backontime/errors"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db := New(filepath.Join(t.TempDir(), "nested", "history.db"), true)
	if err := db.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInit_CreatesFile(t *testing.T) {
	db := newTestDB(t)
	if _, err := os.Stat(db.path); err != nil {
		t.Errorf("database file was not created: %v", err)
	}
	if err := db.GetDB().Ping(); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
}

func TestInit_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db := New(path, false)
	if err := db.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled database created a file")
	}

	db.RecordRun(Run{Location: "a"})
	db.LogToDatabase("INFO", "core", "", "ignored", "")
	if _, err := db.GetRuns("", 10); !errors.Is(err, errors.ErrHistoryDisabled) {
		t.Errorf("GetRuns() error = %v, want ErrHistoryDisabled", err)
	}
}

func TestNilDB_IsSafe(t *testing.T) {
	var db *DB
	db.RecordRun(Run{Location: "a"})
	db.LogToDatabase("INFO", "core", "", "ignored", "")
	if db.IsEnabled() {
		t.Error("nil DB reports enabled")
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestRecordRun_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	started := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	runs := []Run{
		{StartedAt: started, Location: "docs", Path: "/docs", Command: "backup docs", Reason: "changes", Status: "success", Duration: 120, Stdout: "ok\n"},
		{StartedAt: started.Add(time.Minute), Location: "db", Path: "/db", Command: "backup db", Reason: "timer", Status: "failed", ExitCode: 3, Duration: 5, Stderr: "disk full\n", Error: "command exited with failure: exit status 3"},
		{StartedAt: started.Add(2 * time.Minute), Location: "docs", Path: "/docs", Command: "backup docs", Reason: "forced", Status: "success"},
	}
	for _, r := range runs {
		db.RecordRun(r)
	}

	got, err := db.GetRuns("", 10)
	if err != nil {
		t.Fatalf("GetRuns() failed: %v", err)
	}
	want := []Run{runs[2], runs[1], runs[0]}
	opts := []cmp.Option{
		cmpopts.IgnoreFields(Run{}, "ID"),
		cmpopts.EquateApproxTime(time.Second),
	}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("GetRuns() mismatch (-want +got):\n%s", diff)
	}

	docs, err := db.GetRuns("docs", 1)
	if err != nil {
		t.Fatalf("GetRuns(docs) failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Reason != "forced" {
		t.Errorf("GetRuns(docs, 1) = %+v", docs)
	}
}

func TestLogToDatabase_RecentFirst(t *testing.T) {
	db := newTestDB(t)

	db.LogToDatabase("INFO", "core", "", "daemon started", "")
	db.LogToDatabase("WARN", "watcher", "photos", "failed to watch /photos", "no such file or directory")
	db.LogToDatabase("INFO", "watcher", "docs", "renamed /a -> /b", "")

	logs, err := db.GetRecentLogs(2)
	if err != nil {
		t.Fatalf("GetRecentLogs() failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(logs))
	}
	if logs[0].Message != "renamed /a -> /b" || logs[1].Location != "photos" || logs[1].Error == "" {
		t.Errorf("GetRecentLogs() = %+v", logs)
	}
	if logs[0].Timestamp.IsZero() {
		t.Error("timestamp not populated")
	}
}
