package history

import (
	"github.com/dimasma0305/backontime/internal/log"
)

// LogToDatabase records a daemon event. Failures are reported and otherwise ignored.
func (d *DB) LogToDatabase(level, component, location, message, errorMsg string) {
	if !d.IsEnabled() {
		return
	}

	db := d.GetDB()
	if db == nil {
		return
	}

	query := `
		INSERT INTO daemon_logs (level, component, location, message, error)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := db.Exec(query, level, component, location, message, errorMsg); err != nil {
		log.Warn("Failed to write daemon log to history: %v", err)
	}
}

// RecordRun stores a finished action. Failures are reported and otherwise ignored.
func (d *DB) RecordRun(r Run) {
	if !d.IsEnabled() {
		return
	}

	db := d.GetDB()
	if db == nil {
		return
	}

	query := `
		INSERT INTO runs (started_at, location, path, command, reason, status, exit_code, duration, stdout, stderr, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, r.StartedAt.UTC(), r.Location, r.Path, r.Command, r.Reason, r.Status,
		r.ExitCode, r.Duration, r.Stdout, r.Stderr, r.Error)
	if err != nil {
		log.Warn("Failed to record run of %s in history: %v", r.Location, err)
	}
}
