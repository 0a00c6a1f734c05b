package history

import (
	"database/sql"
)

// GetRecentLogs returns the newest daemon events first.
func (d *DB) GetRecentLogs(limit int) ([]LogEntry, error) {
	db, err := d.readable()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, timestamp, level, component, location, message, error
		FROM daemon_logs
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var logs []LogEntry
	for rows.Next() {
		var entry LogEntry
		var location, errorMsg sql.NullString

		err := rows.Scan(
			&entry.ID, &entry.Timestamp, &entry.Level, &entry.Component,
			&location, &entry.Message, &errorMsg,
		)
		if err != nil {
			return nil, err
		}

		entry.Location = location.String
		entry.Error = errorMsg.String
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}

// GetRuns returns the newest runs first, optionally only those of one location.
func (d *DB) GetRuns(location string, limit int) ([]Run, error) {
	db, err := d.readable()
	if err != nil {
		return nil, err
	}

	var query string
	var args []interface{}

	if location != "" {
		query = `
			SELECT id, started_at, location, path, command, reason, status, exit_code, duration, stdout, stderr, error
			FROM runs
			WHERE location = ?
			ORDER BY id DESC
			LIMIT ?
		`
		args = []interface{}{location, limit}
	} else {
		query = `
			SELECT id, started_at, location, path, command, reason, status, exit_code, duration, stdout, stderr, error
			FROM runs
			ORDER BY id DESC
			LIMIT ?
		`
		args = []interface{}{limit}
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var runs []Run
	for rows.Next() {
		var r Run
		var reason, stdout, stderr, errorMsg sql.NullString
		var exitCode, duration sql.NullInt64

		err := rows.Scan(
			&r.ID, &r.StartedAt, &r.Location, &r.Path, &r.Command, &reason,
			&r.Status, &exitCode, &duration, &stdout, &stderr, &errorMsg,
		)
		if err != nil {
			return nil, err
		}

		r.Reason = reason.String
		r.ExitCode = int(exitCode.Int64)
		r.Duration = duration.Int64
		r.Stdout = stdout.String
		r.Stderr = stderr.String
		r.Error = errorMsg.String
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
