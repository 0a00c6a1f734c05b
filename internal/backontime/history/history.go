// Package history keeps an SQLite audit trail of fired actions and daemon events.
// It is write-mostly: nothing in it is read back into trigger state.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dimasma0305/backontime/internal/backontime/errors"
	"github.com/dimasma0305/backontime/internal/log"

	// Import pure-Go SQLite driver for database/sql (no CGO required)
	_ "modernc.org/sqlite"
)

// DB wraps the history database. A nil or disabled DB accepts writes and drops them.
type DB struct {
	db      *sql.DB
	mu      sync.RWMutex
	enabled bool
	path    string
}

// New creates a new database instance
func New(dbPath string, enabled bool) *DB {
	return &DB{
		path:    dbPath,
		enabled: enabled,
	}
}

// Init opens the database and creates the tables
func (d *DB) Init() error {
	if !d.enabled {
		log.DebugH2("Run history disabled")
		return nil
	}

	dbPath := d.path
	log.DebugH2("Opening run history: %s", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL for concurrent readers (the CLI) while the daemon writes
	dbPath += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.mu.Lock()
	d.db = db
	d.mu.Unlock()

	if err := d.createTables(); err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

func (d *DB) createTables() error {
	db := d.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	createRunsTable := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at DATETIME NOT NULL,
			location TEXT NOT NULL,
			path TEXT NOT NULL,
			command TEXT NOT NULL,
			reason TEXT,
			status TEXT NOT NULL,
			exit_code INTEGER,
			duration INTEGER,
			stdout TEXT,
			stderr TEXT,
			error TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_runs_location ON runs(location);
		CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	createLogsTable := `
		CREATE TABLE IF NOT EXISTS daemon_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			level TEXT NOT NULL,
			component TEXT NOT NULL,
			location TEXT,
			message TEXT NOT NULL,
			error TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_logs_level ON daemon_logs(level);
		CREATE INDEX IF NOT EXISTS idx_logs_location ON daemon_logs(location);
	`

	if _, err := db.Exec(createRunsTable); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	if _, err := db.Exec(createLogsTable); err != nil {
		return fmt.Errorf("failed to create daemon_logs table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		err := d.db.Close()
		d.db = nil
		return err
	}
	return nil
}

// GetDB returns the underlying connection, or nil before Init.
func (d *DB) GetDB() *sql.DB {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// IsEnabled returns whether the database is enabled
func (d *DB) IsEnabled() bool {
	return d != nil && d.enabled
}

func (d *DB) readable() (*sql.DB, error) {
	if !d.IsEnabled() {
		return nil, errors.ErrHistoryDisabled
	}
	db := d.GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return db, nil
}
