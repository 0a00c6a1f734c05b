package history

import "time"

// Run is one fired action.
type Run struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Location  string    `json:"location"`
	Path      string    `json:"path"`
	Command   string    `json:"command"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	ExitCode  int       `json:"exit_code"`
	Duration  int64     `json:"duration"` // milliseconds
	Stdout    string    `json:"stdout,omitempty"`
	Stderr    string    `json:"stderr,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// LogEntry is a daemon event.
type LogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component"`
	Location  string    `json:"location,omitempty"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
}
