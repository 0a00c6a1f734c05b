// Package daemon manages the background process: pid files, status and logs.
package daemon

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/errors"
	"github.com/dimasma0305/backontime/internal/log"
)

// Daemon states
const (
	StateRunning = "running"
	StateStopped = "stopped"
	StateDead    = "dead"
	StateError   = "error"
)

// Status describes the daemon as seen through its pid file.
type Status struct {
	Running bool   `json:"daemon_running"`
	State   string `json:"status"`
	PID     int    `json:"pid,omitempty"`
	PidFile string `json:"pid_file"`
	LogFile string `json:"log_file,omitempty"`
	Message string `json:"message,omitempty"`
}

// GetStatus inspects pidFile. A stale pid file (process gone) is removed.
func GetStatus(pidFile string) Status {
	st := Status{PidFile: pidFile}

	pid, err := ReadPIDFromFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			st.State = StateStopped
			st.Message = "PID file not found"
		} else {
			st.State = StateError
			st.Message = err.Error()
		}
		return st
	}
	st.PID = pid

	if !processAlive(pid) {
		st.State = StateDead
		if err := RemovePIDFile(pidFile); err != nil {
			st.Message = fmt.Sprintf("Process not running, %v", err)
		} else {
			st.Message = "Process not running (cleaned up stale PID file)"
		}
		return st
	}

	st.Running = true
	st.State = StateRunning
	st.Message = "Daemon is running"
	return st
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

// StopDaemon sends SIGTERM to the daemon, waits up to grace for it to exit and then
// sends SIGKILL.
func StopDaemon(pidFile string, grace time.Duration) error {
	pid, err := ReadPIDFromFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w (PID file not found)", errors.ErrDaemonNotRunning)
		}
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		_ = RemovePIDFile(pidFile)
		return fmt.Errorf("%w: failed to send SIGTERM to process %d: %v", errors.ErrDaemonNotRunning, pid, err)
	}

	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	if processAlive(pid) {
		log.Warn("Process still running, sending SIGKILL...")
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process %d: %w", pid, err)
		}
	}

	if err := RemovePIDFile(pidFile); err != nil {
		return err
	}

	log.Info("backontime daemon stopped")
	return nil
}

// ShowStatus prints st for humans, or as indented JSON to w when jsonOutput is set.
func ShowStatus(w io.Writer, st Status, jsonOutput bool) error {
	if jsonOutput {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	switch st.State {
	case StateRunning:
		log.Info("🟢 Status: RUNNING")
		log.InfoH2("Process ID: %d", st.PID)
		log.InfoH2("PID File: %s", st.PidFile)
		if st.LogFile != "" {
			log.InfoH2("Log File: %s", st.LogFile)
		}
	case StateDead:
		log.Info("🟡 Status: STOPPED (stale PID file)")
		log.InfoH2("%s", st.Message)
	case StateStopped:
		log.Info("⚫ Status: NOT RUNNING")
		log.InfoH2("Start it with: backontime run")
	default:
		log.Info("🔴 Status: ERROR")
		log.InfoH2("%s", st.Message)
	}
	return nil
}
