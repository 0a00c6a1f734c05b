package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dimasma0305/backontime/internal/log"
)

// EnsureDirectoriesExist ensures that the directories for the given file paths exist
func EnsureDirectoriesExist(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WritePIDFile writes pid to pidFile, creating its directory.
func WritePIDFile(pidFile string, pid int) error {
	if err := EnsureDirectoriesExist(pidFile); err != nil {
		return err
	}
	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", pid)), 0600); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	log.DebugH2("PID file written: %s", pidFile)
	return nil
}

// ReadPIDFromFile reads a PID integer from the given pid file.
// Returns os.ErrNotExist if the file does not exist, or a formatted error for invalid/empty PID content.
func ReadPIDFromFile(pidFile string) (int, error) {
	//nolint:gosec // G304: PID file path comes from the configuration
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	if pidStr == "" {
		return 0, fmt.Errorf("PID file is empty")
	}
	var pid int
	if _, err := fmt.Sscanf(pidStr, "%d", &pid); err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID in file: %d", pid)
	}
	return pid, nil
}

// RemovePIDFile deletes pidFile; a missing file is not an error.
func RemovePIDFile(pidFile string) error {
	if err := os.Remove(pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}
