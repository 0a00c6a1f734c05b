//nolint:revive // Handler methods follow interface patterns with some unused parameters
package core

import (
	"fmt"
	"os"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/socket"
	"github.com/dimasma0305/backontime/internal/log"
)

const (
	defaultRunLimit = 20
	defaultLogLimit = 100
)

func (b *Backuper) HandleStatus(cmd socket.Command) socket.Response {
	status := map[string]interface{}{
		"status":          "running",
		"pid":             os.Getpid(),
		"locations":       b.reg.Len(),
		"started_at":      b.startedAt.Format(time.RFC3339),
		"workers":         b.settings.Workers,
		"interval":        b.settings.Interval.String(),
		"history_enabled": b.db.IsEnabled(),
		"socket_enabled":  b.socket.IsEnabled(),
	}

	return socket.Response{
		Success: true,
		Message: "Daemon status retrieved successfully",
		Data:    status,
	}
}

func (b *Backuper) HandleListLocations(cmd socket.Command) socket.Response {
	states := b.reg.Snapshot()
	return socket.Response{
		Success: true,
		Message: fmt.Sprintf("Found %d locations", len(states)),
		Data:    map[string]interface{}{"locations": states},
	}
}

func (b *Backuper) HandleGetRuns(cmd socket.Command) socket.Response {
	// A location given by path is filtered by its name.
	name := cmd.String("location")
	if name != "" {
		l, err := b.reg.Lookup(name)
		if err != nil {
			return socket.Fail("%v", err)
		}
		name = l.Name()
	}

	runs, err := b.db.GetRuns(name, cmd.Int("limit", defaultRunLimit))
	if err != nil {
		return socket.Fail("Failed to get runs: %v", err)
	}

	return socket.Response{
		Success: true,
		Message: fmt.Sprintf("Retrieved %d runs", len(runs)),
		Data:    map[string]interface{}{"runs": runs},
	}
}

func (b *Backuper) HandleGetLogs(cmd socket.Command) socket.Response {
	logs, err := b.db.GetRecentLogs(cmd.Int("limit", defaultLogLimit))
	if err != nil {
		return socket.Fail("Failed to get logs: %v", err)
	}

	return socket.Response{
		Success: true,
		Message: fmt.Sprintf("Retrieved %d log entries", len(logs)),
		Data:    map[string]interface{}{"logs": logs},
	}
}

func (b *Backuper) HandleTrigger(cmd socket.Command) socket.Response {
	name := cmd.String("location")
	if name == "" {
		return socket.Fail("location name is required")
	}

	l, err := b.reg.Lookup(name)
	if err != nil {
		return socket.Fail("%v", err)
	}
	l.Force()

	log.Info("[%s] Manual trigger requested", l.Name())
	b.db.LogToDatabase("INFO", "socket", l.Name(), "manual trigger requested", "")

	return socket.Response{
		Success: true,
		Message: fmt.Sprintf("%s will be backed up on the next evaluation", l.Name()),
	}
}
