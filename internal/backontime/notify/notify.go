// Package notify tells operators about failed backups.
package notify

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/log"
)

// Failure describes a failed action.
type Failure struct {
	Event     string        `json:"event"`
	Host      string        `json:"host"`
	Location  string        `json:"location"`
	Path      string        `json:"path"`
	Command   string        `json:"command"`
	Reason    string        `json:"reason"`
	ExitCode  int           `json:"exit_code"`
	Error     string        `json:"error"`
	Stdout    string        `json:"stdout,omitempty"`
	Stderr    string        `json:"stderr,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// EventBackupFailed is the only event sent today.
const EventBackupFailed = "backup_failed"

const maxOutput = 1000

// Notifier delivers a Failure somewhere.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, f Failure) error
}

// Multi fans a failure out to several notifiers.
type Multi []Notifier

// FromConfig builds one notifier per configured target. An empty configuration
// yields an empty Multi.
func FromConfig(cfg config.NotifyConfig) (Multi, error) {
	var m Multi
	if cfg.DiscordWebhook != "" {
		d, err := NewDiscord(cfg.DiscordWebhook)
		if err != nil {
			return nil, err
		}
		m = append(m, d)
	}
	if cfg.WebhookURL != "" {
		m = append(m, NewWebhook(cfg.WebhookURL))
	}
	if cfg.Email.Host != "" {
		e, err := NewEmail(cfg.Email)
		if err != nil {
			return nil, err
		}
		m = append(m, e)
	}
	return m, nil
}

// Notify calls every notifier. Failures are logged as warnings and the number of
// notifiers that failed is returned.
func (m Multi) Notify(ctx context.Context, f Failure) int {
	if f.Event == "" {
		f.Event = EventBackupFailed
	}
	if f.Host == "" {
		f.Host, _ = os.Hostname()
	}

	failed := 0
	for _, n := range m {
		if err := n.Notify(ctx, f); err != nil {
			log.Warn("[%s] %s notification failed: %v", f.Location, n.Name(), err)
			failed++
			continue
		}
		log.DebugH2("[%s] %s notification sent", f.Location, n.Name())
	}
	return failed
}

func (f Failure) title() string {
	return fmt.Sprintf("Backup of %s failed", f.Location)
}

func (f Failure) summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Host: %s\n", f.Host)
	fmt.Fprintf(&b, "Path: %s\n", f.Path)
	fmt.Fprintf(&b, "Command: %s\n", f.Command)
	fmt.Fprintf(&b, "Trigger: %s\n", f.Reason)
	fmt.Fprintf(&b, "Exit code: %d\n", f.ExitCode)
	if f.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", f.Error)
	}
	return b.String()
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxOutput {
		return s
	}
	cut := len(s) - maxOutput
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
