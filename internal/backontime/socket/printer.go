package socket

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/dimasma0305/backontime/internal/backontime/history"
	"github.com/dimasma0305/backontime/internal/backontime/location"
)

// PrintStatus prints a status response
func PrintStatus(w io.Writer, resp *Response) {
	if status, _ := resp.Data["status"].(string); status == "running" {
		fmt.Fprintln(w, "🟢 Status: RUNNING")
	} else {
		fmt.Fprintln(w, "🔴 Status: UNKNOWN")
	}
	if n, ok := resp.Data["locations"].(float64); ok {
		fmt.Fprintf(w, "📁 Locations: %.0f\n", n)
	}
	if started, ok := resp.Data["started_at"].(string); ok {
		fmt.Fprintf(w, "⏱️  Started: %s\n", started)
	}
	for _, feature := range []string{"history_enabled", "socket_enabled"} {
		if on, ok := resp.Data[feature].(bool); ok {
			state := "DISABLED"
			if on {
				state = "ENABLED"
			}
			fmt.Fprintf(w, "   %s: %s\n", strings.TrimSuffix(feature, "_enabled"), state)
		}
	}
}

// PrintLocations prints a list_locations response as a table
func PrintLocations(w io.Writer, resp *Response) error {
	var states []location.State
	if err := resp.Decode("locations", &states); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tCHANGED\tCHANGES\tTIMER\tLAST RUN\tSTATE")
	for _, s := range states {
		state := "idle"
		switch {
		case s.Running:
			state = color.YellowString("running")
		case s.Forced:
			state = color.CyanString("forced")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			s.Name, s.Path, s.Changed, s.TriggerChanges, s.TriggerTimer, ago(s.LastTriggered), state)
	}
	return tw.Flush()
}

// PrintRuns prints a get_runs response, newest first
func PrintRuns(w io.Writer, resp *Response) error {
	var runs []history.Run
	if err := resp.Decode("runs", &runs); err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tLOCATION\tTRIGGER\tSTATUS\tEXIT\tDURATION")
	for _, r := range runs {
		status := color.GreenString(r.Status)
		if r.Status != "success" {
			status = color.RedString(r.Status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Location, r.Reason, status, r.ExitCode,
			(time.Duration(r.Duration) * time.Millisecond).String())
	}
	return tw.Flush()
}

// PrintLogs prints a get_logs response, oldest first
func PrintLogs(w io.Writer, resp *Response) error {
	var logs []history.LogEntry
	if err := resp.Decode("logs", &logs); err != nil {
		return err
	}
	for i := len(logs) - 1; i >= 0; i-- {
		e := logs[i]
		loc := ""
		if e.Location != "" {
			loc = "[" + e.Location + "] "
		}
		line := fmt.Sprintf("[%s] %s %s %s%s", e.Timestamp.Local().Format("15:04:05"), levelIcon(e.Level), e.Component, loc, e.Message)
		if e.Error != "" {
			line += ": " + e.Error
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func levelIcon(level string) string {
	switch level {
	case "ERROR":
		return "❌"
	case "WARN":
		return "⚠️"
	case "INFO":
		return "ℹ️"
	default:
		return "•"
	}
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return time.Since(t).Truncate(time.Second).String() + " ago"
}
