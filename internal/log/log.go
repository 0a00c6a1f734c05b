//nolint:revive // Package name kept as "log" for stable internal imports.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
)

// Level is a log verbosity. Higher values are more verbose.
type Level int32

// Verbosity levels, least to most verbose.
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// String returns the lowercase name used in configuration files.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return fmt.Sprintf("level(%d)", int32(l))
	}
}

// Enabled reports whether messages at other are emitted when the threshold is l.
func (l Level) Enabled(other Level) bool {
	return other <= l
}

// ParseLevel converts a configuration value into a Level. Matching is case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return LevelInfo, fmt.Errorf("unknown verbosity %q", s)
	}
}

var (
	level  atomic.Int32
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func init() {
	level.Store(int32(LevelInfo))
}

// SetLevel sets the process-wide threshold. It is meant to be called once at startup,
// before any background goroutine logs.
func SetLevel(l Level) {
	level.Store(int32(l))
}

// GetLevel returns the current threshold.
func GetLevel() Level {
	return Level(level.Load())
}

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	if enabled {
		if GetLevel() < LevelDebug {
			SetLevel(LevelDebug)
		}
		return
	}
	if GetLevel() > LevelInfo {
		SetLevel(LevelInfo)
	}
}

// SetOutput redirects normal and error output. Used by tests and the daemon child.
func SetOutput(out, errOut io.Writer) {
	stdout = out
	stderr = errOut
}

func enabled(l Level) bool {
	return GetLevel().Enabled(l)
}

// Trace logs very verbose diagnostics
func Trace(format string, elem ...any) {
	if enabled(LevelTrace) {
		fmt.Fprintln(stdout, color.MagentaString("[TRACE] ")+fmt.Sprintf(format, elem...))
	}
}

// Debug logs debug messages when debug mode is enabled
func Debug(format string, elem ...any) {
	if enabled(LevelDebug) {
		fmt.Fprintln(stdout, color.CyanString("[DEBUG] ")+fmt.Sprintf(format, elem...))
	}
}

// DebugH2 logs indented debug messages when debug mode is enabled
func DebugH2(format string, elem ...any) {
	if enabled(LevelDebug) {
		fmt.Fprintln(stdout, color.CyanString("  [DEBUG] ")+fmt.Sprintf(format, elem...))
	}
}

// DebugH3 logs more indented debug messages when debug mode is enabled
func DebugH3(format string, elem ...any) {
	if enabled(LevelDebug) {
		fmt.Fprintln(stdout, color.CyanString("    [DEBUG] ")+fmt.Sprintf(format, elem...))
	}
}

// Fatal logs an error message and exits the program
func Fatal(args ...interface{}) {
	var message string

	switch len(args) {
	case 0:
		message = "fatal error occurred"
	case 1:
		switch v := args[0].(type) {
		case error:
			message = v.Error()
		case string:
			message = v
		default:
			message = fmt.Sprintf("%v", v)
		}
	default:
		// If first argument is a string, use as format
		if format, ok := args[0].(string); ok && strings.Contains(format, "%") {
			message = fmt.Sprintf(format, args[1:]...)
		} else {
			message = fmt.Sprint(args...)
		}
	}

	lines := strings.Split(strings.TrimSpace(message), "\n")
	for _, line := range lines {
		fmt.Fprintln(stderr, color.RedString("[x] ")+line)
	}
	os.Exit(1)
}

// Error logs an error message to stderr
func Error(str string, elem ...any) {
	fmt.Fprintln(stderr, color.RedString("[x] ")+fmt.Sprintf(str, elem...))
}

// ErrorH2 logs an indented error message to stderr
func ErrorH2(format string, elem ...any) {
	fmt.Fprintln(stderr, color.RedString("  [x] ")+fmt.Sprintf(format, elem...))
}

// Warn logs a warning to stderr
func Warn(format string, elem ...any) {
	if enabled(LevelWarn) {
		fmt.Fprintln(stderr, color.YellowString("[!] ")+fmt.Sprintf(format, elem...))
	}
}

// Info logs an informational message
func Info(format string, elem ...any) {
	if enabled(LevelInfo) {
		fmt.Fprintln(stdout, color.BlueString("[x] ")+fmt.Sprintf(format, elem...))
	}
}

// InfoH2 logs an indented informational message
func InfoH2(format string, elem ...any) {
	if enabled(LevelInfo) {
		fmt.Fprintln(stdout, color.GreenString("  [x] ")+fmt.Sprintf(format, elem...))
	}
}

// InfoH3 logs a double-indented informational message
func InfoH3(format string, elem ...any) {
	if enabled(LevelInfo) {
		fmt.Fprintln(stdout, color.YellowString("    [x] ")+fmt.Sprintf(format, elem...))
	}
}

// Block writes a multi-line captured output block, each line indented under a label.
func Block(label, text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	fmt.Fprintln(stdout, color.WhiteString("    %s:", label))
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(stdout, "      "+line)
	}
}
