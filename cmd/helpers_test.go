package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/backontime/errors"
	"github.com/dimasma0305/backontime/internal/log"
)

// withFlags sets the persistent flag variables for one test and restores them.
func withFlags(t *testing.T, file, level string, debug bool) {
	t.Helper()
	oldFile, oldLevel, oldDebug, oldLog := cfgFile, verbosity, debugMode, log.GetLevel()
	cfgFile, verbosity, debugMode = file, level, debug
	t.Cleanup(func() {
		cfgFile, verbosity, debugMode = oldFile, oldLevel, oldDebug
		log.SetLevel(oldLog)
	})
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultConfigFile)
	body := "verbosity: warn\nbackup:\n  - path: " + dir + "\n    name: docs\n    changes: 5\n    exec: echo {{name}}\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSettings_VerbosityOverride(t *testing.T) {
	withFlags(t, writeTestConfig(t), "trace", false)

	s, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings() failed: %v", err)
	}
	if s.Verbosity != log.LevelTrace || log.GetLevel() != log.LevelTrace {
		t.Errorf("Verbosity = %v, global = %v, want trace", s.Verbosity, log.GetLevel())
	}
}

func TestLoadSettings_DebugRaisesVerbosity(t *testing.T) {
	withFlags(t, writeTestConfig(t), "", true)

	s, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings() failed: %v", err)
	}
	if s.Verbosity != log.LevelDebug {
		t.Errorf("Verbosity = %v, want debug", s.Verbosity)
	}
}

func TestLoadSettings_BadVerbosity(t *testing.T) {
	withFlags(t, writeTestConfig(t), "chatty", false)

	if _, err := loadSettings(); !errors.Is(err, errors.ErrUnknownVariant) {
		t.Errorf("loadSettings() error = %v, want ErrUnknownVariant", err)
	}
}

func TestRuntimeSettings_FallsBackToDefaults(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "missing.yaml"), "", false)

	s, err := runtimeSettings()
	if err != nil {
		t.Fatalf("runtimeSettings() failed: %v", err)
	}
	if s.PidFile != config.Defaults.PidFile || s.SocketPath != config.Defaults.SocketPath {
		t.Errorf("settings = %+v, want defaults", s)
	}

	if _, err := loadSettings(); !errors.Is(err, errors.ErrConfigNotFound) {
		t.Errorf("loadSettings() error = %v, want ErrConfigNotFound", err)
	}
}

func TestDaemonClient_SocketDisabled(t *testing.T) {
	s := config.Defaults
	s.SocketEnabled = false
	if _, err := daemonClient(&s); !errors.Is(err, errors.ErrSocketDisabled) {
		t.Errorf("daemonClient() error = %v, want ErrSocketDisabled", err)
	}
}

func TestPrintSettings(t *testing.T) {
	withFlags(t, writeTestConfig(t), "", false)
	s, err := loadSettings()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printSettings(&buf, s); err != nil {
		t.Fatalf("printSettings() failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"verbosity: warn", "docs", "echo docs"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfiguredLocations(t *testing.T) {
	names, err := configuredLocations(writeTestConfig(t))
	if err != nil {
		t.Fatalf("configuredLocations() failed: %v", err)
	}
	if len(names) != 1 || names[0] != "docs" {
		t.Errorf("names = %v, want [docs]", names)
	}

	if _, err := configuredLocations(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
