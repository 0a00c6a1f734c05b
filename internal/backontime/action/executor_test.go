package action

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/errors"
)

type target struct {
	name, path, exec string
	timeout          time.Duration
}

func (t target) Name() string           { return t.name }
func (t target) Path() string           { return t.path }
func (t target) Exec() string           { return t.exec }
func (t target) Timeout() time.Duration { return t.timeout }

func unixOnly(t *testing.T) *Executor {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	return &Executor{Shell: "/bin/sh"}
}

func TestRun_Success(t *testing.T) {
	e := unixOnly(t)
	res := e.Run(context.Background(), target{name: "data", path: "/data", exec: "echo backed up"})

	if !res.Success() || res.Status() != StatusSuccess {
		t.Fatalf("Run() = %+v, want success", res)
	}
	if strings.TrimSpace(res.Stdout) != "backed up" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Location != "data" || res.Path != "/data" || res.Command != "echo backed up" {
		t.Errorf("identity not carried: %+v", res)
	}
	if res.StartedAt.IsZero() || res.Duration < 0 {
		t.Errorf("timing not recorded: %+v", res)
	}
}

func TestRun_FailureCapturesOutput(t *testing.T) {
	e := unixOnly(t)
	res := e.Run(context.Background(), target{name: "b", exec: "echo out; echo err >&2; exit 3"})

	if res.Success() {
		t.Fatal("Run() reported success")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !errors.Is(res.Err, errors.ErrCommandFailed) || res.Status() != StatusFailed {
		t.Errorf("Err = %v, Status = %s", res.Err, res.Status())
	}
	if strings.TrimSpace(res.Stdout) != "out" || strings.TrimSpace(res.Stderr) != "err" {
		t.Errorf("Stdout = %q, Stderr = %q", res.Stdout, res.Stderr)
	}
}

func TestRun_MissingInterpreter(t *testing.T) {
	e := &Executor{Shell: "/nonexistent/backontime-shell"}
	res := e.Run(context.Background(), target{name: "c", exec: "true"})

	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", res.ExitCode)
	}
	if !errors.Is(res.Err, errors.ErrSpawnFailed) || res.Status() != StatusSpawn {
		t.Errorf("Err = %v, Status = %s", res.Err, res.Status())
	}
}

func TestRun_Timeout(t *testing.T) {
	e := unixOnly(t)
	start := time.Now()
	res := e.Run(context.Background(), target{name: "d", exec: "sleep 5", timeout: 100 * time.Millisecond})

	if !errors.Is(res.Err, errors.ErrCommandTimeout) || res.Status() != StatusTimeout {
		t.Errorf("Err = %v, Status = %s", res.Err, res.Status())
	}
	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", res.ExitCode)
	}
	if time.Since(start) > 4*time.Second {
		t.Error("command was not stopped at the timeout")
	}
}

func TestRun_CancelledContextDoesNotPreempt(t *testing.T) {
	e := unixOnly(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Run(ctx, target{name: "e", exec: "sleep 0.1; echo done"})
	if !res.Success() || strings.TrimSpace(res.Stdout) != "done" {
		t.Errorf("Run() = %+v, want the command to finish", res)
	}
}

func TestGetShell(t *testing.T) {
	name, flag := getShell()
	if name == "" || flag == "" {
		t.Errorf("getShell() = (%q, %q)", name, flag)
	}
}
