// Package action runs a location's command and captures what it printed.
package action

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/errors"
)

// Result statuses, as stored in the run history.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusTimeout = "timeout"
	StatusSpawn   = "spawn_error"
)

// Target is what the executor needs to know about a location.
type Target interface {
	Name() string
	Path() string
	Exec() string
	Timeout() time.Duration
}

// Result is the outcome of one action.
type Result struct {
	Location  string
	Path      string
	Command   string
	StartedAt time.Time
	Duration  time.Duration
	ExitCode  int
	Stdout    string
	Stderr    string
	Err       error
}

// Success reports whether the command ran and exited with status 0.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Status classifies the result.
func (r Result) Status() string {
	switch {
	case r.Success():
		return StatusSuccess
	case errors.Is(r.Err, errors.ErrCommandTimeout):
		return StatusTimeout
	case errors.Is(r.Err, errors.ErrSpawnFailed):
		return StatusSpawn
	default:
		return StatusFailed
	}
}

// Executor runs commands through the platform shell. The zero value uses $SHELL
// (or /bin/sh) on Unix and cmd /C on Windows.
type Executor struct {
	Shell     string
	ShellFlag string
}

func (e *Executor) shell() (string, string) {
	if e.Shell != "" {
		flag := e.ShellFlag
		if flag == "" {
			flag = "-c"
		}
		return e.Shell, flag
	}
	return getShell()
}

// Run executes the target's command and blocks until it exits. Cancelling ctx does
// not stop a running command; only the target's timeout does. Failures of any kind
// are reported in the Result, never as a panic.
//
//nolint:gosec // G204: Running the configured command is the intended purpose of this function
func (e *Executor) Run(ctx context.Context, t Target) Result {
	res := Result{
		Location: t.Name(),
		Path:     t.Path(),
		Command:  t.Exec(),
	}

	runCtx := context.WithoutCancel(ctx)
	if timeout := t.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}

	name, flag := e.shell()
	cmd := exec.CommandContext(runCtx, name, flag, res.Command)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res.StartedAt = time.Now()
	err := cmd.Run()
	res.Duration = time.Since(res.StartedAt)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.ExitCode = -1
		res.Err = fmt.Errorf("%w after %s", errors.ErrCommandTimeout, t.Timeout())
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		res.Err = fmt.Errorf("%w: exit status %d", errors.ErrCommandFailed, res.ExitCode)
	default:
		res.ExitCode = -1
		res.Err = fmt.Errorf("%w: %v", errors.ErrSpawnFailed, err)
	}
	return res
}
