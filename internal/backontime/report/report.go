// Package report decides how much of a finished action is written to the log.
package report

import (
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/action"
	"github.com/dimasma0305/backontime/internal/log"
)

// Report records what was surfaced for one result.
type Report struct {
	Location   string
	Success    bool
	ShowStdout bool
	ShowStderr bool
}

// Reporter writes result summaries at a fixed verbosity.
type Reporter struct {
	level log.Level
}

// New returns a Reporter for the given verbosity.
func New(level log.Level) *Reporter {
	return &Reporter{level: level}
}

// Report logs one summary line for res and, depending on the outcome and the
// verbosity, its captured output. Stdout is shown on failure or at debug and above;
// stderr on failure or at trace.
func (r *Reporter) Report(res action.Result) Report {
	rep := Report{
		Location: res.Location,
		Success:  res.Success(),
	}
	rep.ShowStdout = !rep.Success || r.level.Enabled(log.LevelDebug)
	rep.ShowStderr = !rep.Success || r.level.Enabled(log.LevelTrace)

	if rep.Success {
		log.Info("[%s] Backup succeeded in %s: %s", res.Location, res.Duration.Round(time.Millisecond), res.Command)
	} else {
		log.Error("[%s] Backup failed (exit code %d): %s: %v", res.Location, res.ExitCode, res.Command, res.Err)
	}

	if rep.ShowStdout {
		log.Block("stdout", res.Stdout)
	}
	if rep.ShowStderr {
		log.Block("stderr", res.Stderr)
	}
	return rep
}
