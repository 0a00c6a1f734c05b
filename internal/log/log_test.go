package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	prev, prevOut, prevErr := GetLevel(), stdout, stderr
	SetOutput(out, errOut)
	t.Cleanup(func() {
		SetOutput(prevOut, prevErr)
		SetLevel(prev)
	})
	return out, errOut
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"error", LevelError, false},
		{"WARN", LevelWarn, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"Debug", LevelDebug, false},
		{"trace", LevelTrace, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelEnabled(t *testing.T) {
	if !LevelDebug.Enabled(LevelInfo) {
		t.Error("debug threshold should emit info")
	}
	if LevelDebug.Enabled(LevelTrace) {
		t.Error("debug threshold should not emit trace")
	}
	if !LevelTrace.Enabled(LevelTrace) {
		t.Error("trace threshold should emit trace")
	}
}

func TestThresholdFiltersOutput(t *testing.T) {
	out, errOut := captureOutput(t)

	SetLevel(LevelWarn)
	Info("hidden info")
	Debug("hidden debug")
	Warn("visible warning")
	Error("visible error")

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
	if !strings.Contains(errOut.String(), "visible warning") || !strings.Contains(errOut.String(), "visible error") {
		t.Errorf("stderr = %q, want warning and error", errOut.String())
	}

	SetLevel(LevelTrace)
	Trace("trace line %d", 1)
	if !strings.Contains(out.String(), "[TRACE] trace line 1") {
		t.Errorf("stdout = %q, want trace line", out.String())
	}
}

func TestBlockIndentsLines(t *testing.T) {
	out, _ := captureOutput(t)

	Block("stdout", "one\ntwo\n")
	Block("stderr", "")

	want := "    stdout:\n      one\n      two\n"
	if out.String() != want {
		t.Errorf("Block output = %q, want %q", out.String(), want)
	}
}
