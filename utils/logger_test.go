package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFilter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, LevelWarn)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	if strings.Contains(out.String(), "info 2") || strings.Contains(out.String(), "debug 1") {
		t.Errorf("messages below warn should be dropped, got %q", out.String())
	}
	if !strings.Contains(out.String(), "warn 3") {
		t.Errorf("warn line missing from stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "error 4") {
		t.Errorf("error line missing from stderr: %q", errOut.String())
	}
}

func TestLoggerScope(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo(&out, &out, LevelDebug).With("api")
	l.Info("hello")
	if !strings.Contains(out.String(), "[api] hello") {
		t.Errorf("scoped line: got %q", out.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}
