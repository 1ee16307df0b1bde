package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level orders log severities; messages below the logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger provides leveled logging throughout the application. Every
// component receives one, scoped with With.
type Logger struct {
	out   *log.Logger
	err   *log.Logger
	level Level
	scope string
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// NewLoggerTo creates a Logger with explicit sinks. Errors go to errOut.
func NewLoggerTo(out, errOut io.Writer, level Level) *Logger {
	return &Logger{
		out:   log.New(out, "", 0),
		err:   log.New(errOut, "", 0),
		level: level,
	}
}

// Discard returns a Logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, io.Discard, LevelError+1)
}

// With returns a copy of the logger whose lines are tagged [scope].
func (l *Logger) With(scope string) *Logger {
	c := *l
	c.scope = scope
	return &c
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) line(tag, format string) string {
	if l.scope != "" {
		format = "[" + l.scope + "] " + format
	}
	return fmt.Sprintf("[%s] %s %s\n", l.timestamp(), tag, format)
}

func (l *Logger) Info(format string, args ...any) {
	if l.level <= LevelInfo {
		l.out.Printf(l.line("\033[32mINFO\033[0m ", format), args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if l.level <= LevelWarn {
		l.out.Printf(l.line("\033[33mWARN\033[0m ", format), args...)
	}
}

func (l *Logger) Error(format string, args ...any) {
	if l.level <= LevelError {
		l.err.Printf(l.line("\033[31mERROR\033[0m", format), args...)
	}
}

func (l *Logger) Debug(format string, args ...any) {
	if l.level <= LevelDebug {
		l.out.Printf(l.line("\033[36mDEBUG\033[0m", format), args...)
	}
}
