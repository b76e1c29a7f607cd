// Package logx provides the prefixed, per-host logging used across the
// fleet control plane. It plays the same role as the teacher's
// util.LogWriter, but formats a timestamp and an optional host callsign the
// way the operator-facing tooling expects.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level controls how much gets printed. It's set once at CLI startup from
// the V environment variable (0, 1 or 2).
type Level int

const (
	// Quiet only prints warnings, errors, and host status lines.
	Quiet Level = iota
	// Normal prints regular progress messages too.
	Normal
	// Debug prints everything, including per-file sync decisions.
	Debug
)

const timeFormat = "15:04:05.000"

// Logger is a simple, mutex-guarded writer that prefixes every line with a
// timestamp and an optional host callsign, the same shape as the teacher's
// util.LogWriter but with the timestamp baked in instead of left to the
// caller.
type Logger struct {
	Out   io.Writer
	Level Level
	Color bool

	mu sync.Mutex
}

// New returns a Logger that writes to stderr with Color set to true. Whether
// status lines are actually colored is decided by fatih/color's own terminal
// detection inside StatusLine; the Color field is not consulted anywhere in
// this package.
func New(level Level) *Logger {
	return &Logger{
		Out:   os.Stderr,
		Level: level,
		Color: true,
	}
}

// Printf logs an unprefixed-by-host message at Normal level.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.logf(Normal, "", format, args...)
}

// Debugf logs a message that only appears when Level is Debug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(Debug, "", format, args...)
}

// Hostf logs a message annotated with a host callsign, as used by the
// Module Executor to stream attached output per spec.md §4.5.
func (l *Logger) Hostf(host, format string, args ...interface{}) {
	l.logf(Normal, host, format, args...)
}

// Warnf logs a warning or error, or a host status line. These always print,
// even at Quiet, matching Quiet's documented behavior.
func (l *Logger) Warnf(host, format string, args ...interface{}) {
	l.write(host, format, args...)
}

func (l *Logger) logf(level Level, host, format string, args ...interface{}) {
	if level > l.Level {
		return
	}
	l.write(host, format, args...)
}

func (l *Logger) write(host, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format(timeFormat)
	line := fmt.Sprintf("[%s] | %s%s\n", ts, hostTag(host), msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.Out, line)
}

func hostTag(host string) string {
	if host == "" {
		return ""
	}
	return fmt.Sprintf("[%s] ", host)
}

// StatusColor is the color used for the three multiplexer availability
// states of spec.md §7: green for available/idle, yellow for
// available/busy, red for unavailable.
type StatusColor int

const (
	// StatusAvailable is available and idle (green).
	StatusAvailable StatusColor = iota
	// StatusBusy is available but busy (yellow).
	StatusBusy
	// StatusUnavailable could not be reached (red).
	StatusUnavailable
)

// StatusLine formats one color-coded per-host status line.
func StatusLine(host string, status StatusColor, detail string) string {
	var c *color.Color
	switch status {
	case StatusAvailable:
		c = color.New(color.FgGreen)
	case StatusBusy:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}
	return c.Sprintf("[%s] %s", host, detail)
}
