package util

import (
	"fmt"

	"github.com/pterm/pterm"
)

func init() {
	l := &pterm.DefaultLogger
	l.ShowTime = true
	l.TimeFormat = "15:04:05.000"
	l.MaxWidth = 1000
}

// logger is the shared leveled logger; tests and the CLI adjust its level
// through EnableDebug.
func logger() *pterm.Logger {
	return &pterm.DefaultLogger
}

// LogTrace is for per-packet detail; it is shown only at trace level.
func LogTrace(format string, args ...interface{}) {
	logger().Trace(fmt.Sprintf(format, args...))
}

func LogDebug(format string, args ...interface{}) {
	logger().Debug(fmt.Sprintf(format, args...))
}

func LogInfo(format string, args ...interface{}) {
	logger().Info(fmt.Sprintf(format, args...))
}

// LogSuccess marks a completed milestone (connection open, stream ready).
// pterm's logger has no success level, so it is an info line tagged with
// status=ok.
func LogSuccess(format string, args ...interface{}) {
	l := logger()
	l.Info(fmt.Sprintf(format, args...), l.Args("status", "ok"))
}

func LogWarning(format string, args ...interface{}) {
	logger().Warn(fmt.Sprintf(format, args...))
}

func LogError(format string, args ...interface{}) {
	logger().Error(fmt.Sprintf(format, args...))
}

// EnableDebug shows debug messages.
func EnableDebug() {
	logger().Level = pterm.LogLevelDebug
}

// DebugEnabled reports whether debug messages are shown, so callers can skip
// building expensive debug output.
func DebugEnabled() bool {
	lvl := logger().Level
	return lvl != pterm.LogLevelDisabled && lvl <= pterm.LogLevelDebug
}
