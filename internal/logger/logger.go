package logger

import "os"

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New builds a logger for the given level and format writing to stdout.
// The caller owns the returned logger and should Sync it on shutdown.
func New(level, format string) *Logger {
	return newZapLogger(level, format, os.Stdout)
}

// NewStderr is New for commands whose stdout carries data.
func NewStderr(level, format string) *Logger {
	return newZapLogger(level, format, os.Stderr)
}
