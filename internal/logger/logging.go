// Package logger builds charmbracelet/log loggers for the wordrank components.
// Everything logs to stderr: stdout carries IPC responses.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a component logger that follows the global log level.
func New(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, true, log.TextFormatter)
}

// NewWithConfig creates a charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Setup points the global logger at stderr and sets its level.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
		return
	}
	log.SetLevel(log.InfoLevel)
}
