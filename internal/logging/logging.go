// Package logging builds the leveled loggers used by the CLI, the web
// server and the terminal UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configures a logger.
type Options struct {
	Level      string
	Format     string
	Prefix     string
	Timestamps bool
}

// New creates a logger writing to w. Unknown levels fall back to info and
// unknown formats to text.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.Timestamps,
		Prefix:          opts.Prefix,
	})
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ParseFormatter parses a formatter name: "text", "json" or "logfmt".
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// OpenFile opens path for appending, creating it and its directory when
// missing. The terminal UI logs here because it owns stdout.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return f, nil
}
