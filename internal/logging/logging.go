// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix is shown on every text log line.
const Prefix = "centroidwatch"

// New returns a logger writing to w at level in one of the formats text,
// json or logfmt.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := log.Options{
		Level:           lvl,
		Prefix:          Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	}
	switch format {
	case "", "text":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log.NewWithOptions(w, opts), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
