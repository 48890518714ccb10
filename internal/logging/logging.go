// Package logging builds the charmbracelet/log logger used by the store and
// the terminal shell. The shell owns stdout, so output goes to a file or
// nowhere.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const Prefix = "daybook"

// New opens path for appending and returns a logger writing to it. An empty
// path gives a logger that discards everything. The returned closer is never
// nil.
func New(path, level string) (*log.Logger, io.Closer, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if path == "" {
		return newLogger(io.Discard, lvl), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f, lvl), f, nil
}

func newLogger(w io.Writer, lvl log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          Prefix,
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
