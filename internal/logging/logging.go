// Package logging builds the process logger. The TUI owns the terminal, so
// interactive runs log to a rotated file; serve logs to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the sink and level.
type Options struct {
	Level string
	// File is the log path; ignored when Stderr is set.
	File   string
	Stderr bool
	// Discard drops all output.
	Discard bool
}

// New returns a logger and a func that closes its sink.
func New(opts Options) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		l, err := log.ParseLevel(s)
		if err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", s, err)
		}
		level = l
	}

	w, closeFn, err := resolveWriter(opts)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "lore",
	})
	return logger, closeFn, nil
}

func resolveWriter(opts Options) (io.Writer, func() error, error) {
	switch {
	case opts.Discard:
		return io.Discard, func() error { return nil }, nil
	case opts.Stderr:
		return os.Stderr, func() error { return nil }, nil
	case opts.File == "":
		return nil, nil, fmt.Errorf("logging: no log file configured")
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	rot := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}
	return rot, rot.Close, nil
}
