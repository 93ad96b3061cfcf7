// Package logging wires slog for the CLI: coloured output on a terminal and a
// plain text log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type Options struct {
	// Console receives tinted output. Nil disables console logging, which the
	// TUI needs because it owns the terminal.
	Console io.Writer
	// File is the path of the log file. Empty disables file logging.
	File  string
	Level slog.Level
}

// Setup builds the logger, installs it as the slog default and returns a
// function that flushes and closes the log file.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	var handlers []slog.Handler
	closeFn := func() error { return nil }

	if opts.Console != nil {
		handlers = append(handlers, tint.NewHandler(opts.Console, &tint.Options{
			Level:      opts.Level,
			TimeFormat: "15:04:05.000",
			NoColor:    !isTerminal(opts.Console),
		}))
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}

		lw := newLineWriter(file)
		handlers = append(handlers, slog.NewTextHandler(lw, &slog.HandlerOptions{
			Level: opts.Level,
			// lineWriter stamps the time
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Attr{}
				}
				return a
			},
		}))
		closeFn = func() error {
			flushErr := lw.Close()
			if err := file.Close(); err != nil {
				return err
			}
			return flushErr
		}
	}

	var logger *slog.Logger
	switch len(handlers) {
	case 0:
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	case 1:
		logger = slog.New(handlers[0])
	default:
		logger = slog.New(newFanoutHandler(handlers...))
	}
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
