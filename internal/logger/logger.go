// Package logger builds the zerolog logger handed to every component of a run.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is a zerolog.Logger that owns its log file.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates a logger writing to stdout and, when config.File is set, appending
// to that file. A log file that cannot be opened is reported on stdout and skipped,
// and an unknown level falls back to info with a warning.
func New(config *Config, stdout io.Writer) (*Logger, error) {
	level := zerolog.InfoLevel

	var levelErr error

	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		parsed, err := zerolog.ParseLevel(config.Level)
		if err != nil {
			levelErr = fmt.Errorf("parse log level %q: %w", config.Level, err)
		} else {
			level = parsed
		}
	}

	console := stdout
	if IsTerminal(stdout) {
		console = zerolog.ConsoleWriter{Out: stdout, TimeFormat: config.TimeFormat}
	}

	var (
		file    *os.File
		fileErr error
	)

	writers := []io.Writer{console}

	if config.File != "" {
		file, fileErr = os.OpenFile(config.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if fileErr == nil {
			writers = append(writers, file)
		}
	}

	l := &Logger{
		Logger: zerolog.New(zerolog.MultiLevelWriter(writers...)).
			Level(level).
			With().
			Timestamp().
			Logger(),
		file: file,
	}

	if levelErr != nil {
		l.Warn().Err(levelErr).Str("level", level.String()).Msg("Unknown log level, using default")
	}

	if fileErr != nil {
		l.Warn().Err(fileErr).Str("file", config.File).Msg("Log file unavailable, logging to stdout only")
	}

	return l, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}

	return l.file.Close()
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// NewTestLogger creates a no-op logger for testing that discards all output
func NewTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}
