package core

import (
	"io"
	"log/slog"

	"github.com/pterm/pterm"
)

const defaultLogLevel = slog.LevelInfo

// Logger is the minimal logging surface commands use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// DefaultLogger pairs pterm terminal prefixes with slog structured records
// on the same writer. The slog handler does the level filtering for the
// structured half; pterm printers are gated explicitly.
type DefaultLogger struct {
	sl     *slog.Logger
	output io.Writer
	level  slog.Level
}

func NewDefaultLogger(output io.Writer, level slog.Level) *DefaultLogger {
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})
	return &DefaultLogger{
		sl:     slog.New(handler),
		output: output,
		level:  level,
	}
}

func (l *DefaultLogger) Debug(msg string, args ...any) {
	if l.level <= slog.LevelDebug {
		pterm.Debug.WithWriter(l.output).Println(msg)
	}
	l.sl.Debug(msg, args...)
}

func (l *DefaultLogger) Info(msg string, args ...any) {
	if l.level <= slog.LevelInfo {
		pterm.Info.WithWriter(l.output).Println(msg)
	}
	l.sl.Info(msg, args...)
}

func (l *DefaultLogger) Warn(msg string, args ...any) {
	if l.level <= slog.LevelWarn {
		pterm.Warning.WithWriter(l.output).Println(msg)
	}
	l.sl.Warn(msg, args...)
}

func (l *DefaultLogger) Error(msg string, args ...any) {
	if l.level <= slog.LevelError {
		pterm.Error.WithWriter(l.output).Println(msg)
	}
	l.sl.Error(msg, args...)
}

func (l *DefaultLogger) With(args ...any) Logger {
	return &DefaultLogger{
		sl:     l.sl.With(args...),
		output: l.output,
		level:  l.level,
	}
}
