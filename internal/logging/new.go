package logging

import (
	"io"
	"log/slog"
	"strings"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger for the given back end ("slog" or "zap") writing to w.
// Unknown back ends fall back to slog; unknown levels fall back to info.
func New(w io.Writer, backend, level string) Logger {
	switch strings.ToLower(backend) {
	case BackendZap:
		return NewZapLogger(newZap(w, level, "console"))
	default:
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
		return NewSlogLogger(slog.New(h))
	}
}

func slogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

