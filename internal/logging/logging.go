// Package logging builds the slog loggers used by the session and the
// command-line host.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the output format of a logger.
type Format int

const (
	// FormatText writes key=value lines.
	FormatText Format = iota
	// FormatJSON writes one JSON object per record.
	FormatJSON
)

// Config configures a logger.
type Config struct {
	// Level is the minimum level written.
	Level slog.Level
	// Format selects the handler.
	Format Format
	// File is the log file. Without a file and without Output nothing is
	// logged.
	File string
	// Output overrides File when set.
	Output io.Writer
	// Component is added to every record when set.
	Component string
}

// DefaultConfig returns the configuration of a disabled logger.
func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo, Format: FormatText, Component: "modal"}
}

// ParseLevel parses a level name. Unknown names are an error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// New creates a logger. The returned function closes the log file.
func New(cfg Config) (*slog.Logger, func() error, error) {
	closer := func() error { return nil }
	out := cfg.Output
	if out == nil && cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f.Close
	}
	if out == nil {
		return Discard(), closer, nil
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	logger := slog.New(h)
	if cfg.Component != "" {
		logger = logger.With("component", cfg.Component)
	}
	return logger, closer, nil
}

// Discard returns a logger that writes nothing.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
