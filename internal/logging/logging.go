// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package logging builds the service's slog logger. Records carry the
// service name and version, plus the request ID and OpenTelemetry trace
// context when the context has them.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"
)

// Options configures New.
type Options struct {
	Service string
	Version string
	// Format is "json" or "text". Empty selects json.
	Format string
	// Level is a slog level name. Empty selects info.
	Level string
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// New creates a logger from opts.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "json":
		base = slog.NewJSONHandler(w, handlerOpts)
	case "text":
		base = slog.NewTextHandler(w, handlerOpts)
	default:
		return nil, oops.Code("LOG_FORMAT_INVALID").
			With("format", opts.Format).
			Errorf("log format must be json or text")
	}

	return slog.New(&contextHandler{
		handler: base.WithAttrs([]slog.Attr{
			slog.String("service", opts.Service),
			slog.String("version", opts.Version),
		}),
	}), nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, oops.Code("LOG_LEVEL_INVALID").With("level", name).Wrap(err)
	}
	return level, nil
}
