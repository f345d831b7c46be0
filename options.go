package gcptr

import (
	"io"
	"log/slog"
)

// Option configures a Registry or a Context.
type Option func(*options)

type options struct {
	logger *slog.Logger
	name   string
}

// WithLogger sets the logger used for fault and release events.
// A nil logger discards everything, which is also the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithName overrides the registry name shown in diagnostics and metrics.
// Registries are named after their pointee type by default. A Context
// suffixes names already taken by another of its registries.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = discardLogger
	}
	return o
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
