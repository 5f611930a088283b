package listkit

import "log/slog"

// Option configures a container at construction time.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes the container's debug events (storage growth, trims,
// detected generation conflicts) to logger. Without it nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

var discardLogger = slog.New(slog.DiscardHandler)

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

// loggerOr returns l, or a discarding logger for zero-value containers.
func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger
	}
	return l
}
