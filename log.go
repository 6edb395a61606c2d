package dbuf

import "github.com/rs/zerolog"

// nopLogger is shared by every Writer/DeferredWriter/OpWriter that isn't
// given an explicit logger: a single allocation-free zerolog.Logger that
// discards everything, so the hot path never has to nil-check.
var nopLogger = zerolog.Nop()

// LogOption is returned by WithLogger. It's exported, rather than folded
// directly into a constructor parameter, so that the op package's
// OpWriter can accept the same option value dbuf.Writer does without the
// two packages having to import each other's unexported option types.
type LogOption struct {
	logger *zerolog.Logger
}

// WithLogger attaches a structured logger to a Writer/DeferredWriter's
// drain loop and an op.OpWriter's swap bookkeeping. Without it, logging is
// a no-op (zerolog.Nop()). Debug level traces swap starts and completions,
// and op.OpWriter's log-apply/next-swap transitions.
func WithLogger(logger zerolog.Logger) LogOption {
	return LogOption{logger: &logger}
}

// ResolveLogger picks the last non-nil logger among opts, or the shared
// no-op logger if none was given. Exported so the op package can resolve
// its own LogOption slice the same way Writer does.
func ResolveLogger(opts []LogOption) *zerolog.Logger {
	logger := &nopLogger
	for _, opt := range opts {
		if opt.logger != nil {
			logger = opt.logger
		}
	}
	return logger
}
