package greatapesafe

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the minimal logging surface the package needs. Satisfied by
// *zap.SugaredLogger.
type Logger interface {
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
}

type contextLoggerValueT string

// ContextLoggerValue is the context key under which callers may provide
// their own Logger.
const ContextLoggerValue = contextLoggerValueT("greatapesafe-logger")

// LoggerFrom returns the Logger carried by ctx, or a production zap sugar
// logger when none is set.
func LoggerFrom(ctx context.Context) Logger {
	value := ctx.Value(ContextLoggerValue)
	logger, ok := value.(Logger)
	if !ok {
		logger = zap.Must(zap.NewProduction()).Sugar()
	}

	return logger
}

// WithLogger returns a context carrying the given Logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, ContextLoggerValue, logger)
}
