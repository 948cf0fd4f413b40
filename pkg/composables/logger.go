package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/civreg/pkg/logging"
)

const loggerKey ctxKey = "logger"

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// UseLogger returns the logger bound to ctx, or a discarding one.
func UseLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Entry); ok && logger != nil {
		return logger
	}
	return logging.Nop()
}
