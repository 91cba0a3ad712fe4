package middleware

import (
	"context"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	keyContext   = "ctx"
	keyLogger    = "logger"
	keyRequestID = "rid"
)

// Context returns the per-update context set by RequestLogger
func Context(c tele.Context) context.Context {
	if ctx, ok := c.Get(keyContext).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// Logger returns the per-update logger, or fallback outside RequestLogger
func Logger(c tele.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := c.Get(keyLogger).(*zap.Logger); ok {
		return logger
	}
	return fallback
}

// RequestID returns the id assigned to the current update
func RequestID(c tele.Context) string {
	rid, _ := c.Get(keyRequestID).(string)
	return rid
}
