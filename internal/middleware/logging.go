package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// RequestLogger tags each update with a request id, a scoped logger and a
// context bounded by timeout. Message text is never logged.
func RequestLogger(logger *zap.Logger, timeout time.Duration) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			rid := uuid.NewString()

			fields := []zap.Field{zap.String("rid", rid)}
			if user := c.Sender(); user != nil {
				fields = append(fields, zap.Int64("user_id", user.ID))
			}
			reqLogger := logger.With(fields...)

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			c.Set(keyRequestID, rid)
			c.Set(keyLogger, reqLogger)
			c.Set(keyContext, ctx)

			kind := "message"
			if cb := c.Callback(); cb != nil {
				kind = "callback"
				reqLogger.Debug("Update received",
					zap.String("kind", kind),
					zap.String("unique", cb.Unique),
				)
			} else {
				reqLogger.Debug("Update received", zap.String("kind", kind))
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				reqLogger.Error("Failed to handle update",
					zap.String("kind", kind),
					zap.Duration("took", time.Since(start)),
					zap.Error(err),
				)
				return err
			}

			reqLogger.Debug("Update handled",
				zap.String("kind", kind),
				zap.Duration("took", time.Since(start)),
			)
			return nil
		}
	}
}
