package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AdminOnly passes updates from adminID and silently drops everything else.
// Non-admin users must not learn that admin commands exist.
func AdminOnly(adminID int64, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || user.ID != adminID {
				if user != nil {
					Logger(c, logger).Warn("Admin-only update rejected", zap.Int64("user_id", user.ID))
				}
				if c.Callback() != nil {
					return c.Respond()
				}
				return nil
			}
			return next(c)
		}
	}
}
