package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"anonbot/internal/ratelimit"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// QuestionGate reports whether the user's next text counts as a question
type QuestionGate interface {
	CanSendQuestion(ctx context.Context, userID int64) bool
}

// QuestionLimiter checks and records question attempts
type QuestionLimiter interface {
	Allow(ctx context.Context, userID int64) ratelimit.Decision
}

// QuestionLimitOptions configures QuestionRateLimit
type QuestionLimitOptions struct {
	AdminID int64
	States  QuestionGate
	Limiter QuestionLimiter
	Logger  *zap.Logger
}

// QuestionRateLimit gates plain text messages that would become questions.
// The admin, commands, callbacks, non-text messages and users who cannot
// submit right now pass through untouched. A rejection sends exactly one
// reply and never reaches next.
func QuestionRateLimit(opts QuestionLimitOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Callback() != nil {
				return next(c)
			}
			user, msg := c.Sender(), c.Message()
			if user == nil || msg == nil || user.ID == opts.AdminID {
				return next(c)
			}
			text := strings.TrimSpace(msg.Text)
			if text == "" || strings.HasPrefix(text, "/") {
				return next(c)
			}

			ctx := Context(c)
			if !opts.States.CanSendQuestion(ctx, user.ID) {
				return next(c)
			}

			d := opts.Limiter.Allow(ctx, user.ID)
			if d.Allowed {
				return next(c)
			}

			Logger(c, opts.Logger).Info("Question rate limited",
				zap.Int64("user_id", user.ID),
				zap.Int("used", d.Used),
				zap.Int("limit", d.Limit),
				zap.Duration("retry_after", d.RetryAfter),
			)
			return c.Send(RejectionText(d))
		}
	}
}

// RejectionText renders a rejected decision for the user
func RejectionText(d ratelimit.Decision) string {
	if d.Reason == ratelimit.ReasonHourlyLimit {
		return fmt.Sprintf(
			"🚫 Достигнут лимит: не больше %d вопросов в час.\n\nПопробуйте снова через %d мин.",
			d.Limit, ceilUnits(d.RetryAfter, time.Minute),
		)
	}
	return fmt.Sprintf(
		"⏳ Слишком часто! Подождите ещё %d сек. перед следующим вопросом.",
		ceilUnits(d.RetryAfter, time.Second),
	)
}

// ceilUnits rounds d up to whole units, never below one
func ceilUnits(d, unit time.Duration) int {
	n := int((d + unit - 1) / unit)
	if n < 1 {
		return 1
	}
	return n
}
