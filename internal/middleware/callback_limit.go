package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const callbackTooFastText = "⏳ Слишком быстро, подождите секунду"

// CallbackLimitOptions configures CallbackLimiter
type CallbackLimitOptions struct {
	Interval time.Duration
	AdminID  int64
	// Exempt lists button uniques that may be pressed without limit
	Exempt []string
	Clock  clockwork.Clock
	Logger *zap.Logger
}

// CallbackLimiter enforces a minimum interval between button presses per user
type CallbackLimiter struct {
	interval time.Duration
	adminID  int64
	exempt   map[string]struct{}
	clock    clockwork.Clock
	logger   *zap.Logger

	mu       sync.Mutex
	lastSeen map[int64]time.Time
}

// NewCallbackLimiter creates a new callback limiter
func NewCallbackLimiter(opts CallbackLimitOptions) *CallbackLimiter {
	exempt := make(map[string]struct{}, len(opts.Exempt))
	for _, unique := range opts.Exempt {
		exempt[unique] = struct{}{}
	}
	return &CallbackLimiter{
		interval: opts.Interval,
		adminID:  opts.AdminID,
		exempt:   exempt,
		clock:    opts.Clock,
		logger:   opts.Logger,
		lastSeen: make(map[int64]time.Time),
	}
}

// Middleware acknowledges too-fast presses with a short notice and skips next
func (l *CallbackLimiter) Middleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		cb, user := c.Callback(), c.Sender()
		if cb == nil || user == nil || l.interval <= 0 || user.ID == l.adminID {
			return next(c)
		}
		if _, ok := l.exempt[callbackUnique(cb)]; ok {
			return next(c)
		}

		if !l.allow(user.ID) {
			Logger(c, l.logger).Debug("Callback rate limited",
				zap.Int64("user_id", user.ID),
				zap.String("unique", callbackUnique(cb)),
			)
			return c.Respond(&tele.CallbackResponse{Text: callbackTooFastText})
		}
		return next(c)
	}
}

func (l *CallbackLimiter) allow(userID int64) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.lastSeen[userID]; ok && now.Sub(last) < l.interval {
		return false
	}
	l.lastSeen[userID] = now
	return true
}

// Sweep forgets users idle longer than idleAfter
func (l *CallbackLimiter) Sweep(_ context.Context, idleAfter time.Duration) (int, error) {
	cutoff := l.clock.Now().Add(-idleAfter)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for userID, last := range l.lastSeen {
		if last.Before(cutoff) {
			delete(l.lastSeen, userID)
			removed++
		}
	}
	return removed, nil
}

// callbackUnique returns the button unique, parsing raw data when the
// router did not match a registered button
func callbackUnique(cb *tele.Callback) string {
	if cb.Unique != "" {
		return cb.Unique
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	unique, _, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(unique)
}
