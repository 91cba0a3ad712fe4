// Package ratelimit gates question submissions with a per-user cooldown and a
// trailing one-hour quota. Thresholds are read on every check so admin changes
// apply immediately.
package ratelimit

import (
	"context"
	"time"

	"anonbot/internal/domain"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Window is the trailing period the hourly quota counts over
const Window = time.Hour

// Reason explains a decision
type Reason int

const (
	ReasonAllowed Reason = iota
	ReasonCooldown
	ReasonHourlyLimit
)

// Limits are the thresholds in force for a single check
type Limits struct {
	Cooldown time.Duration
	// PerHour <= 0 disables the quota
	PerHour int
}

// Decision is the outcome of a check
type Decision struct {
	Allowed    bool
	Reason     Reason
	RetryAfter time.Duration
	// Used counts accepted questions in the window, including this one when allowed
	Used  int
	Limit int
}

// Store keeps per-user windows. Allow must check and record in one step.
type Store interface {
	Allow(ctx context.Context, userID int64, now time.Time, limits Limits) (Decision, error)
	// Sweep drops users not seen since cutoff
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

// SettingsProvider returns the current runtime settings
type SettingsProvider interface {
	Get(ctx context.Context) domain.Settings
}

// Limiter applies current settings to a Store
type Limiter struct {
	store    Store
	settings SettingsProvider
	clock    clockwork.Clock
	logger   *zap.Logger
}

// NewLimiter creates a new question limiter
func NewLimiter(store Store, settings SettingsProvider, clock clockwork.Clock, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:    store,
		settings: settings,
		clock:    clock,
		logger:   logger,
	}
}

// Allow checks and, when accepted, records a question attempt.
// A store failure admits the question.
func (l *Limiter) Allow(ctx context.Context, userID int64) Decision {
	s := l.settings.Get(ctx)
	limits := Limits{
		Cooldown: time.Duration(s.CooldownSeconds) * time.Second,
		PerHour:  s.QuestionsPerHour,
	}

	d, err := l.store.Allow(ctx, userID, l.clock.Now(), limits)
	if err != nil {
		l.logger.Error("Rate limit store failed, admitting question",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return Decision{Allowed: true, Reason: ReasonAllowed, Limit: limits.PerHour}
	}
	return d
}

// Sweep drops tracking for users idle longer than idleAfter
func (l *Limiter) Sweep(ctx context.Context, idleAfter time.Duration) (int, error) {
	return l.store.Sweep(ctx, l.clock.Now().Add(-idleAfter))
}

func evaluate(firstSent bool, last time.Time, times []time.Time, now time.Time, limits Limits) Decision {
	if firstSent && limits.Cooldown > 0 {
		if elapsed := now.Sub(last); elapsed < limits.Cooldown {
			return Decision{
				Reason:     ReasonCooldown,
				RetryAfter: limits.Cooldown - elapsed,
				Used:       len(times),
				Limit:      limits.PerHour,
			}
		}
	}

	if limits.PerHour > 0 && len(times) >= limits.PerHour {
		return Decision{
			Reason:     ReasonHourlyLimit,
			RetryAfter: times[0].Add(Window).Sub(now),
			Used:       len(times),
			Limit:      limits.PerHour,
		}
	}

	return Decision{
		Allowed: true,
		Reason:  ReasonAllowed,
		Used:    len(times) + 1,
		Limit:   limits.PerHour,
	}
}

// prune drops timestamps that have left the window; times is oldest first
func prune(times []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(times) && now.Sub(times[i]) >= Window {
		i++
	}
	return times[i:]
}
