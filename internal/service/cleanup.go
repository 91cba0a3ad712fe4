package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type stateSweeper interface {
	CleanupOldStates(ctx context.Context, olderThan time.Duration) (int64, error)
}

type sessionSweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

type rateLimitSweeper interface {
	Sweep(ctx context.Context, idleAfter time.Duration) (int, error)
}

// CleanupService runs the periodic sweeps
type CleanupService struct {
	states         stateSweeper
	sessions       sessionSweeper
	limiters       []rateLimitSweeper
	stateIdleAfter time.Duration
	limitIdleAfter time.Duration
	logger         *zap.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(
	states stateSweeper,
	sessions sessionSweeper,
	stateIdleAfter, limitIdleAfter time.Duration,
	logger *zap.Logger,
	limiters ...rateLimitSweeper,
) *CleanupService {
	return &CleanupService{
		states:         states,
		sessions:       sessions,
		limiters:       limiters,
		stateIdleAfter: stateIdleAfter,
		limitIdleAfter: limitIdleAfter,
		logger:         logger,
	}
}

// CleanupStates resets users stuck outside idle
func (s *CleanupService) CleanupStates(ctx context.Context) error {
	n, err := s.states.CleanupOldStates(ctx, s.stateIdleAfter)
	if err != nil {
		s.logger.Error("Failed to cleanup user states", zap.Error(err))
		return err
	}
	s.logger.Info("User state cleanup completed",
		zap.Int64("reset", n),
		zap.Duration("idle_after", s.stateIdleAfter),
	)
	return nil
}

// CleanupSessions removes expired answer sessions
func (s *CleanupService) CleanupSessions(ctx context.Context) error {
	if _, err := s.sessions.Sweep(ctx); err != nil {
		s.logger.Error("Failed to cleanup answer sessions", zap.Error(err))
		return err
	}
	return nil
}

// CleanupRateLimits drops rate-limit tracking for inactive users
func (s *CleanupService) CleanupRateLimits(ctx context.Context) error {
	removed := 0
	for _, limiter := range s.limiters {
		n, err := limiter.Sweep(ctx, s.limitIdleAfter)
		if err != nil {
			s.logger.Error("Failed to cleanup rate limit windows", zap.Error(err))
			return err
		}
		removed += n
	}
	if removed > 0 {
		s.logger.Debug("Rate limit windows removed", zap.Int("removed", removed))
	}
	return nil
}

// CleanupAll runs every sweep once, returning the first error
func (s *CleanupService) CleanupAll(ctx context.Context) error {
	var firstErr error
	for _, run := range []func(context.Context) error{
		s.CleanupSessions,
		s.CleanupStates,
		s.CleanupRateLimits,
	} {
		if err := run(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
