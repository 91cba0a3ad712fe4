package service

import (
	"context"
	"fmt"
	"time"

	"anonbot/internal/domain"
	"anonbot/internal/repository"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// UserStateService tracks each user's position in the question flow.
//
// CanSendQuestion followed by SetState is not atomic: two messages from the same
// user arriving together may both pass the check. The question rate limiter is
// the backstop for that window.
type UserStateService struct {
	repo   repository.StateRepository
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewUserStateService creates a new user state service
func NewUserStateService(repo repository.StateRepository, clock clockwork.Clock, logger *zap.Logger) *UserStateService {
	return &UserStateService{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

// GetState returns the user's state. Unknown users and read failures yield idle.
func (s *UserStateService) GetState(ctx context.Context, userID int64) domain.UserState {
	st, err := s.repo.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to read user state, assuming idle",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return domain.StateIdle
	}
	if st == nil || !st.State.Valid() {
		return domain.StateIdle
	}
	return st.State
}

// SetState stores the new state. Entering question_sent also bumps the
// question counter and stamps the time.
func (s *UserStateService) SetState(ctx context.Context, userID int64, state domain.UserState) error {
	if !state.Valid() {
		return fmt.Errorf("invalid user state %q", state)
	}

	now := s.clock.Now().UTC()

	var err error
	if state == domain.StateQuestionSent {
		err = s.repo.RecordQuestion(ctx, userID, now)
	} else {
		err = s.repo.Upsert(ctx, userID, state, now)
	}
	if err != nil {
		s.logger.Error("Failed to save user state",
			zap.Int64("user_id", userID),
			zap.String("state", string(state)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set state %s for user %d: %w", state, userID, err)
	}
	return nil
}

// CanSendQuestion reports whether the user may submit a new question
func (s *UserStateService) CanSendQuestion(ctx context.Context, userID int64) bool {
	return s.GetState(ctx, userID).CanSendQuestion()
}

// AllowNewQuestion moves the user to awaiting_question
func (s *UserStateService) AllowNewQuestion(ctx context.Context, userID int64) error {
	return s.SetState(ctx, userID, domain.StateAwaitingQuestion)
}

// ResetToIdle moves the user to idle
func (s *UserStateService) ResetToIdle(ctx context.Context, userID int64) error {
	return s.SetState(ctx, userID, domain.StateIdle)
}

// CleanupOldStates returns users stuck outside idle for longer than olderThan back to idle
func (s *UserStateService) CleanupOldStates(ctx context.Context, olderThan time.Duration) (int64, error) {
	now := s.clock.Now().UTC()
	n, err := s.repo.ResetStale(ctx, now.Add(-olderThan), now)
	if err != nil {
		return 0, fmt.Errorf("failed to reset stale states: %w", err)
	}
	return n, nil
}
