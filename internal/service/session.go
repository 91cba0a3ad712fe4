package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"anonbot/internal/domain"
	"anonbot/internal/repository"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long the admin stays in answer mode
const DefaultSessionTTL = 30 * time.Minute

// SessionService tracks the admin's answer mode.
//
// There is a single slot per admin: a new StartAnswerMode replaces whatever
// was there, and the next free-text message from the admin always answers the
// question in that slot. Sessions are persisted and cached in memory.
type SessionService struct {
	sessions  repository.SessionRepository
	questions repository.QuestionRepository
	clock     clockwork.Clock
	ttl       time.Duration
	logger    *zap.Logger

	mu    sync.Mutex
	cache map[int64]*domain.AnswerSession
	// loaded marks admins whose cache entry (or its absence) matches storage
	loaded map[int64]bool
}

// NewSessionService creates a new session service
func NewSessionService(
	sessions repository.SessionRepository,
	questions repository.QuestionRepository,
	clock clockwork.Clock,
	ttl time.Duration,
	logger *zap.Logger,
) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		sessions:  sessions,
		questions: questions,
		clock:     clock,
		ttl:       ttl,
		logger:    logger,
		cache:     make(map[int64]*domain.AnswerSession),
		loaded:    make(map[int64]bool),
	}
}

// StartAnswerMode puts the admin into answer mode for the question.
// snapshot overrides the stored question text shown in the session.
func (s *SessionService) StartAnswerMode(ctx context.Context, adminID, questionID int64, snapshot string) (*domain.AnswerSession, error) {
	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}
	if q == nil {
		return nil, domain.ErrQuestionNotFound
	}
	if err := q.Answerable(); err != nil {
		return nil, err
	}

	text := snapshot
	if text == "" {
		text = q.Text
	}

	now := s.clock.Now().UTC()
	session := &domain.AnswerSession{
		AdminID:      adminID,
		QuestionID:   q.ID,
		QuestionText: text,
		TargetUserID: q.UserID,
		Mode:         domain.ModeWaitingAnswer,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Save(ctx, session); err != nil {
		// the stored row is unknown now; drop both copies
		delete(s.cache, adminID)
		delete(s.loaded, adminID)
		if delErr := s.sessions.Delete(ctx, adminID); delErr != nil {
			s.logger.Warn("Failed to roll back answer session",
				zap.Int64("admin_id", adminID),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to save answer session: %w", err)
	}

	s.cache[adminID] = session
	s.loaded[adminID] = true

	s.logger.Info("Answer mode started",
		zap.Int64("admin_id", adminID),
		zap.Int64("question_id", q.ID),
	)

	return session, nil
}

// Active returns the admin's unexpired session or nil
func (s *SessionService) Active(ctx context.Context, adminID int64) *domain.AnswerSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked(ctx, adminID)
}

func (s *SessionService) activeLocked(ctx context.Context, adminID int64) *domain.AnswerSession {
	session, ok := s.cache[adminID]
	if !ok && !s.loaded[adminID] {
		stored, err := s.sessions.Get(ctx, adminID)
		if err != nil {
			s.logger.Warn("Failed to read answer session, assuming none",
				zap.Int64("admin_id", adminID),
				zap.Error(err),
			)
			return nil
		}
		s.loaded[adminID] = true
		if stored == nil {
			return nil
		}
		s.cache[adminID] = stored
		session = stored
	}
	if session == nil {
		return nil
	}

	if session.IsExpired(s.clock.Now()) {
		s.logger.Info("Answer session expired",
			zap.Int64("admin_id", adminID),
			zap.Int64("question_id", session.QuestionID),
		)
		s.dropLocked(ctx, adminID)
		return nil
	}
	return session
}

// dropLocked removes the session from cache and storage; storage errors are logged
func (s *SessionService) dropLocked(ctx context.Context, adminID int64) {
	delete(s.cache, adminID)
	s.loaded[adminID] = true
	if err := s.sessions.Delete(ctx, adminID); err != nil {
		s.logger.Warn("Failed to delete answer session",
			zap.Int64("admin_id", adminID),
			zap.Error(err),
		)
	}
}

// IsInAnswerMode reports whether the admin has an unexpired session
func (s *SessionService) IsInAnswerMode(ctx context.Context, adminID int64) bool {
	return s.Active(ctx, adminID) != nil
}

// HandleAnswer saves text as the answer to the session's question.
//
// ErrNoActiveSession means the message is not an answer. ErrEmptyAnswer keeps
// the session so the admin can retry. Otherwise the session is cleared before
// the answer is written, and the question is checked again at write time.
func (s *SessionService) HandleAnswer(ctx context.Context, adminID int64, text string) (*domain.Question, error) {
	s.mu.Lock()
	session := s.activeLocked(ctx, adminID)
	if session == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveSession
	}

	answer := strings.TrimSpace(text)
	if answer == "" {
		s.mu.Unlock()
		return nil, domain.ErrEmptyAnswer
	}

	s.dropLocked(ctx, adminID)
	s.mu.Unlock()

	return s.saveAnswer(ctx, adminID, session.QuestionID, answer)
}

// AnswerByReply answers a question directly, used when the admin replies to a
// question notification instead of using answer mode
func (s *SessionService) AnswerByReply(ctx context.Context, adminID, questionID int64, text string) (*domain.Question, error) {
	answer := strings.TrimSpace(text)
	if answer == "" {
		return nil, domain.ErrEmptyAnswer
	}

	s.mu.Lock()
	if session := s.activeLocked(ctx, adminID); session != nil && session.QuestionID == questionID {
		s.dropLocked(ctx, adminID)
	}
	s.mu.Unlock()

	return s.saveAnswer(ctx, adminID, questionID, answer)
}

func (s *SessionService) saveAnswer(ctx context.Context, adminID, questionID int64, answer string) (*domain.Question, error) {
	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}
	if q == nil {
		return nil, domain.ErrQuestionNotFound
	}
	if err := q.Answerable(); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	saved, err := s.questions.SaveAnswer(ctx, questionID, answer, now)
	if err != nil {
		return nil, fmt.Errorf("failed to save answer for question %d: %w", questionID, err)
	}
	if !saved {
		// answered or deleted between the check and the write
		return nil, domain.ErrQuestionAnswered
	}

	q.Answer = &answer
	q.AnsweredAt = &now

	s.logger.Info("Answer saved",
		zap.Int64("admin_id", adminID),
		zap.Int64("question_id", questionID),
	)

	return q, nil
}

// CancelAnswerMode leaves answer mode. It reports whether a session existed.
func (s *SessionService) CancelAnswerMode(ctx context.Context, adminID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.activeLocked(ctx, adminID)

	delete(s.cache, adminID)
	if err := s.sessions.Delete(ctx, adminID); err != nil {
		delete(s.loaded, adminID)
		return session != nil, fmt.Errorf("failed to delete answer session: %w", err)
	}
	s.loaded[adminID] = true

	return session != nil, nil
}

// Sweep removes expired sessions from memory and storage
func (s *SessionService) Sweep(ctx context.Context) (int64, error) {
	now := s.clock.Now()

	s.mu.Lock()
	var cached int
	for adminID, session := range s.cache {
		if session.IsExpired(now) {
			delete(s.cache, adminID)
			cached++
		}
	}
	s.mu.Unlock()

	stored, err := s.sessions.DeleteExpired(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	if cached > 0 || stored > 0 {
		s.logger.Info("Expired answer sessions removed",
			zap.Int("cached", cached),
			zap.Int64("stored", stored),
		)
	}
	return stored, nil
}
