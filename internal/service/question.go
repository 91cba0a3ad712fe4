package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"anonbot/internal/domain"
	"anonbot/internal/repository"

	"github.com/jonboulle/clockwork"
)

// SettingsReader returns the current runtime settings
type SettingsReader interface {
	Get(ctx context.Context) domain.Settings
}

// QuestionService handles question-related business logic
type QuestionService struct {
	repo     repository.QuestionRepository
	settings SettingsReader
	clock    clockwork.Clock
}

// NewQuestionService creates a new question service
func NewQuestionService(repo repository.QuestionRepository, settings SettingsReader, clock clockwork.Clock) *QuestionService {
	return &QuestionService{
		repo:     repo,
		settings: settings,
		clock:    clock,
	}
}

// Submit validates and stores a question
func (s *QuestionService) Submit(ctx context.Context, userID int64, text string) (*domain.Question, error) {
	text = strings.TrimSpace(text)

	limits := s.settings.Get(ctx)
	length := utf8.RuneCountInString(text)
	if length < limits.MinQuestionLength {
		return nil, domain.ErrQuestionTooShort
	}
	if limits.MaxQuestionLength > 0 && length > limits.MaxQuestionLength {
		return nil, domain.ErrQuestionTooLong
	}

	q, err := s.repo.Create(ctx, userID, text, s.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to save question: %w", err)
	}
	return q, nil
}

// Get returns a question or ErrQuestionNotFound
func (s *QuestionService) Get(ctx context.Context, id int64) (*domain.Question, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrQuestionNotFound
	}
	return q, nil
}

// Pending returns unanswered questions, oldest first
func (s *QuestionService) Pending(ctx context.Context, limit int) ([]domain.Question, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListPending(ctx, limit)
}

// Delete soft-deletes a question
func (s *QuestionService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}
	if !deleted {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// AttachAdminMessage links a question to the admin notification message
func (s *QuestionService) AttachAdminMessage(ctx context.Context, id int64, messageID int) error {
	return s.repo.SetAdminMessage(ctx, id, messageID)
}

// FindByAdminMessage returns the question announced by messageID
func (s *QuestionService) FindByAdminMessage(ctx context.Context, messageID int) (*domain.Question, error) {
	q, err := s.repo.GetByAdminMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrQuestionNotFound
	}
	return q, nil
}

// Stats returns aggregate counters
func (s *QuestionService) Stats(ctx context.Context) (domain.QuestionStats, error) {
	return s.repo.Stats(ctx)
}
