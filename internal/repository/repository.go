package repository

import (
	"context"
	"time"

	"anonbot/internal/domain"
)

// StateRepository defines user conversation state operations
type StateRepository interface {
	Get(ctx context.Context, userID int64) (*domain.UserConversationState, error)
	Upsert(ctx context.Context, userID int64, state domain.UserState, now time.Time) error
	// RecordQuestion moves the user to question_sent, bumping the counter and stamping the time in one statement
	RecordQuestion(ctx context.Context, userID int64, now time.Time) error
	ResetStale(ctx context.Context, cutoff, now time.Time) (int64, error)
}

// SessionRepository defines admin answer session operations
type SessionRepository interface {
	Get(ctx context.Context, adminID int64) (*domain.AnswerSession, error)
	Save(ctx context.Context, session *domain.AnswerSession) error
	Delete(ctx context.Context, adminID int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// QuestionRepository defines question data operations
type QuestionRepository interface {
	Create(ctx context.Context, userID int64, text string, now time.Time) (*domain.Question, error)
	Get(ctx context.Context, id int64) (*domain.Question, error)
	ListPending(ctx context.Context, limit int) ([]domain.Question, error)
	// SaveAnswer reports false when the question was already answered or deleted
	SaveAnswer(ctx context.Context, id int64, answer string, now time.Time) (bool, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
	SetAdminMessage(ctx context.Context, id int64, messageID int) error
	GetByAdminMessage(ctx context.Context, messageID int) (*domain.Question, error)
	Stats(ctx context.Context) (domain.QuestionStats, error)
}

// SettingsRepository defines runtime settings storage
type SettingsRepository interface {
	All(ctx context.Context) (map[string]int, error)
	Set(ctx context.Context, key string, value int, now time.Time) error
}
