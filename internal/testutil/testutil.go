package testutil

import (
	"context"
	"time"

	"anonbot/internal/domain"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Epoch is the fixed start time of fake clocks in tests
var Epoch = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestClock creates a fake clock at Epoch
func NewTestClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(Epoch)
}

// DefaultSettings are the limits used across tests
func DefaultSettings() domain.Settings {
	return domain.Settings{
		QuestionsPerHour:  5,
		CooldownSeconds:   30,
		MinQuestionLength: 5,
		MaxQuestionLength: 2000,
	}
}

// StaticSettings returns fixed settings
type StaticSettings struct {
	Settings domain.Settings
}

func (s *StaticSettings) Get(context.Context) domain.Settings {
	return s.Settings
}

// NewTestQuestion creates an unanswered test question
func NewTestQuestion(id, userID int64, text string) *domain.Question {
	return &domain.Question{
		ID:        id,
		UserID:    userID,
		Text:      text,
		CreatedAt: Epoch,
	}
}

// NewAnsweredQuestion creates an answered test question
func NewAnsweredQuestion(id, userID int64, text, answer string) *domain.Question {
	q := NewTestQuestion(id, userID, text)
	answeredAt := Epoch
	q.Answer = &answer
	q.AnsweredAt = &answeredAt
	return q
}
