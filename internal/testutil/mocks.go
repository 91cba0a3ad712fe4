package testutil

import (
	"context"
	"time"

	"anonbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockStateRepository is a mock for StateRepository
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) Get(ctx context.Context, userID int64) (*domain.UserConversationState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserConversationState), args.Error(1)
}

func (m *MockStateRepository) Upsert(ctx context.Context, userID int64, state domain.UserState, now time.Time) error {
	args := m.Called(ctx, userID, state, now)
	return args.Error(0)
}

func (m *MockStateRepository) RecordQuestion(ctx context.Context, userID int64, now time.Time) error {
	args := m.Called(ctx, userID, now)
	return args.Error(0)
}

func (m *MockStateRepository) ResetStale(ctx context.Context, cutoff, now time.Time) (int64, error) {
	args := m.Called(ctx, cutoff, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionRepository is a mock for SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, adminID int64) (*domain.AnswerSession, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnswerSession), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *domain.AnswerSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, adminID int64) error {
	args := m.Called(ctx, adminID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuestionRepository is a mock for QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, userID int64, text string, now time.Time) (*domain.Question, error) {
	args := m.Called(ctx, userID, text, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Get(ctx context.Context, id int64) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListPending(ctx context.Context, limit int) ([]domain.Question, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) SaveAnswer(ctx context.Context, id int64, answer string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, answer, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionRepository) SetAdminMessage(ctx context.Context, id int64, messageID int) error {
	args := m.Called(ctx, id, messageID)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByAdminMessage(ctx context.Context, messageID int) (*domain.Question, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Stats(ctx context.Context) (domain.QuestionStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.QuestionStats), args.Error(1)
}

// MockSettingsRepository is a mock for SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) All(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockSettingsRepository) Set(ctx context.Context, key string, value int, now time.Time) error {
	args := m.Called(ctx, key, value, now)
	return args.Error(0)
}
