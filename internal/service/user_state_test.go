package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"anonbot/internal/domain"
	"anonbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserStateService_GetState(t *testing.T) {
	tests := []struct {
		name         string
		mockReturn   *domain.UserConversationState
		mockError    error
		expected     domain.UserState
		expectedCanQ bool
	}{
		{
			name:         "unknown user is idle",
			mockReturn:   nil,
			expected:     domain.StateIdle,
			expectedCanQ: true,
		},
		{
			name:         "awaiting question",
			mockReturn:   &domain.UserConversationState{UserID: 1, State: domain.StateAwaitingQuestion},
			expected:     domain.StateAwaitingQuestion,
			expectedCanQ: true,
		},
		{
			name:         "question sent",
			mockReturn:   &domain.UserConversationState{UserID: 1, State: domain.StateQuestionSent},
			expected:     domain.StateQuestionSent,
			expectedCanQ: false,
		},
		{
			name:         "corrupted state reads as idle",
			mockReturn:   &domain.UserConversationState{UserID: 1, State: "banana"},
			expected:     domain.StateIdle,
			expectedCanQ: true,
		},
		{
			name:         "storage failure fails open",
			mockError:    fmt.Errorf("db error"),
			expected:     domain.StateIdle,
			expectedCanQ: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockStateRepository)
			mockRepo.On("Get", mock.Anything, int64(1)).Return(tt.mockReturn, tt.mockError)

			service := NewUserStateService(mockRepo, testutil.NewTestClock(), testutil.NewTestLogger())

			assert.Equal(t, tt.expected, service.GetState(context.Background(), 1))
			assert.Equal(t, tt.expectedCanQ, service.CanSendQuestion(context.Background(), 1))

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserStateService_SetState(t *testing.T) {
	ctx := context.Background()

	t.Run("question sent records the question", func(t *testing.T) {
		mockRepo := new(testutil.MockStateRepository)
		clock := testutil.NewTestClock()
		mockRepo.On("RecordQuestion", mock.Anything, int64(1), testutil.Epoch).Return(nil)

		service := NewUserStateService(mockRepo, clock, testutil.NewTestLogger())

		assert.NoError(t, service.SetState(ctx, 1, domain.StateQuestionSent))
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("other states upsert", func(t *testing.T) {
		mockRepo := new(testutil.MockStateRepository)
		mockRepo.On("Upsert", mock.Anything, int64(1), domain.StateAwaitingQuestion, testutil.Epoch).Return(nil)
		mockRepo.On("Upsert", mock.Anything, int64(1), domain.StateIdle, testutil.Epoch).Return(nil)

		service := NewUserStateService(mockRepo, testutil.NewTestClock(), testutil.NewTestLogger())

		assert.NoError(t, service.AllowNewQuestion(ctx, 1))
		assert.NoError(t, service.ResetToIdle(ctx, 1))
		mockRepo.AssertExpectations(t)
	})

	t.Run("storage failure is reported", func(t *testing.T) {
		mockRepo := new(testutil.MockStateRepository)
		mockRepo.On("Upsert", mock.Anything, int64(1), domain.StateIdle, mock.Anything).Return(fmt.Errorf("disk full"))

		service := NewUserStateService(mockRepo, testutil.NewTestClock(), testutil.NewTestLogger())

		assert.Error(t, service.ResetToIdle(ctx, 1))
	})

	t.Run("invalid state is rejected", func(t *testing.T) {
		mockRepo := new(testutil.MockStateRepository)
		service := NewUserStateService(mockRepo, testutil.NewTestClock(), testutil.NewTestLogger())

		assert.Error(t, service.SetState(ctx, 1, "flying"))
		mockRepo.AssertExpectations(t)
	})
}

func TestUserStateService_CleanupOldStates(t *testing.T) {
	mockRepo := new(testutil.MockStateRepository)
	clock := testutil.NewTestClock()
	mockRepo.On("ResetStale", mock.Anything, testutil.Epoch.Add(-24*time.Hour), testutil.Epoch).Return(int64(3), nil)

	service := NewUserStateService(mockRepo, clock, testutil.NewTestLogger())

	n, err := service.CleanupOldStates(context.Background(), 24*time.Hour)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	mockRepo.AssertExpectations(t)
}
