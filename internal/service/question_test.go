package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"anonbot/internal/domain"
	"anonbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestQuestionService_Submit(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		stored        string
		mockError     error
		expectedError error
		expectSave    bool
	}{
		{
			name:       "valid question",
			text:       "  how are you?  ",
			stored:     "how are you?",
			expectSave: true,
		},
		{
			name:          "too short",
			text:          "hey",
			expectedError: domain.ErrQuestionTooShort,
		},
		{
			name:          "whitespace only",
			text:          "        ",
			expectedError: domain.ErrQuestionTooShort,
		},
		{
			name:          "too long",
			text:          strings.Repeat("a", 2001),
			expectedError: domain.ErrQuestionTooLong,
		},
		{
			name:       "length counts runes",
			text:       "привет",
			stored:     "привет",
			expectSave: true,
		},
		{
			name:       "database error",
			text:       "is this saved?",
			stored:     "is this saved?",
			mockError:  fmt.Errorf("db error"),
			expectSave: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockQuestionRepository)
			settings := &testutil.StaticSettings{Settings: testutil.DefaultSettings()}
			if tt.expectSave {
				var ret *domain.Question
				if tt.mockError == nil {
					ret = testutil.NewTestQuestion(1, 123, tt.stored)
				}
				mockRepo.On("Create", mock.Anything, int64(123), tt.stored, testutil.Epoch).Return(ret, tt.mockError)
			}

			service := NewQuestionService(mockRepo, settings, testutil.NewTestClock())

			q, err := service.Submit(context.Background(), 123, tt.text)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.mockError != nil:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.stored, q.Text)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestQuestionService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		deleted       bool
		mockError     error
		expectedError error
	}{
		{name: "deleted", deleted: true},
		{name: "already deleted or missing", deleted: false, expectedError: domain.ErrQuestionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockQuestionRepository)
			mockRepo.On("SoftDelete", mock.Anything, int64(5)).Return(tt.deleted, tt.mockError)

			service := NewQuestionService(mockRepo, &testutil.StaticSettings{}, testutil.NewTestClock())

			err := service.Delete(context.Background(), 5)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestQuestionService_Pending(t *testing.T) {
	mockRepo := new(testutil.MockQuestionRepository)
	mockRepo.On("ListPending", mock.Anything, 10).Return([]domain.Question{*testutil.NewTestQuestion(1, 2, "q")}, nil)

	service := NewQuestionService(mockRepo, &testutil.StaticSettings{}, testutil.NewTestClock())

	questions, err := service.Pending(context.Background(), 0)

	assert.NoError(t, err)
	assert.Len(t, questions, 1)
	mockRepo.AssertExpectations(t)
}

func TestQuestionService_FindByAdminMessage(t *testing.T) {
	mockRepo := new(testutil.MockQuestionRepository)
	mockRepo.On("GetByAdminMessage", mock.Anything, 55).Return(nil, nil)

	service := NewQuestionService(mockRepo, &testutil.StaticSettings{}, testutil.NewTestClock())

	_, err := service.FindByAdminMessage(context.Background(), 55)

	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}
