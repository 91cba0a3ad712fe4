package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"anonbot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var stateColumns = []string{"user_id", "state", "last_question_at", "questions_count", "created_at", "updated_at"}

func TestStateRepo_Get(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		userID        int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedState *domain.UserConversationState
		expectedError bool
	}{
		{
			name:     "existing state",
			userID:   123,
			mockRows: sqlmock.NewRows(stateColumns).AddRow(123, "question_sent", now, 3, now, now),
			expectedState: &domain.UserConversationState{
				UserID:         123,
				State:          domain.StateQuestionSent,
				LastQuestionAt: &now,
				QuestionsCount: 3,
				CreatedAt:      now,
				UpdatedAt:      now,
			},
		},
		{
			name:          "user without state",
			userID:        456,
			mockError:     sql.ErrNoRows,
			expectedState: nil,
		},
		{
			name:          "database error",
			userID:        789,
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewStateRepo(db)

			query := "SELECT user_id, state, last_question_at, questions_count, created_at, updated_at FROM user_states"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnRows(tt.mockRows)
			}

			st, err := repo.Get(context.Background(), tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedState, st)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStateRepo_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStateRepo(db)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO user_states").
		WithArgs(int64(123), "awaiting_question", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), 123, domain.StateAwaitingQuestion, now)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateRepo_RecordQuestion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStateRepo(db)
	now := time.Now().UTC()

	// the counter increment must happen in the same statement as the state change
	mock.ExpectExec(`questions_count = user_states.questions_count \+ 1`).
		WithArgs(int64(123), "question_sent", now, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.RecordQuestion(context.Background(), 123, now)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateRepo_ResetStale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStateRepo(db)
	now := time.Now().UTC()
	cutoff := now.Add(-24 * time.Hour)

	mock.ExpectExec("UPDATE user_states").
		WithArgs("idle", now, "idle", cutoff).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.ResetStale(context.Background(), cutoff, now)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
