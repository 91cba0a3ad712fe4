package sqlstore

import (
	"context"
	"testing"
	"time"

	"anonbot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSessionRepo_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)
	created := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	expires := created.Add(30 * time.Minute)

	mock.ExpectQuery("SELECT admin_id, question_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"admin_id", "question_id", "question_text", "target_user_id", "mode", "created_at", "expires_at",
		}).AddRow(1, 42, "why?", 777, "waiting_answer", created, expires))

	s, err := repo.Get(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, &domain.AnswerSession{
		AdminID:      1,
		QuestionID:   42,
		QuestionText: "why?",
		TargetUserID: 777,
		Mode:         domain.ModeWaitingAnswer,
		CreatedAt:    created,
		ExpiresAt:    expires,
	}, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)
	now := time.Now().UTC()
	s := &domain.AnswerSession{
		AdminID:      1,
		QuestionID:   42,
		TargetUserID: 777,
		Mode:         domain.ModeWaitingAnswer,
		CreatedAt:    now,
		ExpiresAt:    now.Add(30 * time.Minute),
	}

	mock.ExpectExec("INSERT INTO admin_sessions").
		WithArgs(int64(1), int64(42), "", int64(777), "waiting_answer", s.CreatedAt, s.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.Save(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)
	now := time.Now().UTC()

	mock.ExpectExec("DELETE FROM admin_sessions WHERE expires_at").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteExpired(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
