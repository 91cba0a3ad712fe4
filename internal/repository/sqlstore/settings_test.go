package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSettingsRepo_All(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepo(db)

	mock.ExpectQuery("SELECT key, value FROM settings").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("cooldown_seconds", 60).
			AddRow("questions_per_hour", 3))

	values, err := repo.All(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"cooldown_seconds": 60, "questions_per_hour": 3}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepo_Set(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepo(db)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO settings").
		WithArgs("cooldown_seconds", 45, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Set(context.Background(), "cooldown_seconds", 45, now)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
