package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"anonbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

// StateRepo implements repository.StateRepository
type StateRepo struct {
	db *sqlx.DB
}

// NewStateRepo creates a new user state repository
func NewStateRepo(db *sqlx.DB) *StateRepo {
	return &StateRepo{db: db}
}

// Get returns the stored state or nil when the user has none
func (r *StateRepo) Get(ctx context.Context, userID int64) (*domain.UserConversationState, error) {
	var st domain.UserConversationState
	query := `
		SELECT user_id, state, last_question_at, questions_count, created_at, updated_at
		FROM user_states
		WHERE user_id = ?
	`
	err := r.db.GetContext(ctx, &st, r.db.Rebind(query), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Upsert sets the state without touching question counters
func (r *StateRepo) Upsert(ctx context.Context, userID int64, state domain.UserState, now time.Time) error {
	query := `
		INSERT INTO user_states (user_id, state, questions_count, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
		ON CONFLICT (user_id)
		DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), userID, string(state), now, now)
	return err
}

// RecordQuestion marks a question as sent
func (r *StateRepo) RecordQuestion(ctx context.Context, userID int64, now time.Time) error {
	query := `
		INSERT INTO user_states (user_id, state, last_question_at, questions_count, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (user_id)
		DO UPDATE SET state = excluded.state,
			last_question_at = excluded.last_question_at,
			questions_count = user_states.questions_count + 1,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		userID, string(domain.StateQuestionSent), now, now, now,
	)
	return err
}

// ResetStale forces non-idle states untouched since cutoff back to idle
func (r *StateRepo) ResetStale(ctx context.Context, cutoff, now time.Time) (int64, error) {
	query := `
		UPDATE user_states
		SET state = ?, updated_at = ?
		WHERE state <> ? AND updated_at < ?
	`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		string(domain.StateIdle), now, string(domain.StateIdle), cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
