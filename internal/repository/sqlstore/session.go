package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"anonbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

// SessionRepo implements repository.SessionRepository
type SessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo creates a new admin session repository
func NewSessionRepo(db *sqlx.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Get returns the admin's session, expired or not
func (r *SessionRepo) Get(ctx context.Context, adminID int64) (*domain.AnswerSession, error) {
	var s domain.AnswerSession
	query := `
		SELECT admin_id, question_id, question_text, target_user_id, mode, created_at, expires_at
		FROM admin_sessions
		WHERE admin_id = ?
	`
	err := r.db.GetContext(ctx, &s, r.db.Rebind(query), adminID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save replaces any existing session for the admin
func (r *SessionRepo) Save(ctx context.Context, s *domain.AnswerSession) error {
	query := `
		INSERT INTO admin_sessions (admin_id, question_id, question_text, target_user_id, mode, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (admin_id)
		DO UPDATE SET question_id = excluded.question_id,
			question_text = excluded.question_text,
			target_user_id = excluded.target_user_id,
			mode = excluded.mode,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		s.AdminID, s.QuestionID, s.QuestionText, s.TargetUserID, string(s.Mode), s.CreatedAt, s.ExpiresAt,
	)
	return err
}

// Delete removes the admin's session
func (r *SessionRepo) Delete(ctx context.Context, adminID int64) error {
	query := `DELETE FROM admin_sessions WHERE admin_id = ?`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), adminID)
	return err
}

// DeleteExpired removes sessions whose expiry is not after now
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM admin_sessions WHERE expires_at <= ?`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
