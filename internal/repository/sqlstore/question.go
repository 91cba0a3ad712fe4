package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"anonbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

const questionColumns = `id, user_id, text, answer, answered_at, is_deleted, admin_message_id, created_at`

// QuestionRepo implements repository.QuestionRepository
type QuestionRepo struct {
	db *sqlx.DB
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *sqlx.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create stores a new question and returns it with its id
func (r *QuestionRepo) Create(ctx context.Context, userID int64, text string, now time.Time) (*domain.Question, error) {
	query := `
		INSERT INTO questions (user_id, text, is_deleted, created_at)
		VALUES (?, ?, FALSE, ?)
		RETURNING id
	`
	q := &domain.Question{
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), userID, text, now).Scan(&q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

// Get returns a question by id, deleted ones included; nil when missing
func (r *QuestionRepo) Get(ctx context.Context, id int64) (*domain.Question, error) {
	var q domain.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = ?`
	err := r.db.GetContext(ctx, &q, r.db.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListPending returns the oldest unanswered questions first
func (r *QuestionRepo) ListPending(ctx context.Context, limit int) ([]domain.Question, error) {
	var questions []domain.Question
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE answer IS NULL AND is_deleted = FALSE
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &questions, r.db.Rebind(query), limit); err != nil {
		return nil, err
	}
	return questions, nil
}

// SaveAnswer writes the answer only if nobody answered or deleted the question first
func (r *QuestionRepo) SaveAnswer(ctx context.Context, id int64, answer string, now time.Time) (bool, error) {
	query := `
		UPDATE questions
		SET answer = ?, answered_at = ?
		WHERE id = ? AND answer IS NULL AND is_deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), answer, now, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SoftDelete marks a question deleted
func (r *QuestionRepo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE questions SET is_deleted = TRUE WHERE id = ? AND is_deleted = FALSE`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetAdminMessage remembers which admin chat message announced the question
func (r *QuestionRepo) SetAdminMessage(ctx context.Context, id int64, messageID int) error {
	query := `UPDATE questions SET admin_message_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), messageID, id)
	return err
}

// GetByAdminMessage finds a question by its admin notification message
func (r *QuestionRepo) GetByAdminMessage(ctx context.Context, messageID int) (*domain.Question, error) {
	var q domain.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE admin_message_id = ? ORDER BY id DESC LIMIT 1`
	err := r.db.GetContext(ctx, &q, r.db.Rebind(query), messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Stats returns aggregate question counters
func (r *QuestionRepo) Stats(ctx context.Context) (domain.QuestionStats, error) {
	var s domain.QuestionStats
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN answer IS NOT NULL THEN 1 ELSE 0 END), 0) AS answered,
			COALESCE(SUM(CASE WHEN answer IS NULL AND is_deleted = FALSE THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN is_deleted = TRUE THEN 1 ELSE 0 END), 0) AS deleted
		FROM questions
	`
	err := r.db.GetContext(ctx, &s, query)
	return s, err
}
