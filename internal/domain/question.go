package domain

import "time"

// Question is an anonymous question sent to the admin
type Question struct {
	ID             int64      `db:"id"`
	UserID         int64      `db:"user_id"`
	Text           string     `db:"text"`
	Answer         *string    `db:"answer"`
	AnsweredAt     *time.Time `db:"answered_at"`
	IsDeleted      bool       `db:"is_deleted"`
	AdminMessageID *int       `db:"admin_message_id"`
	CreatedAt      time.Time  `db:"created_at"`
}

// IsAnswered reports whether an answer has been saved
func (q *Question) IsAnswered() bool {
	return q.Answer != nil
}

// Answerable returns nil when the question can still receive an answer
func (q *Question) Answerable() error {
	if q.IsDeleted {
		return ErrQuestionDeleted
	}
	if q.IsAnswered() {
		return ErrQuestionAnswered
	}
	return nil
}

// QuestionStats holds aggregate counters shown to the admin
type QuestionStats struct {
	Total    int `db:"total"`
	Answered int `db:"answered"`
	Pending  int `db:"pending"`
	Deleted  int `db:"deleted"`
}
