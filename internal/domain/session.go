package domain

import "time"

// SessionMode is the admin's current interaction mode
type SessionMode string

const ModeWaitingAnswer SessionMode = "waiting_answer"

// AnswerSession is the admin's "answering question #N" record.
// At most one exists per admin; a newer one replaces the older.
type AnswerSession struct {
	AdminID      int64       `db:"admin_id"`
	QuestionID   int64       `db:"question_id"`
	QuestionText string      `db:"question_text"`
	TargetUserID int64       `db:"target_user_id"`
	Mode         SessionMode `db:"mode"`
	CreatedAt    time.Time   `db:"created_at"`
	ExpiresAt    time.Time   `db:"expires_at"`
}

// IsExpired is used both on read and by the sweep
func (s *AnswerSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
