package domain

import "time"

// UserState represents user's position in the question-submission flow
type UserState string

const (
	StateIdle             UserState = "idle"
	StateAwaitingQuestion UserState = "awaiting_question"
	StateQuestionSent     UserState = "question_sent"
)

// Valid reports whether s is one of the known states
func (s UserState) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingQuestion, StateQuestionSent:
		return true
	}
	return false
}

// CanSendQuestion reports whether a user in this state may submit a new question
func (s UserState) CanSendQuestion() bool {
	return s == StateIdle || s == StateAwaitingQuestion
}

// UserConversationState is the persisted per-user flow record
type UserConversationState struct {
	UserID         int64      `db:"user_id"`
	State          UserState  `db:"state"`
	LastQuestionAt *time.Time `db:"last_question_at"`
	QuestionsCount int        `db:"questions_count"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}
