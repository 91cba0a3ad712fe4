package domain

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionDeleted  = errors.New("question deleted")
	ErrQuestionAnswered = errors.New("question already answered")

	// ErrNoActiveSession means the message is not an answer and should be routed elsewhere
	ErrNoActiveSession = errors.New("no active answer session")
	ErrEmptyAnswer     = errors.New("answer text is empty")

	ErrQuestionTooShort = errors.New("question too short")
	ErrQuestionTooLong  = errors.New("question too long")

	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("invalid setting value")
)
