package domain

// Runtime setting keys adjustable by the admin
const (
	SettingQuestionsPerHour  = "questions_per_hour"
	SettingCooldownSeconds   = "cooldown_seconds"
	SettingMinQuestionLength = "min_question_length"
	SettingMaxQuestionLength = "max_question_length"
)

// SettingKeys lists keys in display order
var SettingKeys = []string{
	SettingQuestionsPerHour,
	SettingCooldownSeconds,
	SettingMinQuestionLength,
	SettingMaxQuestionLength,
}

// Settings holds the current runtime limits
type Settings struct {
	QuestionsPerHour  int
	CooldownSeconds   int
	MinQuestionLength int
	MaxQuestionLength int
}

// Value returns the setting by key
func (s Settings) Value(key string) (int, bool) {
	switch key {
	case SettingQuestionsPerHour:
		return s.QuestionsPerHour, true
	case SettingCooldownSeconds:
		return s.CooldownSeconds, true
	case SettingMinQuestionLength:
		return s.MinQuestionLength, true
	case SettingMaxQuestionLength:
		return s.MaxQuestionLength, true
	}
	return 0, false
}

// With returns a copy with key replaced
func (s Settings) With(key string, value int) (Settings, bool) {
	switch key {
	case SettingQuestionsPerHour:
		s.QuestionsPerHour = value
	case SettingCooldownSeconds:
		s.CooldownSeconds = value
	case SettingMinQuestionLength:
		s.MinQuestionLength = value
	case SettingMaxQuestionLength:
		s.MaxQuestionLength = value
	default:
		return s, false
	}
	return s, true
}
