package handler

import (
	"fmt"
	"strings"
	"time"

	"anonbot/internal/domain"
)

const (
	msgWelcome = "👋 Привет! Здесь можно анонимно задать вопрос.\n\n" +
		"Просто напиши его одним сообщением, и я передам его автору. Ответ придёт сюда же."
	msgAdminHelp = "🛠 Режим администратора\n\n" +
		"Новые вопросы приходят сюда с кнопками «Ответить» и «Удалить». " +
		"Ответить можно и реплаем на сообщение с вопросом.\n\n" +
		"/pending — неотвеченные вопросы\n" +
		"/stats — статистика\n" +
		"/settings — текущие настройки\n" +
		"/set <ключ> <значение> — изменить настройку\n" +
		"/cancel — выйти из режима ответа"

	msgQuestionSent    = "✅ Вопрос отправлен! Ответ придёт в этот чат."
	msgQuestionPending = "⏳ Ваш вопрос уже отправлен. Нажмите «Задать ещё вопрос», чтобы написать новый."
	msgAskAnother      = "✍️ Напишите новый вопрос одним сообщением."
	msgTooShort        = "Вопрос слишком короткий: минимум %d симв."
	msgTooLong         = "Вопрос слишком длинный: максимум %d симв."
	msgOnlyText        = "Я принимаю только текстовые вопросы."
	msgError           = "Произошла ошибка. Попробуйте позже."

	msgAnswerTextOnly     = "Ответ должен быть текстом."
	msgEmptyAnswer        = "Ответ не может быть пустым. Отправьте текст или нажмите «Отмена»."
	msgAlreadyAnswered    = "На этот вопрос уже ответили."
	msgQuestionDeleted    = "Этот вопрос удалён."
	msgQuestionNotFound   = "Вопрос не найден."
	msgAnswerDelivered    = "✅ Ответ на вопрос #%d отправлен."
	msgAnswerNotDelivered = "⚠️ Ответ на вопрос #%d сохранён, но доставить его не удалось. Возможно, пользователь заблокировал бота."
	msgAnswerCancelled    = "❌ Ответ отменён."
	msgNoAnswerMode       = "Режим ответа не активен."
	msgDeleted            = "🗑 Вопрос #%d удалён."
	msgAlreadyDeleted     = "Вопрос уже удалён или не найден."
	msgNoPending          = "🎉 Неотвеченных вопросов нет."
	msgPendingHeader      = "📋 Неотвеченные вопросы (%d):"

	msgSetUsage = "Использование: /set <ключ> <значение>\n\n" +
		"Ключи: questions_per_hour, cooldown_seconds, min_question_length, max_question_length"
	msgUnknownSetting = "Неизвестная настройка: %s"
	msgInvalidSetting = "⚠️ Недопустимое значение для %s. Допустимо: %s."
	msgSettingSaved   = "✅ %s = %d"
)

// Longest question excerpt quoted back to the user with an answer
const quoteLimit = 1000

// settingRanges describes allowed values for /set errors
var settingRanges = map[string]string{
	domain.SettingQuestionsPerHour:  "от 1 до 1000",
	domain.SettingCooldownSeconds:   "от 0 до 86400",
	domain.SettingMinQuestionLength: "от 1 до max_question_length",
	domain.SettingMaxQuestionLength: "от min_question_length до 4096",
}

func formatAdminNotification(q *domain.Question) string {
	return fmt.Sprintf("📩 Новый вопрос #%d\n\n%s", q.ID, q.Text)
}

func formatAnswerPrompt(session *domain.AnswerSession) string {
	minutes := int(session.ExpiresAt.Sub(session.CreatedAt) / time.Minute)
	return fmt.Sprintf(
		"✍️ Ответ на вопрос #%d\n\n%s\n\nОтправьте ответ следующим сообщением. Режим ответа отключится через %d мин.",
		session.QuestionID, truncate(session.QuestionText, quoteLimit), minutes,
	)
}

func formatAnswerForUser(q *domain.Question) string {
	answer := ""
	if q.Answer != nil {
		answer = *q.Answer
	}
	return fmt.Sprintf("💬 Ответ на ваш вопрос\n\n❓ %s\n\n%s", truncate(q.Text, quoteLimit), answer)
}

func formatStats(stats domain.QuestionStats) string {
	return fmt.Sprintf(
		"📊 Статистика\n\nВсего вопросов: %d\nОтвечено: %d\nОжидают ответа: %d\nУдалено: %d",
		stats.Total, stats.Answered, stats.Pending, stats.Deleted,
	)
}

func formatSettings(s domain.Settings) string {
	var b strings.Builder
	b.WriteString("⚙️ Настройки\n\n")
	for _, key := range domain.SettingKeys {
		value, _ := s.Value(key)
		fmt.Fprintf(&b, "%s = %d\n", key, value)
	}
	b.WriteString("\nИзменить: /set <ключ> <значение>")
	return b.String()
}

// truncate cuts s to limit runes, marking the cut with an ellipsis
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
