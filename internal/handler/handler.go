package handler

import (
	"strconv"

	"anonbot/internal/middleware"
	"anonbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Sender delivers messages to chats other than the current update's
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Handler manages all bot interactions
type Handler struct {
	sender    Sender
	adminID   int64
	states    *service.UserStateService
	sessions  *service.SessionService
	questions *service.QuestionService
	settings  *service.SettingsService
	logger    *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	sender Sender,
	adminID int64,
	states *service.UserStateService,
	sessions *service.SessionService,
	questions *service.QuestionService,
	settings *service.SettingsService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		sender:    sender,
		adminID:   adminID,
		states:    states,
		sessions:  sessions,
		questions: questions,
		settings:  settings,
		logger:    logger,
	}
}

// RegisterHandlers registers all bot handlers.
// Global middleware must be installed with bot.Use before this call.
func (h *Handler) RegisterHandlers(bot *tele.Bot) {
	// Commands
	bot.Handle("/start", h.handleStart)
	bot.Handle("/help", h.handleStart)

	// Messages
	bot.Handle(tele.OnText, h.handleText)
	bot.Handle(tele.OnMedia, h.handleMedia)

	// User buttons
	bot.Handle(&btnAskAnother, h.handleAskAnother)

	// Admin commands and buttons
	admin := bot.Group()
	admin.Use(middleware.AdminOnly(h.adminID, h.logger))
	admin.Handle("/pending", h.handlePending)
	admin.Handle("/stats", h.handleStats)
	admin.Handle("/settings", h.handleSettings)
	admin.Handle("/set", h.handleSet)
	admin.Handle("/cancel", h.handleCancelCommand)
	admin.Handle(&btnAnswer, h.handleAnswerButton)
	admin.Handle(&btnDelete, h.handleDeleteButton)
	admin.Handle(&btnCancelAnswer, h.handleCancelButton)

	// Generic callback handler for stale or unknown buttons
	bot.Handle(tele.OnCallback, h.handleCallback)
}

func (h *Handler) isAdmin(c tele.Context) bool {
	return c.Sender() != nil && c.Sender().ID == h.adminID
}

// Inline keyboard buttons
var (
	btnAskAnother = tele.Btn{
		Unique: "ask_another",
		Text:   "✍️ Задать ещё вопрос",
	}
	btnAnswer = tele.Btn{
		Unique: "answer",
		Text:   "✍️ Ответить",
	}
	btnDelete = tele.Btn{
		Unique: "delete",
		Text:   "🗑 Удалить",
	}
	btnCancelAnswer = tele.Btn{
		Unique: "cancel_answer",
		Text:   "❌ Отмена",
	}
)

// askAnotherMarkup lets the user unlock the next question
func askAnotherMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnAskAnother))
	return menu
}

// questionMarkup carries the question id in both admin buttons
func questionMarkup(questionID int64) *tele.ReplyMarkup {
	id := strconv.FormatInt(questionID, 10)
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(
		menu.Data(btnAnswer.Text, btnAnswer.Unique, id),
		menu.Data(btnDelete.Text, btnDelete.Unique, id),
	))
	return menu
}

func cancelAnswerMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnCancelAnswer))
	return menu
}
