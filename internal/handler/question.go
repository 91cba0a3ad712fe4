package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anonbot/internal/domain"
	"anonbot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText routes plain text to the admin answer flow or the question flow
func (h *Handler) handleText(c tele.Context) error {
	if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
		return nil
	}

	text := strings.TrimSpace(c.Text())

	// Unknown commands are ignored
	if strings.HasPrefix(text, "/") {
		return nil
	}

	if h.isAdmin(c) {
		return h.handleAdminText(c, c.Text())
	}
	return h.handleQuestion(c, text)
}

// handleMedia explains that only text is accepted
func (h *Handler) handleMedia(c tele.Context) error {
	if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
		return nil
	}
	if h.isAdmin(c) {
		if h.sessions.IsInAnswerMode(middleware.Context(c), h.adminID) {
			return c.Send(msgAnswerTextOnly)
		}
		return nil
	}
	return c.Send(msgOnlyText)
}

// handleQuestion stores a question and forwards it to the admin
func (h *Handler) handleQuestion(c tele.Context, text string) error {
	ctx := middleware.Context(c)
	logger := middleware.Logger(c, h.logger)
	userID := c.Sender().ID

	if !h.states.CanSendQuestion(ctx, userID) {
		return c.Send(msgQuestionPending, askAnotherMarkup())
	}

	q, err := h.questions.Submit(ctx, userID, text)
	switch {
	case errors.Is(err, domain.ErrQuestionTooShort):
		return c.Send(fmt.Sprintf(msgTooShort, h.settings.Get(ctx).MinQuestionLength))
	case errors.Is(err, domain.ErrQuestionTooLong):
		return c.Send(fmt.Sprintf(msgTooLong, h.settings.Get(ctx).MaxQuestionLength))
	case err != nil:
		logger.Error("Failed to submit question", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(msgError)
	}

	// best-effort
	if err := h.states.SetState(ctx, userID, domain.StateQuestionSent); err != nil {
		logger.Warn("Failed to mark question sent", zap.Int64("question_id", q.ID), zap.Error(err))
	}

	h.notifyAdmin(ctx, logger, q)

	logger.Info("Question received", zap.Int64("question_id", q.ID))
	return c.Send(msgQuestionSent, askAnotherMarkup())
}

// notifyAdmin sends the question with answer/delete buttons and remembers
// the notification so a reply to it can answer the question
func (h *Handler) notifyAdmin(ctx context.Context, logger *zap.Logger, q *domain.Question) {
	msg, err := h.sender.Send(tele.ChatID(h.adminID), formatAdminNotification(q), questionMarkup(q.ID))
	if err != nil {
		logger.Error("Failed to notify admin", zap.Int64("question_id", q.ID), zap.Error(err))
		return
	}
	if msg == nil {
		return
	}
	if err := h.questions.AttachAdminMessage(ctx, q.ID, msg.ID); err != nil {
		logger.Warn("Failed to link admin message",
			zap.Int64("question_id", q.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err),
		)
	}
}

// handleAskAnother unlocks the next question
func (h *Handler) handleAskAnother(c tele.Context) error {
	logger := middleware.Logger(c, h.logger)
	userID := c.Sender().ID

	if err := h.states.AllowNewQuestion(middleware.Context(c), userID); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgError, ShowAlert: true})
	}

	if err := c.Respond(); err != nil {
		logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return c.Send(msgAskAnother)
}
