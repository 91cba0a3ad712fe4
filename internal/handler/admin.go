package handler

import (
	"errors"
	"fmt"

	"anonbot/internal/domain"
	"anonbot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const pendingLimit = 10

// handleAdminText saves the admin's text as an answer.
// Answer mode wins; otherwise a reply to a question notification answers that
// question. Anything else is ignored.
func (h *Handler) handleAdminText(c tele.Context, text string) error {
	ctx := middleware.Context(c)
	logger := middleware.Logger(c, h.logger)

	q, err := h.sessions.HandleAnswer(ctx, h.adminID, text)
	if errors.Is(err, domain.ErrNoActiveSession) {
		msg := c.Message()
		if msg == nil || msg.ReplyTo == nil {
			return nil
		}

		target, findErr := h.questions.FindByAdminMessage(ctx, msg.ReplyTo.ID)
		if errors.Is(findErr, domain.ErrQuestionNotFound) {
			return nil
		}
		if findErr != nil {
			logger.Error("Failed to find question by reply", zap.Int("message_id", msg.ReplyTo.ID), zap.Error(findErr))
			return c.Send(msgError)
		}

		q, err = h.sessions.AnswerByReply(ctx, h.adminID, target.ID, text)
	}
	if err != nil {
		return c.Send(h.answerErrorText(logger, err))
	}

	return h.deliverAnswer(c, logger, q)
}

// deliverAnswer sends the saved answer to the asker and reports the outcome
func (h *Handler) deliverAnswer(c tele.Context, logger *zap.Logger, q *domain.Question) error {
	if _, err := h.sender.Send(tele.ChatID(q.UserID), formatAnswerForUser(q), askAnotherMarkup()); err != nil {
		logger.Warn("Failed to deliver answer",
			zap.Int64("question_id", q.ID),
			zap.Error(err),
		)
		return c.Send(fmt.Sprintf(msgAnswerNotDelivered, q.ID))
	}

	logger.Info("Answer delivered", zap.Int64("question_id", q.ID))
	return c.Send(fmt.Sprintf(msgAnswerDelivered, q.ID))
}

// answerErrorText maps answer flow errors to admin-facing text
func (h *Handler) answerErrorText(logger *zap.Logger, err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyAnswer):
		return msgEmptyAnswer
	case errors.Is(err, domain.ErrQuestionAnswered):
		return msgAlreadyAnswered
	case errors.Is(err, domain.ErrQuestionDeleted):
		return msgQuestionDeleted
	case errors.Is(err, domain.ErrQuestionNotFound):
		return msgQuestionNotFound
	}
	logger.Error("Answer flow failed", zap.Error(err))
	return msgError
}

// handleAnswerButton enters answer mode for the question on the button
func (h *Handler) handleAnswerButton(c tele.Context) error {
	logger := middleware.Logger(c, h.logger)

	questionID, err := parseQuestionID(c.Data())
	if err != nil {
		logger.Warn("Bad answer button data", zap.String("data", c.Data()))
		return c.Respond(&tele.CallbackResponse{Text: msgQuestionNotFound})
	}

	session, err := h.sessions.StartAnswerMode(middleware.Context(c), h.adminID, questionID, "")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{
			Text:      h.answerErrorText(logger, err),
			ShowAlert: true,
		})
	}

	if err := c.Respond(); err != nil {
		logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return c.Send(formatAnswerPrompt(session), cancelAnswerMarkup())
}

// handleDeleteButton soft-deletes the question on the button
func (h *Handler) handleDeleteButton(c tele.Context) error {
	logger := middleware.Logger(c, h.logger)

	questionID, err := parseQuestionID(c.Data())
	if err != nil {
		logger.Warn("Bad delete button data", zap.String("data", c.Data()))
		return c.Respond(&tele.CallbackResponse{Text: msgQuestionNotFound})
	}

	if err := h.questions.Delete(middleware.Context(c), questionID); err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return c.Respond(&tele.CallbackResponse{Text: msgAlreadyDeleted})
		}
		logger.Error("Failed to delete question", zap.Int64("question_id", questionID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: msgError, ShowAlert: true})
	}

	logger.Info("Question deleted", zap.Int64("question_id", questionID))

	text := fmt.Sprintf(msgDeleted, questionID)
	if err := c.Edit(text); err != nil {
		if handleErr := h.handleEditError(err, c, logger); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(text)
	}
	return c.Respond()
}

// handleCancelButton leaves answer mode from the prompt's cancel button
func (h *Handler) handleCancelButton(c tele.Context) error {
	logger := middleware.Logger(c, h.logger)

	existed, err := h.sessions.CancelAnswerMode(middleware.Context(c), h.adminID)
	if err != nil {
		logger.Error("Failed to cancel answer mode", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: msgError, ShowAlert: true})
	}
	if !existed {
		return c.Respond(&tele.CallbackResponse{Text: msgNoAnswerMode})
	}

	if err := c.Edit(msgAnswerCancelled); err != nil {
		if handleErr := h.handleEditError(err, c, logger); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(msgAnswerCancelled)
	}
	return c.Respond()
}

// handleCancelCommand handles /cancel
func (h *Handler) handleCancelCommand(c tele.Context) error {
	existed, err := h.sessions.CancelAnswerMode(middleware.Context(c), h.adminID)
	if err != nil {
		middleware.Logger(c, h.logger).Error("Failed to cancel answer mode", zap.Error(err))
		return c.Send(msgError)
	}
	if !existed {
		return c.Send(msgNoAnswerMode)
	}
	return c.Send(msgAnswerCancelled)
}

// handlePending lists unanswered questions, one message each with buttons
func (h *Handler) handlePending(c tele.Context) error {
	logger := middleware.Logger(c, h.logger)

	questions, err := h.questions.Pending(middleware.Context(c), pendingLimit)
	if err != nil {
		logger.Error("Failed to list pending questions", zap.Error(err))
		return c.Send(msgError)
	}
	if len(questions) == 0 {
		return c.Send(msgNoPending)
	}

	if err := c.Send(fmt.Sprintf(msgPendingHeader, len(questions))); err != nil {
		return err
	}
	for i := range questions {
		q := &questions[i]
		if err := c.Send(formatAdminNotification(q), questionMarkup(q.ID)); err != nil {
			return err
		}
	}
	return nil
}

// handleStats handles /stats
func (h *Handler) handleStats(c tele.Context) error {
	stats, err := h.questions.Stats(middleware.Context(c))
	if err != nil {
		middleware.Logger(c, h.logger).Error("Failed to load stats", zap.Error(err))
		return c.Send(msgError)
	}
	return c.Send(formatStats(stats))
}
