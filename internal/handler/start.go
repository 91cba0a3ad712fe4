package handler

import (
	"anonbot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start and /help
func (h *Handler) handleStart(c tele.Context) error {
	if h.isAdmin(c) {
		return c.Send(msgAdminHelp)
	}

	userID := c.Sender().ID
	logger := middleware.Logger(c, h.logger)

	logger.Info("User started bot", zap.Int64("user_id", userID))

	if err := h.states.ResetToIdle(middleware.Context(c), userID); err != nil {
		logger.Error("Failed to reset user state on start", zap.Error(err))
		return c.Send(msgError)
	}

	return c.Send(msgWelcome)
}
