package handler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"anonbot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseQuestionID reads the question id carried by answer/delete buttons
func parseQuestionID(data string) (int64, error) {
	id, err := strconv.ParseInt(cleanCallbackData(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid question id %q: %w", data, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid question id %d", id)
	}
	return id, nil
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, logger *zap.Logger) error {
	if err == nil {
		return nil
	}

	// Already edited by another press of the same button
	if strings.Contains(err.Error(), "message is not modified") {
		logger.Debug("Message already modified by another callback, acknowledging",
			zap.String("callback_id", c.Callback().ID),
		)
		if ackErr := c.Respond(); ackErr != nil {
			logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
		}
		return nil
	}

	logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback acknowledges callbacks no registered button matched,
// such as buttons left over from an older keyboard
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	middleware.Logger(c, h.logger).Warn("Unhandled callback",
		zap.String("data", cleanCallbackData(callback.Data)),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
