package handler

import (
	"errors"
	"fmt"
	"strconv"

	"anonbot/internal/domain"
	"anonbot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleSettings handles /settings
func (h *Handler) handleSettings(c tele.Context) error {
	return c.Send(formatSettings(h.settings.Get(middleware.Context(c))))
}

// handleSet handles /set <key> <value>
func (h *Handler) handleSet(c tele.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return c.Send(msgSetUsage)
	}

	key := cleanCallbackData(args[0])
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return c.Send(msgSetUsage)
	}

	settings, err := h.settings.Set(middleware.Context(c), key, value)
	switch {
	case errors.Is(err, domain.ErrUnknownSetting):
		return c.Send(fmt.Sprintf(msgUnknownSetting, key) + "\n\n" + msgSetUsage)
	case errors.Is(err, domain.ErrInvalidSetting):
		return c.Send(fmt.Sprintf(msgInvalidSetting, key, settingRanges[key]))
	case err != nil:
		middleware.Logger(c, h.logger).Error("Failed to save setting", zap.String("key", key), zap.Error(err))
		return c.Send(msgError)
	}

	saved, _ := settings.Value(key)
	return c.Send(fmt.Sprintf(msgSettingSaved, key, saved))
}
