package service

import (
	"context"
	"fmt"

	"anonbot/internal/domain"
	"anonbot/internal/repository"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// maxMessageLength is Telegram's text message limit
const maxMessageLength = 4096

// SettingsService gives access to admin-adjustable limits
type SettingsService struct {
	repo     repository.SettingsRepository
	defaults domain.Settings
	clock    clockwork.Clock
	logger   *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repository.SettingsRepository, defaults domain.Settings, clock clockwork.Clock, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:     repo,
		defaults: defaults,
		clock:    clock,
		logger:   logger,
	}
}

// Get returns stored settings over defaults. Read failures yield the defaults.
func (s *SettingsService) Get(ctx context.Context) domain.Settings {
	values, err := s.repo.All(ctx)
	if err != nil {
		s.logger.Warn("Failed to read settings, using defaults", zap.Error(err))
		return s.defaults
	}

	settings := s.defaults
	for key, value := range values {
		if next, ok := settings.With(key, value); ok {
			settings = next
		}
	}
	if validate(settings) != nil {
		s.logger.Warn("Stored settings are inconsistent, using defaults")
		return s.defaults
	}
	return settings
}

// Set validates and stores one setting, returning the resulting settings
func (s *SettingsService) Set(ctx context.Context, key string, value int) (domain.Settings, error) {
	current := s.Get(ctx)
	next, ok := current.With(key, value)
	if !ok {
		return current, fmt.Errorf("%w: %s", domain.ErrUnknownSetting, key)
	}
	if err := validate(next); err != nil {
		return current, err
	}

	if err := s.repo.Set(ctx, key, value, s.clock.Now().UTC()); err != nil {
		return current, fmt.Errorf("failed to save setting %s: %w", key, err)
	}

	s.logger.Info("Setting changed", zap.String("key", key), zap.Int("value", value))
	return next, nil
}

func validate(s domain.Settings) error {
	switch {
	case s.QuestionsPerHour < 1 || s.QuestionsPerHour > 1000:
		return fmt.Errorf("%w: %s must be between 1 and 1000", domain.ErrInvalidSetting, domain.SettingQuestionsPerHour)
	case s.CooldownSeconds < 0 || s.CooldownSeconds > 86400:
		return fmt.Errorf("%w: %s must be between 0 and 86400", domain.ErrInvalidSetting, domain.SettingCooldownSeconds)
	case s.MinQuestionLength < 1:
		return fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidSetting, domain.SettingMinQuestionLength)
	case s.MaxQuestionLength > maxMessageLength:
		return fmt.Errorf("%w: %s must not exceed %d", domain.ErrInvalidSetting, domain.SettingMaxQuestionLength, maxMessageLength)
	case s.MinQuestionLength > s.MaxQuestionLength:
		return fmt.Errorf("%w: %s must not exceed %s", domain.ErrInvalidSetting, domain.SettingMinQuestionLength, domain.SettingMaxQuestionLength)
	}
	return nil
}
