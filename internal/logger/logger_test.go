package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		format        string
		expectedLevel zap.AtomicLevel
	}{
		{
			name:          "json info",
			level:         "info",
			format:        "json",
			expectedLevel: zap.NewAtomicLevelAt(zap.InfoLevel),
		},
		{
			name:          "console debug",
			level:         "debug",
			format:        "console",
			expectedLevel: zap.NewAtomicLevelAt(zap.DebugLevel),
		},
		{
			name:          "unknown level falls back to info",
			level:         "chatty",
			format:        "json",
			expectedLevel: zap.NewAtomicLevelAt(zap.InfoLevel),
		},
		{
			name:          "unknown format falls back to json",
			level:         "warn",
			format:        "xml",
			expectedLevel: zap.NewAtomicLevelAt(zap.WarnLevel),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			require.NoError(t, err)
			require.NotNil(t, logger)

			assert.True(t, logger.Core().Enabled(tt.expectedLevel.Level()))
			if tt.expectedLevel.Level() > zap.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.expectedLevel.Level()-1))
			}
		})
	}
}
