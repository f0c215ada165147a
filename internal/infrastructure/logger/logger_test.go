package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{"Debug", "debug", zapcore.DebugLevel, zapcore.InvalidLevel},
		{"Info", "info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"Warn", "warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"WarningAlias", "warning", zapcore.WarnLevel, zapcore.InfoLevel},
		{"Error", "error", zapcore.ErrorLevel, zapcore.WarnLevel},
		{"UnknownFallsBackToInfo", "verbose", zapcore.InfoLevel, zapcore.DebugLevel},
		{"EmptyFallsBackToInfo", "", zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Level = tt.level
			cfg.Format = "json"

			log, err := New(cfg)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.enabled))
			if tt.disabled != zapcore.InvalidLevel {
				assert.False(t, log.Core().Enabled(tt.disabled))
			}
		})
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	cfg := &Config{
		Level:      "info",
		Format:     "json",
		Output:     path,
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	}

	log, err := New(cfg)
	require.NoError(t, err)

	log.Info("payable approved")
	require.NoError(t, Sync(log))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "payable approved")
	assert.Contains(t, string(content), `"level":"info"`)
}

func TestNewUnwritableOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "missing", "service.log")

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open log output")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}
