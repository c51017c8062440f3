package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/logging"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{name: "console debug", cfg: config.LogConfig{Level: "debug", Format: "console"}, enabled: zapcore.DebugLevel, muted: zapcore.DebugLevel - 1},
		{name: "json warn", cfg: config.LogConfig{Level: "warn", Format: "json"}, enabled: zapcore.WarnLevel, muted: zapcore.InfoLevel},
		{name: "default format", cfg: config.LogConfig{Level: "error"}, enabled: zapcore.ErrorLevel, muted: zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logging.New(tt.cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = log.Sync() })

			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.muted))
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := logging.New(config.LogConfig{Level: "loud", Format: "json"})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = logging.New(config.LogConfig{Level: "info", Format: "xml"})
	assert.ErrorContains(t, err, "invalid log format")
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{Level: "info", Format: "json"}}

	log, err := logging.FromConfig(cfg)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
