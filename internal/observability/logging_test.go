package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/library-service/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		cfg   config.LoggerConfig
		debug bool
	}{
		{config.LoggerConfig{Level: "debug", Encoding: "console", Service: "library-service"}, true},
		{config.LoggerConfig{Level: "WARN"}, false},
		{config.LoggerConfig{Level: "nonsense", Encoding: "xml"}, false},
	}
	for _, tc := range cases {
		logger, err := NewLogger(tc.cfg)
		require.NoError(t, err)
		assert.Equal(t, tc.debug, logger.Core().Enabled(zapcore.DebugLevel), tc.cfg.Level)
		assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	}
}
