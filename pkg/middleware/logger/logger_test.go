package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_DIR", "-")
	t.Setenv("LOG_LEVEL", "debug")
	cfg := ConfigFromEnv("host.log")
	assert.Equal(t, "", cfg.Dir)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level)
	assert.Equal(t, "host.log", cfg.File)

	t.Setenv("LOG_LEVEL", "nonsense")
	assert.Equal(t, zapcore.InfoLevel, ConfigFromEnv("x").Level)
}

func TestNewWritesRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := New(Config{Dir: dir, File: "host.log", Level: zap.InfoLevel})
	require.NoError(t, err)

	l.Debug("dropped")
	l.Info("request", zap.String("handler", "metrics"))
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(filepath.Join(dir, "host.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"request"`)
	assert.Contains(t, string(b), `"handler":"metrics"`)
	assert.NotContains(t, string(b), "dropped")
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}
