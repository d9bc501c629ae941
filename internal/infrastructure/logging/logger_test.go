package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"loan-servicing/internal/config"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHonoursLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New(buf, config.LoggerConfig{Level: "warn", Encoding: "json"})

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	logger.Warn("payment rejected", "loanID", int64(4))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "payment rejected", entry["msg"])
	assert.Equal(t, float64(4), entry["loanID"])
}

func TestNewDefaultsToInfo(t *testing.T) {
	logger := New(new(bytes.Buffer), config.LoggerConfig{Level: "verbose"})

	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewTextEncoding(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New(buf, config.LoggerConfig{Level: "info", Encoding: "text"})

	logger.Info("Application starting...")

	assert.Contains(t, buf.String(), `msg="Application starting..."`)
}
