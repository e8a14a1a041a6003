package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muliswilliam/vending-machine/common/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestInitJSON(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	var buf bytes.Buffer
	cfg := config.NewConfig(config.WithLogging("info", "json"))
	logger := Init(cfg, &buf)

	logger.Debug("hidden")
	logger.Info("coin inventory updated", slog.Int("entries", 2))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "coin inventory updated", record["msg"])
	assert.Equal(t, "vending-machine", record["service"])
	assert.EqualValues(t, 2, record["entries"])
}

func TestInitText(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	var buf bytes.Buffer
	Init(config.NewConfig(), &buf).Warn("low change")
	assert.Contains(t, buf.String(), "low change")
}
