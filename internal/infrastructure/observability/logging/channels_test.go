package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level slog.Level) (*ChanneledLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := NewChanneledLogger(&LoggerConfig{Writer: &buf, JSONFormat: true, DefaultLevel: level})
	require.NoError(t, err)
	return logger, &buf
}

func TestChannelAttributeIsAttached(t *testing.T) {
	logger, buf := newBufferLogger(t, slog.LevelDebug)

	logger.Render().Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "render", entry["channel"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestLogErrorCarriesMetadata(t *testing.T) {
	logger, buf := newBufferLogger(t, slog.LevelInfo)

	logger.LogError(ChannelDatabase, "save_blueprint", errors.New("disk full"), map[string]any{"id": "bp1"})

	out := buf.String()
	assert.Contains(t, out, `"operation":"save_blueprint"`)
	assert.Contains(t, out, `"error":"disk full"`)
	assert.Contains(t, out, `"id":"bp1"`)
}

func TestChannelLevels(t *testing.T) {
	logger, buf := newBufferLogger(t, slog.LevelWarn)

	logger.LogRenderOperation("preview", "Text", "opc1", time.Millisecond, true)
	assert.Empty(t, buf.String())

	require.NoError(t, logger.SetChannelLevel(ChannelRender, slog.LevelDebug))
	logger.LogRenderOperation("preview", "Text", "opc1", time.Millisecond, true)
	assert.Contains(t, buf.String(), "Render completed")
	assert.Equal(t, "DEBUG", logger.GetChannelLevels()["render"])

	assert.Error(t, logger.SetChannelLevel(Channel("nope"), slog.LevelDebug))
}

func TestSanitizeQuery(t *testing.T) {
	logger := NewDiscardLogger()
	assert.Equal(t, "SELECT * FROM opc_blueprints", logger.sanitizeQuery("SELECT *\n\tFROM   opc_blueprints"))
	assert.True(t, strings.HasSuffix(logger.sanitizeQuery(strings.Repeat("x", 600)), "..."))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
