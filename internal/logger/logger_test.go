package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_JSONRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatJSON, slog.LevelInfo)
	require.NoError(t, err)

	log.Info("login", "username", "alice", "password", "hunter22", "token", "eyJ...")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "alice", entry["username"])
	assert.Equal(t, redacted, entry["password"])
	assert.Equal(t, redacted, entry["token"])
}

func TestNew_PrettyFiltersLevelAndRedacts(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatPretty, slog.LevelInfo)
	require.NoError(t, err)

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.With("request_id", "abc").Warn("denied", "authorization", "Bearer x")
	out := buf.String()
	assert.Contains(t, out, "denied")
	assert.Contains(t, out, "request_id")
	assert.Contains(t, out, redacted)
	assert.NotContains(t, out, "Bearer x")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "xml", slog.LevelInfo)
	assert.Error(t, err)
}
