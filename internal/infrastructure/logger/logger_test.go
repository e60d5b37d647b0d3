package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/pairing-api/internal/config"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&config.Config{
		ServiceName: "pairing-api",
		Environment: "test",
		LogLevel:    "warn",
		LogFormat:   "json",
	}, &buf)

	log.Info().Msg("dropped")
	log.Warn().Str("session_id", "s-1").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "pairing-api", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "s-1", entry["session_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
}
