package departures

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogging(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	var buf bytes.Buffer
	require.NoError(t, initLogging(&buf, "warn", "json"))
	log.Info().Msg("hidden")
	log.Warn().Str("feed", "alerts").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "alerts", line["feed"])
	assert.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel())
}

func TestInitLogging_Console(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	var buf bytes.Buffer
	require.NoError(t, initLogging(&buf, "debug", ""))
	log.Debug().Msg("poll cycle")
	assert.Contains(t, buf.String(), "poll cycle")
}

func TestInitLogging_Invalid(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	assert.Error(t, initLogging(&bytes.Buffer{}, "loud", "json"))
	assert.Error(t, initLogging(&bytes.Buffer{}, "info", "xml"))
}
