package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(Config{Level: "debug", Service: "privatepay-backend", Version: "1.0.0"}, &buf), "store")

	l.Info().Str("address", "0xabc").Msg("registered")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "privatepay-backend", line["service"])
	assert.Equal(t, "1.0.0", line["version"])
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "0xabc", line["address"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "chatty"}, &buf)

	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}
