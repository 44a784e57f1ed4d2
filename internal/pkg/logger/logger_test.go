package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := newWithWriter("json", "warn", &buf)
	require.NoError(t, err)

	l.Info().Msg("dropped")
	l.Warn().Str("action", "create").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "create", entry["action"])
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := newWithWriter("xml", "", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = newWithWriter("json", "loud", &bytes.Buffer{})
	assert.Error(t, err)
}
