package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger
	logger = zerolog.New(&buf)
	t.Cleanup(func() { logger = prev })
	return &buf
}

func TestChildLoggersCarryFields(t *testing.T) {
	buf := captureLogs(t)

	WithComponent("mailer").Info().Msg("Newsletter sent")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "mailer", line["component"])
	assert.Equal(t, "Newsletter sent", line["message"])

	buf.Reset()
	WithRun("run-42").Warn().Msg("Delivery failed")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "run-42", line["run_id"])
	assert.Equal(t, "warn", line["level"])
}

func TestOpenOutput(t *testing.T) {
	w, err := openOutput("")
	require.NoError(t, err)
	assert.NotNil(t, w)

	w, err = openOutput(t.TempDir() + "/logs/app.log")
	require.NoError(t, err)
	assert.NotNil(t, w)
}
