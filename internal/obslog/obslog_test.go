package obslog

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturingLogger(t *testing.T, format Format, whitelist ...string) (*slog.Logger, *os.File, func() string) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	logger := New(Options{Format: format, Output: w, Whitelist: whitelist})

	return logger, w, func() string {
		w.Close()

		var buf bytes.Buffer
		_, err := buf.ReadFrom(r)
		require.NoError(t, err)

		return buf.String()
	}
}

func TestNewJSONFormatRedactsSensitiveAttrs(t *testing.T) {
	logger, _, read := newCapturingLogger(t, FormatJSON)

	logger.Info("token acquired", "email", "user@example.com")

	out := read()
	assert.Contains(t, out, redactedPlaceholder)
	assert.NotContains(t, out, "user@example.com")
}

func TestNewCompactFormatDropsTimestamp(t *testing.T) {
	logger, _, read := newCapturingLogger(t, FormatCompact)

	logger.Info("sync started")

	out := read()
	assert.NotContains(t, out, "time=")
}

func TestNewWhitelistedKeyPassesThrough(t *testing.T) {
	logger, _, read := newCapturingLogger(t, FormatJSON, "display_name")

	logger.Info("provider linked", "display_name", "user@example.com")

	out := read()
	assert.Contains(t, out, "user@example.com")
}

func TestNewDefaultsOutputToStderrWithoutPanicking(t *testing.T) {
	logger := New(Options{Format: FormatJSON})
	assert.NotNil(t, logger)
}
