package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navikt/hm-oppgave-sink/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" warn "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewSecure_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.log")

	logger, closer := NewSecure(config.LogConfig{Level: "info", Format: "json", SecureLogPath: path})
	logger.Info("validation failed", "fnrBruker", "12345678901")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"fnrBruker":"12345678901"`)
}
