package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New(Options{Level: "debug"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New(Options{Level: "loud"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New(Options{}).GetLevel())
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")

	log := Component(New(Options{Level: "info", File: path}), "test")
	log.Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"message":"hello"`)
}
