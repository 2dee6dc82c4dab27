package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"TETRIS_AI_HOST", "TETRIS_AI_PORT", "TETRIS_AI_DISABLED", "TETRIS_AI_OBS_HZ",
		"TETRIS_AI_MAX_PENDING", "TETRIS_AI_LOG_PATH", "TETRIS_AI_LOG_EVERY_N", "TETRIS_AI_LOG_MAX_LINES",
	} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultHost, cfg.Host)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.False(t, cfg.Disabled)
	assert.Equal(t, defaultObsHz, cfg.ObsHz)
	assert.Equal(t, defaultMaxPending, cfg.MaxPending)
	assert.Equal(t, "127.0.0.1:7777", cfg.Addr())
	assert.Equal(t, int64(50), cfg.ObsIntervalMS())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TETRIS_AI_HOST", "0.0.0.0")
	t.Setenv("TETRIS_AI_PORT", "9090")
	t.Setenv("TETRIS_AI_DISABLED", "true")
	t.Setenv("TETRIS_AI_OBS_HZ", "10")
	t.Setenv("TETRIS_AI_MAX_PENDING", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Disabled)
	assert.Equal(t, 10, cfg.ObsHz)
	assert.Equal(t, 3, cfg.MaxPending)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("TETRIS_AI_PORT", "not-a-port")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("TETRIS_AI_PORT", "")
	t.Setenv("TETRIS_AI_OBS_HZ", "0")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("TETRIS_AI_OBS_HZ", "61")
	_, err = LoadConfig()
	assert.Error(t, err)
}
