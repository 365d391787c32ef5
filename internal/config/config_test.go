package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, Load(""))

	cfg := Get()
	assert.Equal(t, "info", cfg.LogConf.Level)
	assert.Equal(t, "genso", cfg.RoomConf.TokenIssuer)
	assert.Equal(t, 15*time.Minute, cfg.RoomConf.TokenTTL)
	assert.Equal(t, 400*time.Millisecond, cfg.BotConf.MinThinkDelay)
	assert.Equal(t, 1200*time.Millisecond, cfg.BotConf.MaxThinkDelay)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genso.yaml")
	body := []byte(`
log:
  level: debug
room:
  tokenSecret: file-secret
  tokenTTL: 5m
bot:
  minThinkDelay: 10ms
  maxThinkDelay: 20ms
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))
	require.NoError(t, Load(path))

	cfg := Get()
	assert.Equal(t, "debug", cfg.LogConf.Level)
	assert.Equal(t, "file-secret", cfg.RoomConf.TokenSecret)
	assert.Equal(t, 5*time.Minute, cfg.RoomConf.TokenTTL)
	assert.Equal(t, 10*time.Millisecond, cfg.BotConf.MinThinkDelay)
	assert.Equal(t, 20*time.Millisecond, cfg.BotConf.MaxThinkDelay)
	// Untouched keys keep their defaults.
	assert.Equal(t, "genso", cfg.RoomConf.TokenIssuer)
}

func TestLoadMissingFile(t *testing.T) {
	assert.Error(t, Load(filepath.Join(t.TempDir(), "nope.yaml")))
}
