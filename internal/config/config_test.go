package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadValidConfig(t *testing.T) {
	t.Parallel()

	content := `
redis:
  addr: "redis:6379"
  password: "secret"
  db: 1
  snapshot_ttl: 48

game:
  auto_pass_ms: 8000
  bot_fill_delay_s: 5
  bot_turn_delay_ms: 800
  series_threshold: 50

client:
  server_url: "ws://game.example.com/ws"
  submit_attempts: 5
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 48*time.Hour, cfg.Redis.TTL())
	assert.Equal(t, 8*time.Second, cfg.Game.AutoPassDuration())
	assert.Equal(t, 5*time.Second, cfg.Game.BotFillDelay())
	assert.Equal(t, 800*time.Millisecond, cfg.Game.BotTurnDelay())
	assert.Equal(t, 50, cfg.Game.SeriesThreshold)
	assert.Equal(t, "ws://game.example.com/ws", cfg.Client.ServerURL)
	assert.Equal(t, 5, cfg.Client.SubmitAttempts)

	// Unset fields fall back to defaults.
	assert.Equal(t, 200, cfg.Client.SubmitBackoff)
	assert.Equal(t, 10*time.Minute, cfg.Game.LobbyTimeout())
}

func TestLoadFileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("game: [broken"), 0o600))

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, 10*time.Second, cfg.Game.AutoPassDuration())
	assert.Equal(t, 100, cfg.Game.SeriesThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL())
	assert.Empty(t, cfg.Redis.Addr, "persistence is opt-in")
	assert.Equal(t, 3, cfg.Client.SubmitAttempts)
}
