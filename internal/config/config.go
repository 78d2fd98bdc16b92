package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration for the Big Two runtime.
type Config struct {
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
	Client ClientConfig `yaml:"client"`
}

// RedisConfig locates the snapshot store. An empty Addr disables
// persistence entirely; matches then live only in memory.
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	SnapshotTTL int    `yaml:"snapshot_ttl"` // hours
}

// GameConfig tunes timers and bot behavior on the authoritative side.
type GameConfig struct {
	AutoPassMs       int `yaml:"auto_pass_ms"`        // unbeatable-play countdown
	BotFillDelayS    int `yaml:"bot_fill_delay_s"`    // lobby wait before bots take seats
	BotTurnDelayMs   int `yaml:"bot_turn_delay_ms"`   // think time per bot move
	SeriesThreshold  int `yaml:"series_threshold"`    // penalty points ending a series
	LobbyTimeoutMins int `yaml:"lobby_timeout_mins"`  // empty-lobby shutdown
}

// ClientConfig tunes the submission side.
type ClientConfig struct {
	ServerURL      string `yaml:"server_url"`
	SubmitAttempts int    `yaml:"submit_attempts"`
	SubmitBackoff  int    `yaml:"submit_backoff_ms"`
}

func (c *GameConfig) AutoPassDuration() time.Duration {
	return time.Duration(c.AutoPassMs) * time.Millisecond
}

func (c *GameConfig) BotFillDelay() time.Duration {
	return time.Duration(c.BotFillDelayS) * time.Second
}

func (c *GameConfig) BotTurnDelay() time.Duration {
	return time.Duration(c.BotTurnDelayMs) * time.Millisecond
}

func (c *GameConfig) LobbyTimeout() time.Duration {
	return time.Duration(c.LobbyTimeoutMins) * time.Minute
}

func (c *RedisConfig) TTL() time.Duration {
	return time.Duration(c.SnapshotTTL) * time.Hour
}

// Load reads a YAML config file and fills in defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Redis.SnapshotTTL == 0 {
		cfg.Redis.SnapshotTTL = 24
	}
	if cfg.Game.AutoPassMs == 0 {
		cfg.Game.AutoPassMs = 10000
	}
	if cfg.Game.BotFillDelayS == 0 {
		cfg.Game.BotFillDelayS = 10
	}
	if cfg.Game.BotTurnDelayMs == 0 {
		cfg.Game.BotTurnDelayMs = 1200
	}
	if cfg.Game.SeriesThreshold == 0 {
		cfg.Game.SeriesThreshold = 100
	}
	if cfg.Game.LobbyTimeoutMins == 0 {
		cfg.Game.LobbyTimeoutMins = 10
	}
	if cfg.Client.ServerURL == "" {
		cfg.Client.ServerURL = "ws://localhost:7350/ws"
	}
	if cfg.Client.SubmitAttempts == 0 {
		cfg.Client.SubmitAttempts = 3
	}
	if cfg.Client.SubmitBackoff == 0 {
		cfg.Client.SubmitBackoff = 200
	}
}
