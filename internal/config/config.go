// Package config loads bot configuration from an optional YAML file,
// environment variables, and a .env file for the bot token.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the bot.
type Config struct {
	// LogLevel is the minimum slog level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// PulseInterval is the cadence of the liveness heartbeat log line.
	PulseInterval time.Duration `mapstructure:"pulse_interval"`

	Discord       DiscordConfig `mapstructure:"discord"`
	Arxiv         ArxivConfig   `mapstructure:"arxiv"`
	Subscriptions SubsConfig    `mapstructure:"subscriptions"`
}

// DiscordConfig holds chat transport settings.
type DiscordConfig struct {
	// Token is the bot token. Usually supplied via DISCORD_BOT_TOKEN in
	// the environment or a .env file rather than the config file.
	Token string `mapstructure:"token"`

	// APIBase overrides the REST endpoint; empty means the public API.
	APIBase string `mapstructure:"api_base"`

	// Presence is the activity name shown as "Watching ...".
	Presence string `mapstructure:"presence"`
}

// ArxivConfig holds arXiv API client settings.
type ArxivConfig struct {
	// BaseURL overrides the export API endpoint; empty means the default.
	BaseURL string `mapstructure:"base_url"`

	// UserAgent is sent with every API request.
	UserAgent string `mapstructure:"user_agent"`

	// Timeout bounds each API request. The upstream transport imposes no
	// bound of its own.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SubsConfig holds subscription store and notifier settings.
type SubsConfig struct {
	// DBPath selects the sqlite-backed store when set; empty keeps
	// subscriptions in memory, rebuilt on restart.
	DBPath string `mapstructure:"db_path"`

	// ScanInterval is the sleep between notifier scans.
	ScanInterval time.Duration `mapstructure:"scan_interval"`
}

// SlogLevel parses LogLevel, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads configuration. Precedence: ARXIVER_* environment variables,
// then the config file (path if given, else ./arxiver.yaml when present),
// then defaults. A .env file in the working directory is loaded first so
// DISCORD_BOT_TOKEN can live there.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("pulse_interval", time.Minute)
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.api_base", "")
	v.SetDefault("discord.presence", "for [arXiv:IDs]")
	v.SetDefault("arxiv.base_url", "")
	v.SetDefault("arxiv.user_agent", "arxiver/0.1")
	v.SetDefault("arxiv.timeout", 30*time.Second)
	v.SetDefault("subscriptions.db_path", "")
	v.SetDefault("subscriptions.scan_interval", 24*time.Hour)

	v.SetEnvPrefix("ARXIVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("arxiver")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Discord.Token == "" {
		cfg.Discord.Token = os.Getenv("DISCORD_BOT_TOKEN")
	}
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("discord token is required (set DISCORD_BOT_TOKEN)")
	}

	return &cfg, nil
}
