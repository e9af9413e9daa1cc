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
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.Discord.Token)
	assert.Equal(t, "for [arXiv:IDs]", cfg.Discord.Presence)
	assert.Equal(t, 30*time.Second, cfg.Arxiv.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Subscriptions.ScanInterval)
	assert.Equal(t, time.Minute, cfg.PulseInterval)
	assert.Empty(t, cfg.Subscriptions.DBPath, "memory store by default")
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Chdir(t.TempDir())

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_BOT_TOKEN")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("ARXIVER_ARXIV_BASE_URL", "http://localhost:9999/api")
	t.Setenv("ARXIVER_SUBSCRIPTIONS_SCAN_INTERVAL", "1h")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/api", cfg.Arxiv.BaseURL)
	assert.Equal(t, time.Hour, cfg.Subscriptions.ScanInterval)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	dir := t.TempDir()
	path := filepath.Join(dir, "arxiver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"log_level: debug\nsubscriptions:\n  db_path: subs.db\n  scan_interval: 2h\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "subs.db", cfg.Subscriptions.DBPath)
	assert.Equal(t, 2*time.Hour, cfg.Subscriptions.ScanInterval)
}

func TestLoadTokenFromDotenv(t *testing.T) {
	// godotenv never overrides an existing variable, so drop it entirely
	// (t.Setenv first, to restore the original value afterwards).
	t.Setenv("DISCORD_BOT_TOKEN", "")
	os.Unsetenv("DISCORD_BOT_TOKEN")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISCORD_BOT_TOKEN=from-dotenv\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Discord.Token)
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	assert.Equal(t, cfg.SlogLevel().String(), "DEBUG")

	cfg.LogLevel = "nonsense"
	assert.Equal(t, cfg.SlogLevel().String(), "INFO")
}
