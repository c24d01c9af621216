package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyRedis, "localhost:6379", "")
	fs.String(KeyBadger, "./badger-data", "")
	fs.String(KeyAddr, ":8080", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(newFlags(), "")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "./badger-data", cfg.BadgerPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.SettingsPath)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ARTICLES_REDIS", "redis:6380")
	t.Setenv("ARTICLES_LOG_LEVEL", "debug")

	cfg, err := Load(newFlags(), "")
	require.NoError(t, err)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_SetFlagWinsOverEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ARTICLES_ADDR", ":9000")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--addr", ":7000"}))

	cfg, err := Load(fs, "")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "articles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("badger: /data/badger\nsettings: /data/settings.toml\n"), 0o644))

	cfg, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "/data/badger", cfg.BadgerPath)
	assert.Equal(t, "/data/settings.toml", cfg.SettingsPath)

	_, err = Load(nil, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
