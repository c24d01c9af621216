// Package config resolves runtime settings from flags, environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"article-view/internal/prefs"
)

const envPrefix = "ARTICLES"

// Keys understood by Load. Flags with the same names are bound when
// passed to Load.
const (
	KeyRedis    = "redis"
	KeyBadger   = "badger"
	KeySettings = "settings"
	KeyAddr     = "addr"
	KeyLogLevel = "log-level"
)

// Config captures what the CLI needs to wire the application.
type Config struct {
	RedisAddr    string
	BadgerPath   string
	SettingsPath string
	HTTPAddr     string
	LogLevel     string
}

// Defaults applied before flags, environment and file.
func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyRedis, "localhost:6379")
	v.SetDefault(KeyBadger, "./badger-data")
	v.SetDefault(KeySettings, prefs.DefaultPath())
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
}

// Load merges, lowest priority first: defaults, the config file
// (articles.yaml/.toml in the working directory or configPath), ARTICLES_*
// environment variables and set flags.
func Load(flags *pflag.FlagSet, configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("articles")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		RedisAddr:    v.GetString(KeyRedis),
		BadgerPath:   v.GetString(KeyBadger),
		SettingsPath: v.GetString(KeySettings),
		HTTPAddr:     v.GetString(KeyAddr),
		LogLevel:     v.GetString(KeyLogLevel),
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return Config{}, errors.New("redis address is required")
	}
	return cfg, nil
}
