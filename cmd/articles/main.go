package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"article-view/internal/config"
)

var (
	logger     *zap.Logger
	cfg        config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "articles",
	Short: "articles - read saved articles with search, likes and bookmarks",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags(), configPath)
		if err != nil {
			return err
		}
		return setupLogger(cfg.LogLevel)
	},
}

func setupLogger(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err = zc.Build()
	return err
}

func main() {
	logger = zap.NewNop()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default ./articles.yaml if present)")
	rootCmd.PersistentFlags().String(config.KeyRedis, "localhost:6379", "Address of Redis server")
	rootCmd.PersistentFlags().String(config.KeyBadger, "./badger-data", "Path to BadgerDB data directory")
	rootCmd.PersistentFlags().String(config.KeySettings, "", "Path to the reader settings file")
	rootCmd.PersistentFlags().String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(viewCmd)

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
