package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"article-view/internal/config"
	"article-view/internal/mainloop"
	"article-view/internal/repository"
	"article-view/internal/server"
	"article-view/internal/store"
	"article-view/internal/worker"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the archiving worker and the article server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Initialize Store (FULL MODE - Redis + Badger)
		st, err := store.NewHybridStore(cfg.RedisAddr, cfg.BadgerPath)
		if err != nil {
			return err
		}
		defer st.Close()

		loop := mainloop.New(logger.Named("loop"), 256)
		go loop.Run(ctx)

		settings, err := repository.NewSettings(cfg.SettingsPath, logger)
		if err != nil {
			return err
		}
		if err := settings.Follow(ctx, loop); err != nil {
			logger.Warn("Settings file will not be watched", zap.Error(err))
		}

		articles := repository.NewArticles(st, logger)
		srv := server.NewServer(st, articles, settings, loop, logger.Named("http"))

		w := worker.NewWorker(st, logger.Named("worker"), worker.OnArchived(func(id uuid.UUID) {
			if err := srv.Refresh(ctx, id.String()); err != nil && ctx.Err() == nil {
				logger.Error("Failed to refresh archived article", zap.String("id", id.String()), zap.Error(err))
			}
		}))
		go w.Start(ctx)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(cfg.HTTPAddr)
		}()

		logger.Info("Server running. Press Ctrl+C to stop.")
		select {
		case <-ctx.Done():
			logger.Info("Shutting down...")
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
		logger.Info("Goodbye!")
		return nil
	},
}

func init() {
	serverCmd.Flags().String(config.KeyAddr, ":8080", "HTTP listen address")
}
