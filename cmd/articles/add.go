package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"article-view/internal/model"
	"article-view/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Queue a URL for archiving",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]

		// Initialize Store (CLIENT MODE - Redis Only)
		// Passing "" as the second argument ensures we don't try to open the BadgerDB file lock.
		st, err := store.NewHybridStore(cfg.RedisAddr, "")
		if err != nil {
			return err
		}
		defer st.Close()

		article := model.NewArticle(url)
		if err := st.Save(context.Background(), &article); err != nil {
			return err
		}

		logger.Info("Article queued",
			zap.String("id", article.ID.String()),
			zap.String("url", url))
		cmd.Println(article.ID.String())
		return nil
	},
}
