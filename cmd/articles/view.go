package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"article-view/internal/article"
	"article-view/internal/model"
	"article-view/internal/notify"
	"article-view/internal/repository"
	"article-view/internal/store"
)

type viewOptions struct {
	search    string
	bookmark  bool
	like      bool
	nightMode bool
	bigText   bool
	share     bool
}

var viewOpts viewOptions

var viewCmd = &cobra.Command{
	Use:   "view [id]",
	Short: "Open an article, apply commands and print the resulting screen state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewHybridStore(cfg.RedisAddr, cfg.BadgerPath)
		if err != nil {
			return err
		}
		defer st.Close()

		settings, err := repository.NewSettings(cfg.SettingsPath, logger)
		if err != nil {
			return err
		}
		return runView(cmd.Context(), cmd.OutOrStdout(), args[0], repository.NewArticles(st, logger), settings, viewOpts)
	},
}

func init() {
	viewCmd.Flags().StringVar(&viewOpts.search, "search", "", "Search the article body")
	viewCmd.Flags().BoolVar(&viewOpts.bookmark, "bookmark", false, "Toggle the bookmark")
	viewCmd.Flags().BoolVar(&viewOpts.like, "like", false, "Toggle the like")
	viewCmd.Flags().BoolVar(&viewOpts.nightMode, "night", false, "Toggle night mode")
	viewCmd.Flags().BoolVar(&viewOpts.bigText, "big-text", false, "Switch to big text")
	viewCmd.Flags().BoolVar(&viewOpts.share, "share", false, "Share the article")
}

type viewOutput struct {
	State         model.ArticleState `json:"state"`
	TextSize      int                `json:"text_size"`
	Notifications []string           `json:"notifications"`
}

// runView drives one controller on the calling goroutine, which acts as
// the main loop for the lifetime of the command.
func runView(ctx context.Context, out io.Writer, articleID string, articles *repository.Articles, settings *repository.Settings, opts viewOptions) error {
	if err := articles.Refresh(ctx, articleID); err != nil {
		return err
	}

	queue := notify.NewQueue(16)
	ctrl, err := article.New(articleID, article.Deps{
		Articles: articles,
		Settings: settings,
		Notifier: notify.Tee(queue, notify.LogSink{Logger: logger}),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	steps := []struct {
		on  bool
		run func() error
	}{
		{opts.bookmark, func() error { return ctrl.ToggleBookmark(ctx) }},
		{opts.like, func() error { return ctrl.ToggleLike(ctx) }},
		{opts.nightMode, func() error { return ctrl.ToggleNightMode(ctx) }},
		{opts.bigText, func() error { return ctrl.TextUp(ctx) }},
		{opts.share, func() error { ctrl.Share(); return nil }},
		{opts.search != "", func() error {
			if err := ctrl.SetSearchMode(true); err != nil {
				return err
			}
			return ctrl.SetSearchQuery(opts.search)
		}},
	}
	for _, step := range steps {
		if !step.on {
			continue
		}
		if err := step.run(); err != nil {
			return err
		}
	}

	result := viewOutput{State: ctrl.State(), TextSize: ctrl.State().TextSize()}
	for _, n := range queue.Drain() {
		text := fmt.Sprintf("[%s] %s", n.Kind(), n.Text())
		if label := notify.Label(n); label != "" {
			text += " (" + label + ")"
		}
		result.Notifications = append(result.Notifications, text)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
