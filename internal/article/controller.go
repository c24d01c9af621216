// Package article drives the article screen.
//
// A Controller owns the screen's ArticleState. It folds article metadata,
// content, personal info and app settings into that state as their
// sources emit, and turns user commands into either local transitions or
// calls on the sources. Commands that go through a source do not touch the
// state themselves: the change shows up once the source emits it back.
package article

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"article-view/internal/livedata"
	"article-view/internal/model"
	"article-view/internal/notify"
	"article-view/internal/state"
)

var ErrMissingDependency = errors.New("missing controller dependency")

const (
	msgLiked         = "Mark is liked"
	msgUnliked       = "Don`t like it anymore"
	labelUnliked     = "No, still like it"
	msgBookmarked    = "Add to bookmarks"
	msgUnbookmarked  = "Remove from bookmarks"
	labelUnbookmark  = "No, keep it"
	msgShareDisabled = "Share is not implemented"
	labelShare       = "OK"
)

// Deps are the collaborators a Controller calls.
type Deps struct {
	Articles ArticleSource
	Settings SettingsSource
	Notifier notify.Sink
	Logger   *zap.Logger
}

type Controller struct {
	articleID string
	store     *state.Store[model.ArticleState]
	articles  ArticleSource
	settings  SettingsSource
	notifier  notify.Sink
	logger    *zap.Logger
	subs      livedata.Subscriptions
}

// New builds the controller for articleID and attaches it to its sources.
// Sources that already hold values are merged before New returns.
func New(articleID string, deps Deps) (*Controller, error) {
	switch {
	case articleID == "":
		return nil, fmt.Errorf("%w: article id", ErrMissingDependency)
	case deps.Articles == nil:
		return nil, fmt.Errorf("%w: article source", ErrMissingDependency)
	case deps.Settings == nil:
		return nil, fmt.Errorf("%w: settings source", ErrMissingDependency)
	case deps.Notifier == nil:
		return nil, fmt.Errorf("%w: notifier", ErrMissingDependency)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("article_id", articleID))

	st, err := state.NewStore(model.NewArticleState(),
		state.WithValidator(model.ArticleState.Validate),
		state.WithLogger[model.ArticleState](logger))
	if err != nil {
		return nil, err
	}

	c := &Controller{
		articleID: articleID,
		store:     st,
		articles:  deps.Articles,
		settings:  deps.Settings,
		notifier:  deps.Notifier,
		logger:    logger,
	}
	if err := c.attach(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Controller) attach() error {
	sub, err := state.Subscribe(c.store, c.articles.ArticleData(c.articleID), mergeData)
	c.subs = append(c.subs, sub)
	if err != nil {
		return fmt.Errorf("attach article data: %w", err)
	}

	sub, err = state.Subscribe(c.store, c.articles.ArticleContent(c.articleID), mergeContent)
	c.subs = append(c.subs, sub)
	if err != nil {
		return fmt.Errorf("attach article content: %w", err)
	}

	sub, err = state.Subscribe(c.store, c.articles.PersonalInfo(c.articleID), mergePersonalInfo)
	c.subs = append(c.subs, sub)
	if err != nil {
		return fmt.Errorf("attach personal info: %w", err)
	}

	sub, err = state.Subscribe(c.store, c.settings.Settings(), mergeSettings)
	c.subs = append(c.subs, sub)
	if err != nil {
		return fmt.Errorf("attach settings: %w", err)
	}
	return nil
}

// ArticleID returns the id the controller was built for.
func (c *Controller) ArticleID() string {
	return c.articleID
}

// State returns the current snapshot.
func (c *Controller) State() model.ArticleState {
	return c.store.State()
}

// Observe calls fn with the current snapshot and every later one.
func (c *Controller) Observe(fn func(model.ArticleState)) livedata.Subscription {
	return c.store.Observe(fn)
}

// Close detaches the controller from its sources.
func (c *Controller) Close() {
	c.subs.Cancel()
	c.subs = nil
}

// ToggleNightMode asks the settings source to flip dark mode.
func (c *Controller) ToggleNightMode(ctx context.Context) error {
	settings := c.State().AppSettings()
	settings.IsDarkMode = !settings.IsDarkMode
	c.logger.Debug("Toggle night mode", zap.Bool("dark_mode", settings.IsDarkMode))
	if err := c.settings.UpdateSettings(ctx, settings); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

// SetTextSize asks the settings source for big or normal body text.
func (c *Controller) SetTextSize(ctx context.Context, big bool) error {
	settings := c.State().AppSettings()
	settings.IsBigText = big
	c.logger.Debug("Set text size", zap.Bool("big_text", big))
	if err := c.settings.UpdateSettings(ctx, settings); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

// TextUp switches to big text.
func (c *Controller) TextUp(ctx context.Context) error {
	return c.SetTextSize(ctx, true)
}

// TextDown switches back to normal text.
func (c *Controller) TextDown(ctx context.Context) error {
	return c.SetTextSize(ctx, false)
}

// ToggleBookmark flips the bookmark flag. Removing a bookmark offers an
// action that adds it back.
func (c *Controller) ToggleBookmark(ctx context.Context) error {
	info := c.State().PersonalInfo()
	info.IsBookmark = !info.IsBookmark
	if err := c.updatePersonalInfo(ctx, info); err != nil {
		return err
	}

	if info.IsBookmark {
		c.notifier.Notify(notify.NewMessage(msgBookmarked))
	} else {
		c.notifier.Notify(notify.NewAction(msgUnbookmarked, labelUnbookmark, c.undo(ctx, "bookmark", c.ToggleBookmark)))
	}
	return nil
}

// ToggleLike flips the like flag. Removing a like offers an action that
// likes the article again.
func (c *Controller) ToggleLike(ctx context.Context) error {
	info := c.State().PersonalInfo()
	info.IsLike = !info.IsLike
	if err := c.updatePersonalInfo(ctx, info); err != nil {
		return err
	}

	if info.IsLike {
		c.notifier.Notify(notify.NewMessage(msgLiked))
	} else {
		c.notifier.Notify(notify.NewAction(msgUnliked, labelUnliked, c.undo(ctx, "like", c.ToggleLike)))
	}
	return nil
}

func (c *Controller) updatePersonalInfo(ctx context.Context, info model.ArticlePersonalInfo) error {
	c.logger.Debug("Update personal info",
		zap.Bool("like", info.IsLike),
		zap.Bool("bookmark", info.IsBookmark))
	if err := c.articles.UpdatePersonalInfo(ctx, c.articleID, info); err != nil {
		return fmt.Errorf("update personal info: %w", err)
	}
	return nil
}

// undo wraps a toggle as a notification action. The action may run long
// after ctx's request is over, so it keeps ctx's values but not its
// cancellation.
func (c *Controller) undo(ctx context.Context, name string, toggle func(context.Context) error) func() {
	ctx = context.WithoutCancel(ctx)
	return func() {
		if err := toggle(ctx); err != nil {
			c.logger.Error("Undo failed", zap.String("command", name), zap.Error(err))
		}
	}
}

// Share is not available yet; it always reports so to the user.
func (c *Controller) Share() {
	c.notifier.Notify(notify.NewError(msgShareDisabled, labelShare, nil))
}

// ToggleMenu shows or hides the bottom bar menu.
func (c *Controller) ToggleMenu() error {
	return c.store.Update(func(s model.ArticleState) model.ArticleState {
		s.IsShowMenu = !s.IsShowMenu
		return s
	})
}

// SetSearchMode opens or closes the search bar.
func (c *Controller) SetSearchMode(active bool) error {
	return c.store.Update(func(s model.ArticleState) model.ArticleState {
		s.IsSearch = active
		return s
	})
}

// SetSearchQuery stores query and highlights its matches in the loaded
// content. An empty query clears the matches.
func (c *Controller) SetSearchQuery(query string) error {
	return c.store.Update(func(s model.ArticleState) model.ArticleState {
		return withSearch(s, query)
	})
}

// SearchNext moves to the next match, stopping at the last one.
func (c *Controller) SearchNext() error {
	return c.moveSearch(1)
}

// SearchPrev moves to the previous match, stopping at the first one.
func (c *Controller) SearchPrev() error {
	return c.moveSearch(-1)
}

func (c *Controller) moveSearch(delta int) error {
	return c.store.Update(func(s model.ArticleState) model.ArticleState {
		if len(s.SearchResults) == 0 {
			return s
		}
		s.SearchPosition = min(max(s.SearchPosition+delta, 0), len(s.SearchResults)-1)
		return s
	})
}
