package server

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"article-view/internal/article"
)

var (
	errBadRequest = errors.New("bad request")
	errNoAction   = errors.New("no action")
	errNotOpen    = errors.New("screen not open")
)

// command runs on the main loop. Its form is parsed before the loop is
// entered, so no command touches the request body.
type command func(ctx context.Context, c *article.Controller, form url.Values) error

var commands = map[string]command{
	"night-mode": func(ctx context.Context, c *article.Controller, _ url.Values) error {
		return c.ToggleNightMode(ctx)
	},
	"text-up": func(ctx context.Context, c *article.Controller, _ url.Values) error {
		return c.TextUp(ctx)
	},
	"text-down": func(ctx context.Context, c *article.Controller, _ url.Values) error {
		return c.TextDown(ctx)
	},
	"bookmark": func(ctx context.Context, c *article.Controller, _ url.Values) error {
		return c.ToggleBookmark(ctx)
	},
	"like": func(ctx context.Context, c *article.Controller, _ url.Values) error {
		return c.ToggleLike(ctx)
	},
	"share": func(_ context.Context, c *article.Controller, _ url.Values) error {
		c.Share()
		return nil
	},
	"menu": func(_ context.Context, c *article.Controller, _ url.Values) error {
		return c.ToggleMenu()
	},
	"search-mode": func(_ context.Context, c *article.Controller, form url.Values) error {
		active, err := strconv.ParseBool(form.Get("active"))
		if err != nil {
			return fmt.Errorf("%w: active must be true or false", errBadRequest)
		}
		return c.SetSearchMode(active)
	},
	"search": func(_ context.Context, c *article.Controller, form url.Values) error {
		return c.SetSearchQuery(form.Get("q"))
	},
	"search-next": func(_ context.Context, c *article.Controller, _ url.Values) error {
		return c.SearchNext()
	},
	"search-prev": func(_ context.Context, c *article.Controller, _ url.Values) error {
		return c.SearchPrev()
	},
}

func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
