// Package repository turns stored articles and settings into the
// observable sources read by screen controllers.
//
// Cells are created, read and published on the host's main loop. Load only
// performs IO and may run anywhere; its result is published with Publish
// back on the main loop.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"article-view/internal/livedata"
	"article-view/internal/model"
	"article-view/internal/store"
)

var ErrInvalidID = errors.New("invalid article id")

// Snapshot is everything Load read for one article. Nil fields were not
// available.
type Snapshot struct {
	Data     *model.ArticleData
	Content  *model.ArticleContent
	Personal *model.ArticlePersonalInfo
}

type articleCells struct {
	data     *livedata.Cell[*model.ArticleData]
	content  *livedata.Cell[*model.ArticleContent]
	personal *livedata.Cell[*model.ArticlePersonalInfo]
}

// Articles serves per-article cells backed by a store.Store.
type Articles struct {
	store  store.Store
	logger *zap.Logger
	cells  map[string]*articleCells
}

func NewArticles(st store.Store, logger *zap.Logger) *Articles {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Articles{
		store:  st,
		logger: logger,
		cells:  make(map[string]*articleCells),
	}
}

func (r *Articles) cellsFor(articleID string) *articleCells {
	c, ok := r.cells[articleID]
	if !ok {
		c = &articleCells{
			data:     livedata.NewCellOf[*model.ArticleData](nil),
			content:  livedata.NewCellOf[*model.ArticleContent](nil),
			personal: livedata.NewCellOf[*model.ArticlePersonalInfo](nil),
		}
		r.cells[articleID] = c
	}
	return c
}

func (r *Articles) ArticleData(articleID string) livedata.Observable[*model.ArticleData] {
	return r.cellsFor(articleID).data
}

func (r *Articles) ArticleContent(articleID string) livedata.Observable[*model.ArticleContent] {
	return r.cellsFor(articleID).content
}

func (r *Articles) PersonalInfo(articleID string) livedata.Observable[*model.ArticlePersonalInfo] {
	return r.cellsFor(articleID).personal
}

// UpdatePersonalInfo persists info and then publishes it through the
// personal info cell.
func (r *Articles) UpdatePersonalInfo(ctx context.Context, articleID string, info model.ArticlePersonalInfo) error {
	id, err := parseID(articleID)
	if err != nil {
		return err
	}
	if err := r.store.SavePersonalInfo(ctx, id, info); err != nil {
		return err
	}
	return r.cellsFor(articleID).personal.Set(&info)
}

// Load reads an article's current data. A pending article has data and
// personal info but no content yet.
func (r *Articles) Load(ctx context.Context, articleID string) (Snapshot, error) {
	id, err := parseID(articleID)
	if err != nil {
		return Snapshot{}, err
	}

	article, err := r.store.Get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	personal, err := r.store.GetPersonalInfo(ctx, id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load personal info: %w", err)
	}

	data := article.Data()
	return Snapshot{
		Data:     &data,
		Content:  article.Content(),
		Personal: &personal,
	}, nil
}

// Publish pushes snap into the article's cells. Nil fields leave the
// matching cell untouched.
func (r *Articles) Publish(articleID string, snap Snapshot) error {
	c := r.cellsFor(articleID)
	var errs error
	if snap.Data != nil {
		errs = multierr.Append(errs, c.data.Set(snap.Data))
	}
	if snap.Content != nil {
		errs = multierr.Append(errs, c.content.Set(snap.Content))
	}
	if snap.Personal != nil {
		errs = multierr.Append(errs, c.personal.Set(snap.Personal))
	}
	return errs
}

// Refresh is Load followed by Publish, for callers already on the main
// loop.
func (r *Articles) Refresh(ctx context.Context, articleID string) error {
	snap, err := r.Load(ctx, articleID)
	if err != nil {
		return err
	}
	r.logger.Debug("Article refreshed",
		zap.String("article_id", articleID),
		zap.Bool("has_content", snap.Content != nil))
	return r.Publish(articleID, snap)
}

// Cached reports whether the article currently has cells.
func (r *Articles) Cached(articleID string) bool {
	_, ok := r.cells[articleID]
	return ok
}

// Forget drops the cells of an article nobody observes any more.
func (r *Articles) Forget(articleID string) {
	c, ok := r.cells[articleID]
	if !ok {
		return
	}
	if c.data.Observers()+c.content.Observers()+c.personal.Observers() == 0 {
		delete(r.cells, articleID)
	}
}

func parseID(articleID string) (uuid.UUID, error) {
	id, err := uuid.Parse(articleID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w %q: %v", ErrInvalidID, articleID, err)
	}
	return id, nil
}
