package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"article-view/internal/model"
)

var (
	ErrNotFound = errors.New("article not found")
)

type Store interface {
	Save(ctx context.Context, article *model.Article) error
	Get(ctx context.Context, id uuid.UUID) (*model.Article, error)
	List(ctx context.Context, limit int) ([]model.Article, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ArticleStatus) error
	PopQueue(ctx context.Context) (uuid.UUID, error)

	// Personal info is kept apart from the article record so the archiver
	// never overwrites what the reader did.
	GetPersonalInfo(ctx context.Context, id uuid.UUID) (model.ArticlePersonalInfo, error)
	SavePersonalInfo(ctx context.Context, id uuid.UUID, info model.ArticlePersonalInfo) error
}
