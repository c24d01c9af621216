package worker

import (
	"context"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"article-view/internal/model"
	"article-view/internal/store"
)

const scrapeTimeout = 30 * time.Second

// Scraper defines the interface for downloading web pages.
// This allows us to mock the "Download" step in tests.
type Scraper interface {
	Scrape(url string, timeout time.Duration) (*readability.Article, error)
}

// DefaultScraper is the real implementation that uses the internet
type DefaultScraper struct{}

func (s *DefaultScraper) Scrape(url string, timeout time.Duration) (*readability.Article, error) {
	art, err := readability.FromURL(url, timeout)
	return &art, err
}

type Worker struct {
	store      store.Store
	logger     *zap.Logger
	scraper    Scraper
	onArchived func(id uuid.UUID)
}

// Option customises a Worker.
type Option func(*Worker)

// WithScraper replaces the network scraper.
func WithScraper(s Scraper) Option {
	return func(w *Worker) {
		w.scraper = s
	}
}

// OnArchived registers fn to run, on the worker goroutine, after each job
// finishes, whether it archived the article or marked it failed.
func OnArchived(fn func(id uuid.UUID)) Option {
	return func(w *Worker) {
		w.onArchived = fn
	}
}

// NewWorker initializes the worker with the DefaultScraper
func NewWorker(store store.Store, logger *zap.Logger, opts ...Option) *Worker {
	w := &Worker{
		store:   store,
		logger:  logger,
		scraper: &DefaultScraper{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs the worker loop
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started. Waiting for jobs...")

	for {
		// Wait for job (Blocking call to Redis)
		id, err := w.store.PopQueue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("Worker shutting down")
				return
			}
			w.logger.Error("Queue error", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if w.processJob(ctx, id) && w.onArchived != nil {
			w.onArchived(id)
		}
	}
}

// processJob reports whether the stored article changed.
func (w *Worker) processJob(ctx context.Context, id uuid.UUID) bool {
	logger := w.logger.With(zap.String("job_id", id.String()))
	logger.Info("Processing started")

	article, err := w.store.Get(ctx, id)
	if err != nil {
		logger.Error("Job failed: Article not found", zap.Error(err))
		return false
	}

	logger.Info("Downloading", zap.String("url", article.URL))

	parsed, err := w.scraper.Scrape(article.URL, scrapeTimeout)
	if err != nil {
		logger.Error("Scraping failed", zap.Error(err))
		return w.failJob(ctx, logger, article, err.Error())
	}

	blocks, err := model.BlocksFromHTML(parsed.Content)
	if err != nil {
		logger.Error("Splitting content failed", zap.Error(err))
		return w.failJob(ctx, logger, article, err.Error())
	}

	article.Title = parsed.Title
	article.Excerpt = parsed.Excerpt
	article.Blocks = blocks
	article.Status = model.StatusArchived
	now := time.Now()
	article.ArchivedAt = &now

	if err := w.store.Save(ctx, article); err != nil {
		logger.Error("Failed to save result", zap.Error(err))
		return false
	}

	logger.Info("Archiving complete",
		zap.String("title", article.Title),
		zap.Int("blocks", len(blocks)))
	return true
}

func (w *Worker) failJob(ctx context.Context, logger *zap.Logger, article *model.Article, msg string) bool {
	article.Status = model.StatusFailed
	article.ErrorMessage = msg
	if err := w.store.Save(ctx, article); err != nil {
		logger.Error("Failed to record failure", zap.Error(err))
		return false
	}
	return true
}
