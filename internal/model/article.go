package model

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

type ArticleStatus string

const (
	StatusPending  ArticleStatus = "pending"
	StatusArchived ArticleStatus = "archived"
	StatusFailed   ArticleStatus = "failed"
)

const dateFormat = "Jan 02, 2006"

// Article is the stored record of a saved web article.
type Article struct {
	ID           uuid.UUID      `json:"id"`
	URL          string         `json:"url"`
	Title        string         `json:"title"`
	Excerpt      string         `json:"excerpt"`
	Category     string         `json:"category,omitempty"`
	CategoryIcon string         `json:"category_icon,omitempty"`
	Author       string         `json:"author,omitempty"`
	Poster       string         `json:"poster,omitempty"`
	Blocks       []ContentBlock `json:"blocks,omitempty"`
	Status       ArticleStatus  `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	ArchivedAt   *time.Time     `json:"archived_at,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// NewArticle creates a new Article instance with the given URL and default values.
func NewArticle(rawURL string) Article {
	return Article{
		ID:        uuid.New(),
		URL:       rawURL,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// Data returns the metadata shown in the article header. The category
// falls back to the host name of the article URL.
func (a Article) Data() ArticleData {
	category := a.Category
	if category == "" {
		category = "unknown"
		if parsed, err := url.Parse(a.URL); err == nil && parsed.Hostname() != "" {
			category = parsed.Hostname()
		}
	}

	date := a.CreatedAt
	if a.ArchivedAt != nil {
		date = *a.ArchivedAt
	}

	return ArticleData{
		Title:        a.Title,
		Category:     category,
		CategoryIcon: a.CategoryIcon,
		Date:         date.Format(dateFormat),
		Author:       a.Author,
		Poster:       a.Poster,
		ShareLink:    a.URL,
	}
}

// Content returns the loaded body, or nil while the article is still
// pending. A failed article has an empty body so readers stop waiting.
func (a Article) Content() *ArticleContent {
	switch a.Status {
	case StatusArchived:
		return &ArticleContent{Blocks: a.Blocks}
	case StatusFailed:
		return &ArticleContent{}
	default:
		return nil
	}
}
