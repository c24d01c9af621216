package model

import (
	"fmt"

	"article-view/internal/textsearch"
)

const (
	TextSizeNormal = 14
	TextSizeBig    = 18
)

// ArticleState is the snapshot rendered by the article screen.
type ArticleState struct {
	IsAuth           bool               `json:"is_auth"`
	IsLoadingContent bool               `json:"is_loading_content"`
	IsLoadingReviews bool               `json:"is_loading_reviews"`
	IsLike           bool               `json:"is_like"`
	IsBookmark       bool               `json:"is_bookmark"`
	IsShowMenu       bool               `json:"is_show_menu"`
	IsBigText        bool               `json:"is_big_text"`
	IsDarkMode       bool               `json:"is_dark_mode"`
	IsSearch         bool               `json:"is_search"`
	SearchQuery      string             `json:"search_query,omitempty"`
	SearchResults    []textsearch.Match `json:"search_results"`
	SearchPosition   int                `json:"search_position"`
	ShareLink        string             `json:"share_link,omitempty"`
	Title            string             `json:"title,omitempty"`
	Category         string             `json:"category,omitempty"`
	CategoryIcon     string             `json:"category_icon,omitempty"`
	Date             string             `json:"date,omitempty"`
	Author           string             `json:"author,omitempty"`
	Poster           string             `json:"poster,omitempty"`
	Content          []ContentBlock     `json:"content"`
	Reviews          []any              `json:"reviews"`
}

// NewArticleState returns the state shown before any source has loaded.
func NewArticleState() ArticleState {
	return ArticleState{
		IsLoadingContent: true,
		IsLoadingReviews: true,
	}
}

// Validate checks that the search position points into the results.
func (s ArticleState) Validate() error {
	if s.SearchPosition < 0 {
		return fmt.Errorf("search position %d is negative", s.SearchPosition)
	}
	if len(s.SearchResults) > 0 && s.SearchPosition >= len(s.SearchResults) {
		return fmt.Errorf("search position %d out of %d results", s.SearchPosition, len(s.SearchResults))
	}
	return nil
}

// AppSettings is the settings view of the state.
func (s ArticleState) AppSettings() AppSettings {
	return AppSettings{IsDarkMode: s.IsDarkMode, IsBigText: s.IsBigText}
}

// PersonalInfo is the personalization view of the state.
func (s ArticleState) PersonalInfo() ArticlePersonalInfo {
	return ArticlePersonalInfo{IsLike: s.IsLike, IsBookmark: s.IsBookmark}
}

// SearchText is the text search results point into.
func (s ArticleState) SearchText() string {
	return ArticleContent{Blocks: s.Content}.SearchText()
}

// TextSize returns the body font size in sp.
func (s ArticleState) TextSize() int {
	if s.IsBigText {
		return TextSizeBig
	}
	return TextSizeNormal
}
