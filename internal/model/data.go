package model

import "strings"

// ArticleData is the article metadata shown in the screen header.
type ArticleData struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	CategoryIcon string `json:"category_icon"`
	Date         string `json:"date"`
	Author       string `json:"author"`
	Poster       string `json:"poster"`
	ShareLink    string `json:"share_link"`
}

// BlockKind tells the renderer how a block was marked up.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockHeading   BlockKind = "heading"
	BlockListItem  BlockKind = "list_item"
	BlockQuote     BlockKind = "quote"
	BlockCode      BlockKind = "code"
)

// ContentBlock is one piece of the article body.
type ContentBlock struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text"`
}

// ArticleContent is the ordered body of an article.
type ArticleContent struct {
	Blocks []ContentBlock `json:"blocks"`
}

// SearchText is the text that search offsets point into: block texts
// joined by newlines.
func (c ArticleContent) SearchText() string {
	texts := make([]string, len(c.Blocks))
	for i, b := range c.Blocks {
		texts[i] = b.Text
	}
	return strings.Join(texts, "\n")
}

// ArticlePersonalInfo holds what the reader did with an article.
type ArticlePersonalInfo struct {
	IsLike     bool `json:"is_like"`
	IsBookmark bool `json:"is_bookmark"`
}

// AppSettings are the reader preferences that shape the screen.
type AppSettings struct {
	IsDarkMode bool `json:"is_dark_mode" toml:"dark_mode"`
	IsBigText  bool `json:"is_big_text" toml:"big_text"`
}
