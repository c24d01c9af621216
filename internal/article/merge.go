package article

import (
	"article-view/internal/model"
	"article-view/internal/textsearch"
)

func mergeData(data *model.ArticleData, s model.ArticleState) (model.ArticleState, bool) {
	if data == nil {
		return s, false
	}
	s.Title = data.Title
	s.Category = data.Category
	s.CategoryIcon = data.CategoryIcon
	s.Date = data.Date
	s.Author = data.Author
	s.Poster = data.Poster
	s.ShareLink = data.ShareLink
	return s, true
}

func mergeContent(content *model.ArticleContent, s model.ArticleState) (model.ArticleState, bool) {
	if content == nil {
		return s, false
	}
	s.Content = content.Blocks
	s.IsLoadingContent = false
	if s.SearchQuery != "" {
		s = withSearch(s, s.SearchQuery)
	}
	return s, true
}

func mergePersonalInfo(info *model.ArticlePersonalInfo, s model.ArticleState) (model.ArticleState, bool) {
	if info == nil {
		return s, false
	}
	s.IsLike = info.IsLike
	s.IsBookmark = info.IsBookmark
	return s, true
}

func mergeSettings(settings *model.AppSettings, s model.ArticleState) (model.ArticleState, bool) {
	if settings == nil {
		return s, false
	}
	s.IsDarkMode = settings.IsDarkMode
	s.IsBigText = settings.IsBigText
	return s, true
}

// withSearch stores query and recomputes the matches over the loaded
// content. The position goes back to the first match.
func withSearch(s model.ArticleState, query string) model.ArticleState {
	s.SearchQuery = query
	s.SearchResults = textsearch.Find(s.SearchText(), query)
	s.SearchPosition = 0
	return s
}
