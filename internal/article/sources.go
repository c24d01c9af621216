package article

import (
	"context"

	"article-view/internal/livedata"
	"article-view/internal/model"
)

// ArticleSource supplies one article's data. Each observable emits nil
// until its value is available.
type ArticleSource interface {
	ArticleData(articleID string) livedata.Observable[*model.ArticleData]
	ArticleContent(articleID string) livedata.Observable[*model.ArticleContent]
	PersonalInfo(articleID string) livedata.Observable[*model.ArticlePersonalInfo]
	// UpdatePersonalInfo stores info. The new value reaches the controller
	// through PersonalInfo, not through the return.
	UpdatePersonalInfo(ctx context.Context, articleID string, info model.ArticlePersonalInfo) error
}

// SettingsSource supplies the app settings.
type SettingsSource interface {
	Settings() livedata.Observable[*model.AppSettings]
	UpdateSettings(ctx context.Context, settings model.AppSettings) error
}
