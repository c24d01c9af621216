package article

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"article-view/internal/livedata"
	"article-view/internal/model"
	"article-view/internal/notify"
	"article-view/internal/textsearch"
)

// fakeArticles echoes personal info updates through its cell, the way the
// real repository does.
type fakeArticles struct {
	data     *livedata.Cell[*model.ArticleData]
	content  *livedata.Cell[*model.ArticleContent]
	personal *livedata.Cell[*model.ArticlePersonalInfo]

	updates   []model.ArticlePersonalInfo
	noEcho    bool
	updateErr error
}

func newFakeArticles() *fakeArticles {
	return &fakeArticles{
		data:     livedata.NewCellOf[*model.ArticleData](nil),
		content:  livedata.NewCellOf[*model.ArticleContent](nil),
		personal: livedata.NewCellOf[*model.ArticlePersonalInfo](nil),
	}
}

func (f *fakeArticles) ArticleData(string) livedata.Observable[*model.ArticleData] {
	return f.data
}

func (f *fakeArticles) ArticleContent(string) livedata.Observable[*model.ArticleContent] {
	return f.content
}

func (f *fakeArticles) PersonalInfo(string) livedata.Observable[*model.ArticlePersonalInfo] {
	return f.personal
}

func (f *fakeArticles) UpdatePersonalInfo(_ context.Context, _ string, info model.ArticlePersonalInfo) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, info)
	if f.noEcho {
		return nil
	}
	return f.personal.Set(&info)
}

type fakeSettings struct {
	cell      *livedata.Cell[*model.AppSettings]
	updates   []model.AppSettings
	noEcho    bool
	updateErr error
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{cell: livedata.NewCell[*model.AppSettings]()}
}

func (f *fakeSettings) Settings() livedata.Observable[*model.AppSettings] {
	return f.cell
}

func (f *fakeSettings) UpdateSettings(_ context.Context, s model.AppSettings) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, s)
	if f.noEcho {
		return nil
	}
	return f.cell.Set(&s)
}

type harness struct {
	articles *fakeArticles
	settings *fakeSettings
	queue    *notify.Queue
	ctrl     *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		articles: newFakeArticles(),
		settings: newFakeSettings(),
		queue:    notify.NewQueue(8),
	}
	ctrl, err := New("article-1", Deps{
		Articles: h.articles,
		Settings: h.settings,
		Notifier: h.queue,
		Logger:   zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)
	h.ctrl = ctrl
	return h
}

func TestNew_MissingDependencies(t *testing.T) {
	_, err := New("", Deps{})
	assert.ErrorIs(t, err, ErrMissingDependency)

	_, err = New("id", Deps{Articles: newFakeArticles(), Settings: newFakeSettings()})
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestNew_StartsWithDefaultsWhenSourcesAreEmpty(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, model.NewArticleState(), h.ctrl.State())
	assert.Equal(t, "article-1", h.ctrl.ArticleID())
}

func TestController_MergesSources(t *testing.T) {
	h := newHarness(t)

	var snapshots []model.ArticleState
	h.ctrl.Observe(func(s model.ArticleState) { snapshots = append(snapshots, s) })

	require.NoError(t, h.articles.data.Set(&model.ArticleData{
		Title:     "CoordinatorLayout basic",
		Category:  "Android",
		Date:      "Mar 05, 2024",
		Author:    "Skill-Branch",
		ShareLink: "https://example.com/a",
	}))
	require.NoError(t, h.articles.content.Set(&model.ArticleContent{Blocks: []model.ContentBlock{
		{Kind: model.BlockParagraph, Text: "body"},
	}}))
	require.NoError(t, h.articles.personal.Set(&model.ArticlePersonalInfo{IsBookmark: true}))
	require.NoError(t, h.settings.cell.Set(&model.AppSettings{IsDarkMode: true}))

	s := h.ctrl.State()
	assert.Equal(t, "CoordinatorLayout basic", s.Title)
	assert.Equal(t, "Android", s.Category)
	assert.Equal(t, "https://example.com/a", s.ShareLink)
	assert.False(t, s.IsLoadingContent)
	assert.Len(t, s.Content, 1)
	assert.True(t, s.IsBookmark)
	assert.False(t, s.IsLike)
	assert.True(t, s.IsDarkMode)
	assert.Len(t, snapshots, 5, "initial delivery plus one per emission")
}

func TestController_AbsentSourceValuesKeepState(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.articles.data.Set(&model.ArticleData{Title: "kept"}))

	notified := 0
	h.ctrl.Observe(func(model.ArticleState) { notified++ })
	before := h.ctrl.State()

	require.NoError(t, h.articles.data.Set(nil))
	require.NoError(t, h.articles.content.Set(nil))
	require.NoError(t, h.articles.personal.Set(nil))
	require.NoError(t, h.settings.cell.Set(nil))

	assert.Equal(t, before, h.ctrl.State())
	assert.Equal(t, 1, notified)
}

func TestToggleLike_EchoUpdatesStateAndNotifiesOnce(t *testing.T) {
	h := newHarness(t)
	require.False(t, h.ctrl.State().IsLike)

	require.NoError(t, h.ctrl.ToggleLike(context.Background()))

	require.Len(t, h.articles.updates, 1)
	assert.True(t, h.articles.updates[0].IsLike)
	assert.True(t, h.ctrl.State().IsLike)

	got := h.queue.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, notify.KindMessage, got[0].Kind())
	assert.Equal(t, "Mark is liked", got[0].Text())
}

func TestToggleLike_UnlikeOffersReversal(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.articles.personal.Set(&model.ArticlePersonalInfo{IsLike: true}))

	require.NoError(t, h.ctrl.ToggleLike(context.Background()))
	assert.False(t, h.ctrl.State().IsLike)

	got := h.queue.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, notify.KindAction, got[0].Kind())
	assert.Equal(t, "Don`t like it anymore", got[0].Text())
	assert.Equal(t, "No, still like it", notify.Label(got[0]))

	require.True(t, notify.Run(got[0]))
	assert.True(t, h.ctrl.State().IsLike)
}

func TestToggleBookmark_RoundTripRestoresFlag(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before := h.ctrl.State().IsBookmark

	require.NoError(t, h.ctrl.ToggleBookmark(ctx))
	assert.NotEqual(t, before, h.ctrl.State().IsBookmark)
	require.NoError(t, h.ctrl.ToggleBookmark(ctx))
	assert.Equal(t, before, h.ctrl.State().IsBookmark)

	got := h.queue.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "Add to bookmarks", got[0].Text())
	assert.Equal(t, notify.KindMessage, got[0].Kind())
	assert.Equal(t, "Remove from bookmarks", got[1].Text())
	assert.Equal(t, notify.KindAction, got[1].Kind())

	require.True(t, notify.Run(got[1]))
	assert.True(t, h.ctrl.State().IsBookmark)
}

func TestToggleBookmark_StateWaitsForEcho(t *testing.T) {
	h := newHarness(t)
	h.articles.noEcho = true

	require.NoError(t, h.ctrl.ToggleBookmark(context.Background()))
	assert.False(t, h.ctrl.State().IsBookmark, "no echo yet")

	last := h.articles.updates[len(h.articles.updates)-1]
	require.NoError(t, h.articles.personal.Set(&last))
	assert.True(t, h.ctrl.State().IsBookmark)
}

func TestToggleBookmark_CollaboratorErrorIsReturned(t *testing.T) {
	h := newHarness(t)
	h.articles.updateErr = errors.New("redis down")

	err := h.ctrl.ToggleBookmark(context.Background())
	assert.ErrorIs(t, err, h.articles.updateErr)
	assert.False(t, h.ctrl.State().IsBookmark)
	assert.Empty(t, h.queue.Drain(), "failures are not reported as notifications")
}

func TestToggleNightMode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.ctrl.ToggleNightMode(ctx))
	require.Len(t, h.settings.updates, 1)
	assert.Equal(t, model.AppSettings{IsDarkMode: true}, h.settings.updates[0])
	assert.True(t, h.ctrl.State().IsDarkMode)

	require.NoError(t, h.ctrl.ToggleNightMode(ctx))
	assert.False(t, h.ctrl.State().IsDarkMode)
}

func TestSetTextSize(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.ctrl.TextUp(ctx))
	assert.True(t, h.ctrl.State().IsBigText)
	assert.Equal(t, model.TextSizeBig, h.ctrl.State().TextSize())

	require.NoError(t, h.ctrl.TextDown(ctx))
	assert.False(t, h.ctrl.State().IsBigText)

	h.settings.updateErr = errors.New("read-only")
	assert.ErrorIs(t, h.ctrl.SetTextSize(ctx, true), h.settings.updateErr)
	assert.False(t, h.ctrl.State().IsBigText)
}

func TestShare_AlwaysReportsNotImplemented(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Share()

	got := h.queue.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, notify.KindError, got[0].Kind())
	assert.Equal(t, "Share is not implemented", got[0].Text())
	assert.Equal(t, "OK", notify.Label(got[0]))
	assert.False(t, notify.Run(got[0]), "acknowledge only")
}

func TestToggleMenuAndSearchMode(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.ToggleMenu())
	assert.True(t, h.ctrl.State().IsShowMenu)
	require.NoError(t, h.ctrl.ToggleMenu())
	assert.False(t, h.ctrl.State().IsShowMenu)

	require.NoError(t, h.ctrl.SetSearchMode(true))
	assert.True(t, h.ctrl.State().IsSearch)
	require.NoError(t, h.ctrl.SetSearchMode(false))
	assert.False(t, h.ctrl.State().IsSearch)
	assert.Empty(t, h.settings.updates)
	assert.Empty(t, h.articles.updates)
}

func TestSetSearchQuery(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.articles.content.Set(&model.ArticleContent{Blocks: []model.ContentBlock{
		{Kind: model.BlockParagraph, Text: "the cat sat on the mat"},
	}}))
	require.NoError(t, h.ctrl.SetSearchQuery("cat"))
	require.NoError(t, h.ctrl.SetSearchQuery("the"))

	s := h.ctrl.State()
	assert.Equal(t, "the", s.SearchQuery)
	assert.Equal(t, []textsearch.Match{{Start: 0, Length: 3}, {Start: 15, Length: 3}}, s.SearchResults)
	assert.Zero(t, s.SearchPosition)

	require.NoError(t, h.ctrl.SetSearchQuery(""))
	assert.Empty(t, h.ctrl.State().SearchResults)
	assert.Empty(t, h.ctrl.State().SearchQuery)
}

func TestSearchNavigation(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.articles.content.Set(&model.ArticleContent{Blocks: []model.ContentBlock{
		{Kind: model.BlockParagraph, Text: "a b a b a"},
	}}))
	require.NoError(t, h.ctrl.SetSearchQuery("a"))

	require.NoError(t, h.ctrl.SearchPrev())
	assert.Zero(t, h.ctrl.State().SearchPosition)

	for range 5 {
		require.NoError(t, h.ctrl.SearchNext())
	}
	assert.Equal(t, 2, h.ctrl.State().SearchPosition)

	require.NoError(t, h.ctrl.SearchPrev())
	assert.Equal(t, 1, h.ctrl.State().SearchPosition)
}

func TestContentArrivingAfterQueryRecomputesMatches(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctrl.SetSearchQuery("go"))
	assert.Empty(t, h.ctrl.State().SearchResults)

	require.NoError(t, h.articles.content.Set(&model.ArticleContent{Blocks: []model.ContentBlock{
		{Kind: model.BlockHeading, Text: "Go"},
		{Kind: model.BlockParagraph, Text: "Let's go"},
	}}))

	assert.Equal(t, []textsearch.Match{{Start: 0, Length: 2}, {Start: 9, Length: 2}}, h.ctrl.State().SearchResults)
}

func TestClose_DetachesSources(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Close()

	require.NoError(t, h.articles.data.Set(&model.ArticleData{Title: "late"}))
	assert.Empty(t, h.ctrl.State().Title)
	assert.Zero(t, h.articles.data.Observers())
}
