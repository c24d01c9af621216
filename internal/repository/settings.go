package repository

import (
	"context"

	"go.uber.org/zap"

	"article-view/internal/livedata"
	"article-view/internal/model"
	"article-view/internal/prefs"
)

// Poster hands work to the main loop.
type Poster interface {
	Post(fn func()) bool
}

// Settings serves the app settings stored in a prefs file.
type Settings struct {
	path   string
	cell   *livedata.Cell[*model.AppSettings]
	logger *zap.Logger
}

// NewSettings reads the settings file at path and serves its contents.
func NewSettings(path string, logger *zap.Logger) (*Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	current, err := prefs.Load(path)
	if err != nil {
		return nil, err
	}
	return &Settings{
		path:   path,
		cell:   livedata.NewCellOf(&current),
		logger: logger,
	}, nil
}

func (s *Settings) Settings() livedata.Observable[*model.AppSettings] {
	return s.cell
}

// Current returns the settings last published.
func (s *Settings) Current() model.AppSettings {
	if v := s.cell.Value(); v != nil {
		return *v
	}
	return model.AppSettings{}
}

// UpdateSettings saves settings and publishes them.
func (s *Settings) UpdateSettings(_ context.Context, settings model.AppSettings) error {
	if err := prefs.Save(s.path, settings); err != nil {
		return err
	}
	return s.cell.Set(&settings)
}

// Follow reloads the settings file whenever it changes on disk, for edits
// made outside this process, and publishes the result through loop. It
// returns once watching has started.
func (s *Settings) Follow(ctx context.Context, loop Poster) error {
	changes, err := prefs.Watch(ctx, s.path)
	if err != nil {
		return err
	}

	go func() {
		for range changes {
			next, err := prefs.Load(s.path)
			if err != nil {
				s.logger.Error("Failed to reload settings", zap.Error(err))
				continue
			}
			loop.Post(func() {
				if s.Current() == next {
					return
				}
				s.logger.Info("Settings changed on disk",
					zap.Bool("dark_mode", next.IsDarkMode),
					zap.Bool("big_text", next.IsBigText))
				if err := s.cell.Set(&next); err != nil {
					s.logger.Error("Settings observers failed", zap.Error(err))
				}
			})
		}
	}()
	return nil
}
