// Package prefs handles reader settings persistence.
// Settings are stored in ~/.config/article-view/settings.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"article-view/internal/model"
)

const defaultPrefsPath = "~/.config/article-view/settings.toml"

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads settings from the given path, falling back to defaults if
// missing or unreadable.
func Load(path string) (model.AppSettings, error) {
	resolved, err := Resolve(path)
	if err != nil {
		return model.AppSettings{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.AppSettings{}, nil
		}
		return model.AppSettings{}, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return model.AppSettings{}, nil // Graceful degradation
	}

	var settings model.AppSettings
	if err := toml.Unmarshal(bytes, &settings); err != nil {
		return model.AppSettings{}, nil // Graceful degradation
	}
	return settings, nil
}

// Save writes settings to the given path, creating directories as needed.
func Save(path string, s model.AppSettings) error {
	resolved, err := Resolve(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	// Write through a temp file so watchers never read a half-written file.
	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// Resolve expands ~ and makes path absolute. An empty path means the
// default location.
func Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
