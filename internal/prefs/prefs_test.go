package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-view/internal/model"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, model.AppSettings{}, got)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	want := model.AppSettings{IsDarkMode: true, IsBigText: true}

	require.NoError(t, Save(path, want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "dark_mode = true")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_InvalidFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("dark_mode = [oops"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.AppSettings{}, got)
}

func TestResolve_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := Resolve("~/x/settings.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "settings.toml"), got)

	def, err := Resolve("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(def))
}

func TestWatch_SignalsOnSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := Watch(ctx, path)
	require.NoError(t, err)

	require.NoError(t, Save(path, model.AppSettings{IsDarkMode: true}))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after save")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
