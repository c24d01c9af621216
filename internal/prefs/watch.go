package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const settleDelay = 50 * time.Millisecond

// Watch signals on the returned channel whenever the settings file at path
// changes. Bursts of writes are coalesced into one signal. The channel is
// closed when ctx is done or the watcher fails.
//
// The parent directory is watched rather than the file, since Save
// replaces the file by renaming over it.
func Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	resolved, err := Resolve(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prefs: ensure dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("prefs: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("prefs: watch %s: %w", dir, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer func() { _ = watcher.Close() }()

		var settle <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != resolved {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				settle = time.After(settleDelay)
			case <-settle:
				settle = nil
				select {
				case changes <- struct{}{}:
				default:
					// A signal is already pending; the reader reloads once.
				}
			}
		}
	}()

	return changes, nil
}
