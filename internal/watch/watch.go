// Package watch re-runs a callback when watched files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long events must settle before OnChange runs.
// Editors often write a file in several steps.
const DefaultDebounce = 300 * time.Millisecond

const minTick = time.Millisecond

// ChangeFunc is called with the paths that changed since the last call
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher watches a fixed set of files. The containing directories are
// watched so that files replaced by rename (as many editors save) are
// still seen.
type Watcher struct {
	Paths    []string
	Debounce time.Duration
	OnChange ChangeFunc
	Logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// Run watches until ctx is canceled. OnChange calls never overlap.
// Run returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.Paths) == 0 {
		return fmt.Errorf("no files to watch")
	}
	if w.OnChange == nil {
		return fmt.Errorf("no change callback configured")
	}
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			log.Warn("failed to close file watcher", zap.Error(err))
		}
	}()

	targets := make(map[string]bool, len(w.Paths))
	dirs := make(map[string]bool)
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Debug("watching directory", zap.String("dir", dir))
	}

	w.mu.Lock()
	w.pending = make(map[string]time.Time)
	w.mu.Unlock()

	ticker := time.NewTicker(tickInterval(debounce))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			w.mu.Lock()
			w.pending[filepath.Clean(event.Name)] = time.Now()
			w.mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", zap.Error(err))

		case <-ticker.C:
			if changed := w.settled(debounce); len(changed) > 0 {
				w.OnChange(ctx, changed)
			}
		}
	}
}

// tickInterval polls three times per debounce window, but no more often
// than once a millisecond
func tickInterval(debounce time.Duration) time.Duration {
	if tick := debounce / 3; tick >= minTick {
		return tick
	}
	return minTick
}

// settled removes and returns paths whose last event is older than debounce
func (w *Watcher) settled(debounce time.Duration) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var changed []string
	for path, at := range w.pending {
		if now.Sub(at) >= debounce {
			changed = append(changed, path)
			delete(w.pending, path)
		}
	}
	return changed
}
