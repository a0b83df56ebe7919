package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch follows the settings file for writes made by other processes (a
// second shell window shares the same record). Newer external documents are
// adopted and fanned out to subscribers; our own writes and stale versions
// are ignored. Watching stops when ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(s.base); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("store: watch %s: %w", s.base, err)
	}

	target := filepath.Join(s.base, settingsKey)

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				s.log.Warn("store: watcher close", zap.Error(err))
			}
		}()

		// Coalesce bursts: an atomic replace shows up as several events.
		debounce := newReloadDebounce(100*time.Millisecond, s.adoptExternal)
		defer debounce.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("store: watcher error", zap.Error(err))
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				debounce.Trigger()
			}
		}
	}()

	return nil
}

// reloadDebounce collapses a burst of file events into a single reload.
type reloadDebounce struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fn    func()
}

func newReloadDebounce(delay time.Duration, fn func()) *reloadDebounce {
	return &reloadDebounce{delay: delay, fn: fn}
}

func (d *reloadDebounce) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, func() {
			d.mu.Lock()
			d.timer = nil
			d.mu.Unlock()
			d.fn()
		})
	}
}

func (d *reloadDebounce) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
