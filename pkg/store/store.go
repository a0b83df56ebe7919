// Package store owns the durable settings record. It is the single writer of
// persisted state: all mutations funnel through Set, which validates, commits
// in memory, writes through to disk, and fans a change event out to
// subscribers.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/readershell/pkg/settings"
)

const settingsKey = "settings.json"

// document is the on-disk shape: the settings aggregate plus a version
// counter used to detect stale writes from other processes sharing the file.
type document struct {
	Version uint64 `json:"_version,omitempty"`
	settings.Settings
}

// Store is the single source of truth for user preferences.
type Store struct {
	mu      sync.Mutex
	d       *diskv.Diskv
	log     *zap.Logger
	base    string
	current settings.Settings
	version uint64
	dirty   bool

	subs    []subscriber
	nextSub int

	// notifyMu serializes subscriber delivery; pending holds committed
	// snapshots awaiting fan-out, in commit order.
	notifyMu sync.Mutex
	pending  []settings.Settings
}

type subscriber struct {
	id int
	fn func(settings.Settings)
}

// Open loads the durable record (or defaults when it is missing or
// malformed) and returns a ready store. A nil cfg falls back to LoadConfig;
// a nil logger falls back to zap.NewNop.
func Open(cfg Config, log *zap.Logger) (*Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = zap.NewNop()
	}

	base := cfg.BasePath()
	if base == "" {
		return nil, errors.New("store: settings path unknown")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure settings directory: %w", err)
	}

	s := &Store{
		d: diskv.New(diskv.Options{
			BasePath:     base,
			Transform:    func(string) []string { return []string{} },
			TempDir:      base + string(os.PathSeparator) + ".tmp",
			CacheSizeMax: 1024 * 64,
		}),
		log:  log,
		base: base,
	}
	s.current, s.version = s.load()
	return s, nil
}

// load reads the durable record. Missing or corrupt records degrade to
// defaults; the caller never sees an error.
func (s *Store) load() (settings.Settings, uint64) {
	data, err := s.d.Read(settingsKey)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("store: settings record unreadable, using defaults", zap.Error(err))
		}
		return settings.Default(), 0
	}
	// Unmarshal over defaults so fields absent from older records keep
	// their first-run values.
	doc := document{Settings: settings.Default()}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn("store: settings record malformed, using defaults", zap.Error(err))
		return settings.Default(), 0
	}
	if doc.AutoFlip.Interval <= 0 {
		doc.AutoFlip.Interval = settings.DefaultFlipInterval
	}
	if doc.Zoom <= 0 || doc.Zoom > settings.MaxZoom {
		doc.Zoom = settings.DefaultZoom
	}
	return doc.Settings, doc.Version
}

// Get returns a snapshot. It never blocks on I/O.
func (s *Store) Get() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set applies a partial update. Invalid fields are rejected individually
// (and returned); the remaining fields commit, persist write-through, and
// notify subscribers. Persistence failure keeps the in-memory value and
// marks the store dirty for a later retry.
func (s *Store) Set(p settings.Patch) (settings.Settings, []settings.Rejection) {
	s.mu.Lock()

	next, rejected := settings.Apply(s.current, p)
	for _, r := range rejected {
		s.log.Warn("store: patch field rejected",
			zap.String("field", r.Field),
			zap.String("reason", r.Reason))
	}

	if next == s.current && !s.dirty {
		snap := s.current
		s.mu.Unlock()
		return snap, rejected
	}

	changed := next != s.current
	s.current = next
	if changed {
		s.version++
	}
	s.persistLocked()
	snap := s.current
	if changed {
		s.pending = append(s.pending, snap)
	}
	s.mu.Unlock()

	if changed {
		s.dispatch()
	}
	return snap, rejected
}

// dispatch drains pending snapshots to subscribers. Committers race to be
// the dispatcher; whoever holds notifyMu delivers, so callbacks never run
// concurrently and snapshots always arrive in commit order.
func (s *Store) dispatch() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		snap := s.pending[0]
		s.pending = s.pending[1:]
		subs := s.snapshotSubsLocked()
		s.mu.Unlock()

		for _, sub := range subs {
			sub.fn(snap)
		}
	}
}

// persistLocked writes the current document. The caller holds s.mu.
func (s *Store) persistLocked() {
	data, err := json.MarshalIndent(document{Version: s.version, Settings: s.current}, "", "  ")
	if err != nil {
		s.dirty = true
		s.log.Warn("store: marshal settings", zap.Error(err))
		return
	}
	if err := s.d.Write(settingsKey, data); err != nil {
		s.dirty = true
		s.log.Warn("store: persist settings, keeping in-memory value", zap.Error(err))
		return
	}
	s.dirty = false
}

// Flush writes the current document once more, bounded by ctx. Used on
// shutdown; a flush that cannot complete in time does not block exit.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.persistLocked()
	}()
	select {
	case <-done:
		s.mu.Lock()
		dirty := s.dirty
		s.mu.Unlock()
		if dirty {
			return errors.New("store: flush did not persist")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dirty reports whether the last persist attempt failed.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Subscribe registers a change callback, invoked with a snapshot after every
// committed mutation, in commit order. Callbacks from different commits
// never run concurrently. The returned func cancels the subscription.
func (s *Store) Subscribe(fn func(settings.Settings)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) snapshotSubsLocked() []subscriber {
	out := make([]subscriber, len(s.subs))
	copy(out, s.subs)
	return out
}

// adoptExternal replaces the in-memory value with a record written by
// another process, if it is newer than what we hold.
func (s *Store) adoptExternal() {
	s.mu.Lock()
	loaded, version := s.load()
	if version <= s.version || loaded == s.current {
		s.mu.Unlock()
		return
	}
	s.current = loaded
	s.version = version
	s.pending = append(s.pending, s.current)
	s.mu.Unlock()

	s.log.Info("store: adopted external settings change", zap.Uint64("version", version))
	s.dispatch()
}
