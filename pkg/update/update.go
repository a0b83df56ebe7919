// Package update runs the background auto-update check. The actual release
// feed and installer are host concerns behind the Updater interface; this
// package owns the cadence, the timeouts, and the autoUpdate preference.
package update

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/readershell/pkg/store"
)

// Release describes an available update.
type Release struct {
	Version string
	Notes   string
}

// Updater checks for and fetches releases.
type Updater interface {
	Check(ctx context.Context) (*Release, error)
	Download(ctx context.Context, r *Release) error
}

// Status of the checker, surfaced to the menu.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusChecking    Status = "checking"
	StatusDownloading Status = "downloading"
	StatusReady       Status = "ready"
)

// ErrNoUpdate is returned by CheckNow when the current version is latest.
var ErrNoUpdate = errors.New("update: already up to date")

const (
	initialDelay    = 10 * time.Second
	checkEvery      = 24 * time.Hour
	checkTimeout    = 10 * time.Second
	manualTimeout   = 15 * time.Second
	downloadTimeout = 30 * time.Second
)

// Disabled is an Updater with no release feed; checks always report the
// current version as latest.
type Disabled struct{}

func (Disabled) Check(context.Context) (*Release, error) { return nil, nil }

func (Disabled) Download(context.Context, *Release) error {
	return errors.New("update: no release feed")
}

// Manager schedules silent checks and serves manual ones.
type Manager struct {
	Updater Updater
	Store   *store.Store
	Log     *zap.Logger

	// OnStatus, when set, receives every status transition.
	OnStatus func(Status)

	mu         sync.Mutex
	downloaded bool
}

// New returns a manager. A nil logger falls back to zap.NewNop.
func New(u Updater, st *store.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{Updater: u, Store: st, Log: log}
}

// Downloaded reports whether a release is staged for install.
func (m *Manager) Downloaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.downloaded
}

func (m *Manager) status(s Status) {
	if m.OnStatus != nil {
		m.OnStatus(s)
	}
}

// Run performs silent checks on a fixed cadence until ctx ends. Checks are
// skipped entirely while the autoUpdate preference is off. Failures are
// logged and retried on the next cycle, never surfaced to the user.
func (m *Manager) Run(ctx context.Context) {
	timer := time.NewTimer(initialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		m.tick(ctx)

		timer.Reset(checkEvery)
	}
}

// tick runs one silent-check cycle, honoring the autoUpdate preference.
func (m *Manager) tick(ctx context.Context) {
	if !m.Store.Get().AutoUpdate {
		return
	}
	m.checkSilent(ctx)
}

func (m *Manager) checkSilent(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	rel, err := m.Updater.Check(checkCtx)
	cancel()
	if err != nil {
		m.Log.Warn("update: silent check failed", zap.Error(err))
		return
	}
	if rel == nil {
		return
	}

	m.Log.Info("update: release found", zap.String("version", rel.Version))
	m.status(StatusDownloading)

	dlCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	err = m.Updater.Download(dlCtx, rel)
	cancel()
	if err != nil {
		m.Log.Warn("update: download failed", zap.Error(err))
		m.status(StatusIdle)
		return
	}

	m.mu.Lock()
	m.downloaded = true
	m.mu.Unlock()
	m.status(StatusReady)
}

// CheckNow performs a user-initiated check with its own timeout and returns
// the release, ErrNoUpdate, or the underlying failure.
func (m *Manager) CheckNow(ctx context.Context) (*Release, error) {
	m.status(StatusChecking)
	defer func() {
		if !m.Downloaded() {
			m.status(StatusIdle)
		}
	}()

	checkCtx, cancel := context.WithTimeout(ctx, manualTimeout)
	defer cancel()
	rel, err := m.Updater.Check(checkCtx)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, ErrNoUpdate
	}
	return rel, nil
}
