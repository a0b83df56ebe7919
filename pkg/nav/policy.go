// Package nav decides where the content view should go: restoring the last
// reader page at startup, recording reader visits, and disarming the flip
// timer when the user leaves a reading context.
package nav

import (
	"go.uber.org/zap"

	"tableflip.dev/readershell/pkg/flip"
	"tableflip.dev/readershell/pkg/settings"
	"tableflip.dev/readershell/pkg/store"
)

// Classifier reports whether a URL is a reader page. The shape of reader
// URLs is host knowledge; the policy treats the answer as opaque.
type Classifier func(url string) bool

// Policy reacts to startup and navigation events.
type Policy struct {
	IsReader  Classifier
	Store     *store.Store
	Scheduler *flip.Scheduler
	Log       *zap.Logger
}

// New returns a policy. A nil logger falls back to zap.NewNop.
func New(isReader Classifier, st *store.Store, sched *flip.Scheduler, log *zap.Logger) *Policy {
	if log == nil {
		log = zap.NewNop()
	}
	return &Policy{IsReader: isReader, Store: st, Scheduler: sched, Log: log}
}

// OnStartup returns the URL to restore, or "" to stay on the initial view.
// Restoration happens only when the lastPage preference is on, a reader URL
// was recorded, and the initial view is not already a reader page.
func (p *Policy) OnStartup(s settings.Settings, initialURL string) string {
	if !s.LastPage || s.LastReaderURL == "" {
		return ""
	}
	if p.IsReader != nil && p.IsReader(initialURL) {
		return ""
	}
	p.Log.Info("nav: restoring last reader page", zap.String("url", s.LastReaderURL))
	return s.LastReaderURL
}

// OnNavigate handles a completed navigation. Leaving a reader context
// disarms the flip timer; entering one records the URL as the resume
// target. The recorded URL is only ever overwritten, never cleared.
func (p *Policy) OnNavigate(url string, prevWasReader bool) {
	isReader := p.IsReader != nil && p.IsReader(url)

	if prevWasReader && !isReader && p.Scheduler != nil {
		p.Scheduler.Disarm(flip.ReasonNavigation)
	}

	if isReader && p.Store != nil {
		p.Store.Set(settings.Patch{LastReaderURL: settings.String(url)})
	}
}
