// Package shell runs the native side of the reader: one loop that
// serializes commands, flip ticks, and navigation events over the settings
// store, and tears everything down safely on shutdown intent.
package shell

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/readershell/pkg/bridge"
	"tableflip.dev/readershell/pkg/flip"
	"tableflip.dev/readershell/pkg/menu"
	"tableflip.dev/readershell/pkg/nav"
	"tableflip.dev/readershell/pkg/settings"
	"tableflip.dev/readershell/pkg/store"
)

// DefaultGrace bounds the shutdown flush. Exit proceeds when it elapses.
const DefaultGrace = 2 * time.Second

// ErrBusy is returned when the shell loop cannot accept another navigation.
var ErrBusy = errors.New("shell: navigation queue full")

// Shell owns the store, scheduler, policy, and reflector, and runs the
// single serialized loop they all dispatch through.
type Shell struct {
	Store     *store.Store
	Bridge    *bridge.Bridge
	Scheduler *flip.Scheduler
	Policy    *nav.Policy
	Reflector *menu.Reflector
	Site      nav.Site
	Log       *zap.Logger

	// Driver points the embedded content view at a URL. Optional; the
	// simulated view only needs the navigation events.
	Driver func(url string)

	// Grace bounds the shutdown flush; zero means DefaultGrace.
	Grace time.Duration

	currentURL string
	flips      chan struct{}
	navs       chan string
	detach     func()
}

// New wires a shell around an opened store and bridge.
func New(st *store.Store, br *bridge.Bridge, site nav.Site, wake flip.WakeLock, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Shell{
		Store:      st,
		Bridge:     br,
		Site:       site,
		Log:        log,
		Grace:      DefaultGrace,
		currentURL: site.HomeURL,
		flips:      make(chan struct{}, 1),
		navs:       make(chan string, 16),
	}

	s.Scheduler = flip.New(st, wake, s.queueFlip, log)
	s.Policy = nav.New(site.IsReaderURL, st, s.Scheduler, log)

	r, detach := menu.New(st, s.Scheduler, br, log)
	r.InReader = s.inReader
	r.Navigate = s.Navigate
	s.Reflector = r
	s.detach = detach

	return s
}

// CurrentURL reports where the content view is. Valid only from the shell
// loop or while it is stopped.
func (s *Shell) CurrentURL() string {
	return s.currentURL
}

func (s *Shell) inReader() bool {
	return s.Site.IsReaderURL(s.currentURL)
}

// queueFlip routes a timer tick into the serialized loop, never firing
// out-of-band against a concurrent toggle.
func (s *Shell) queueFlip() {
	select {
	case s.flips <- struct{}{}:
	default:
	}
}

// Navigate asks the content view to load url and records the navigation
// event for the policy. Safe to call from command handlers.
func (s *Shell) Navigate(url string) error {
	select {
	case s.navs <- url:
		return nil
	default:
		return ErrBusy
	}
}

// Run drives the shell loop until ctx is cancelled or a quit command
// arrives, then performs the shutdown sequence. The initial navigation
// restores the last reader page when the policy says so.
func (s *Shell) Run(ctx context.Context) error {
	defer s.detach()

	if target := s.Policy.OnStartup(s.Store.Get(), s.currentURL); target != "" {
		_ = s.Navigate(target)
	}

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()

		case env := <-s.Bridge.Commands():
			if env.Cmd.Name == bridge.CmdQuit {
				s.shutdown()
				env.Reply(nil)
				return nil
			}
			env.Reply(s.Reflector.Handle(env.Cmd))

		case <-s.flips:
			// One page turn per tick, forwarded to the view.
			s.Bridge.Flip()

		case url := <-s.navs:
			s.handleNavigation(url)
		}
	}
}

func (s *Shell) handleNavigation(url string) {
	prevWasReader := s.inReader()
	s.currentURL = url
	if s.Driver != nil {
		s.Driver(url)
	}
	s.Policy.OnNavigate(url, prevWasReader)
	s.Log.Info("shell: navigated", zap.String("url", url))
}

// shutdown is the shutdown-intent handler: the flip timer is driven to idle
// first (clearing the active flag), then the store is flushed under a
// bounded grace period. Exit is never blocked indefinitely.
func (s *Shell) shutdown() {
	s.Scheduler.Disarm(flip.ReasonShutdown)

	grace := s.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := s.Store.Flush(ctx); err != nil {
		s.Log.Warn("shell: shutdown flush incomplete", zap.Error(err))
	}
}

// Snapshot returns the current settings. Convenience for hosts rendering
// state outside the loop.
func (s *Shell) Snapshot() settings.Settings {
	return s.Store.Get()
}
