// Package menu mirrors settings into the native menu check state and turns
// inbound commands into store mutations or scheduler transitions.
package menu

import (
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/readershell/pkg/bridge"
	"tableflip.dev/readershell/pkg/flip"
	"tableflip.dev/readershell/pkg/settings"
	"tableflip.dev/readershell/pkg/store"
)

// State is the external menu representation: which check items are on.
type State struct {
	ToggleWide     bool `json:"toggleWide"`
	ToggleToolbar  bool `json:"toggleToolbar"`
	ToggleAutoFlip bool `json:"toggleAutoFlip"`
}

// Derive computes menu state from a snapshot. It is recomputed in full on
// every change event rather than patched incrementally.
func Derive(s settings.Settings) State {
	return State{
		ToggleWide:     s.ReaderWide,
		ToggleToolbar:  s.HideToolbar,
		ToggleAutoFlip: s.AutoFlip.Active,
	}
}

// Reflector sits between the command stream and the store/scheduler pair.
type Reflector struct {
	Store     *store.Store
	Scheduler *flip.Scheduler
	Bridge    *bridge.Bridge
	Log       *zap.Logger

	// InReader reports whether the content view currently shows a reader
	// page; it gates arming the flip timer.
	InReader func() bool
	// Navigate drives the content view to a URL.
	Navigate func(url string) error

	state State
}

// New wires a reflector and subscribes it to store changes: every commit
// recomputes the menu state and pushes a full snapshot to the view. The
// returned cancel func detaches the subscription.
func New(st *store.Store, sched *flip.Scheduler, br *bridge.Bridge, log *zap.Logger) (*Reflector, func()) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Reflector{
		Store:     st,
		Scheduler: sched,
		Bridge:    br,
		Log:       log,
	}
	r.state = Derive(st.Get())
	cancel := st.Subscribe(func(s settings.Settings) {
		r.state = Derive(s)
		if r.Bridge != nil {
			r.Bridge.Push(s)
		}
	})
	return r, cancel
}

// State returns the current menu representation.
func (r *Reflector) State() State {
	return r.state
}

// Handle maps a command onto exactly one store mutation or one scheduler
// transition. The returned error is the command's acknowledgment; it is nil
// only after the mutation or transition committed.
func (r *Reflector) Handle(cmd bridge.Command) error {
	switch cmd.Name {
	case bridge.CmdToggleWide:
		cur := r.Store.Get()
		r.Store.Set(settings.Patch{ReaderWide: settings.Bool(!cur.ReaderWide)})
		return nil

	case bridge.CmdToggleToolbar:
		cur := r.Store.Get()
		r.Store.Set(settings.Patch{HideToolbar: settings.Bool(!cur.HideToolbar)})
		return nil

	case bridge.CmdToggleAutoFlip:
		inReader := r.InReader != nil && r.InReader()
		r.Scheduler.Toggle(inReader)
		return nil

	case bridge.CmdSetZoom:
		_, rejected := r.Store.Set(settings.Patch{Zoom: settings.Float(cmd.Zoom)})
		if len(rejected) > 0 {
			return rejected[0]
		}
		return nil

	case bridge.CmdNavigate:
		if r.Navigate == nil {
			return fmt.Errorf("menu: no navigation target for %q", cmd.URL)
		}
		return r.Navigate(cmd.URL)

	default:
		return fmt.Errorf("menu: unknown command %q", cmd.Name)
	}
}
