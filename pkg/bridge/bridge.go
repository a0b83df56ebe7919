// Package bridge is the message link between the shell and the content
// view: two independently scheduled loops with no shared memory. Commands
// flow view-to-shell and are acknowledged individually; state updates flow
// shell-to-view as full snapshots.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/readershell/pkg/settings"
)

// Command identifiers, matching the external command stream.
const (
	CmdToggleWide     = "toggleWide"
	CmdToggleToolbar  = "toggleToolbar"
	CmdToggleAutoFlip = "toggleAutoFlip"
	CmdSetZoom        = "setZoom"
	CmdNavigate       = "navigate"
	CmdQuit           = "quit"
)

// Command is a view- or menu-originated instruction for the shell. Zoom and
// URL are populated only for their respective commands.
type Command struct {
	Name string  `json:"name"`
	Zoom float64 `json:"zoom,omitempty"`
	URL  string  `json:"url,omitempty"`
}

// ErrClosed is returned when sending over a torn-down bridge.
var ErrClosed = errors.New("bridge: closed")

// Envelope pairs an inbound command with its acknowledgment path. The shell
// must Reply exactly once; the error (or nil) becomes the sender's ack.
type Envelope struct {
	Cmd Command
	ack chan error
}

// Reply acknowledges the command with the handler outcome.
func (e Envelope) Reply(err error) {
	e.ack <- err
}

// Bridge carries commands to the shell and snapshots to the connected view.
type Bridge struct {
	mu     sync.Mutex
	cmds   chan Envelope
	conn   *Conn
	closed bool
}

// New returns a bridge ready for one shell loop and one view connection.
func New() *Bridge {
	return &Bridge{cmds: make(chan Envelope, 16)}
}

// Send delivers cmd to the shell and blocks until it is acknowledged or ctx
// ends. A handler failure is surfaced here as the returned error; commands
// are never dropped silently.
func (b *Bridge) Send(ctx context.Context, cmd Command) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.mu.Unlock()

	env := Envelope{Cmd: cmd, ack: make(chan error, 1)}
	select {
	case b.cmds <- env:
	case <-ctx.Done():
		return fmt.Errorf("bridge: send %s: %w", cmd.Name, ctx.Err())
	}

	// A Close racing the enqueue may have drained the queue already; do not
	// wait on an ack nobody will deliver.
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		select {
		case err := <-env.ack:
			return err
		default:
			return ErrClosed
		}
	}

	select {
	case err := <-env.ack:
		return err
	case <-ctx.Done():
		return fmt.Errorf("bridge: ack %s: %w", cmd.Name, ctx.Err())
	}
}

// Commands exposes the shell-side inbound stream.
func (b *Bridge) Commands() <-chan Envelope {
	return b.cmds
}

// Close tears the bridge down. Later Sends fail with ErrClosed, and commands
// still queued are acknowledged with it. A command the shell loop has already
// taken keeps its sender waiting for the shell's reply or the send context.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.conn != nil {
		close(b.conn.updates)
		close(b.conn.flips)
		b.conn = nil
	}
	b.mu.Unlock()

	for {
		select {
		case env := <-b.cmds:
			env.Reply(ErrClosed)
		default:
			return
		}
	}
}

// Conn is the view side of the bridge: ordered state snapshots plus
// fire-and-forget flip ticks.
type Conn struct {
	updates chan settings.Settings
	flips   chan struct{}
}

// Updates streams full settings snapshots in commit order. Repeated
// identical snapshots are possible and must be treated idempotently.
func (c *Conn) Updates() <-chan settings.Settings {
	return c.updates
}

// Flips streams auto page-flip ticks.
func (c *Conn) Flips() <-chan struct{} {
	return c.flips
}

// Connect attaches a view, replacing any prior connection. The first
// delivery after (re)connection is always the full snapshot provided here,
// never a delta.
func (b *Bridge) Connect(snapshot settings.Settings) *Conn {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		close(b.conn.updates)
		close(b.conn.flips)
	}
	b.conn = &Conn{
		updates: make(chan settings.Settings, 16),
		flips:   make(chan struct{}, 1),
	}
	b.conn.updates <- snapshot
	return b.conn
}

// Push sends a snapshot to the connected view. A saturated or absent view
// drops the update; every push is a complete snapshot, so the next delivery
// fully repairs the view. Pushes never block the shell loop.
func (b *Bridge) Push(s settings.Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil || b.closed {
		return
	}
	select {
	case b.conn.updates <- s:
	default:
	}
}

// Flip delivers one page-flip tick, fire-and-forget.
func (b *Bridge) Flip() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil || b.closed {
		return
	}
	select {
	case b.conn.flips <- struct{}{}:
	default:
	}
}
