// Package tui is a terminal stand-in for the embedded content view. It
// renders toggle affordances from the snapshots the shell pushes over the
// bridge and turns key presses into commands, exactly the way the real web
// view's injected script does.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/readershell/pkg/bridge"
	"tableflip.dev/readershell/pkg/nav"
	"tableflip.dev/readershell/pkg/settings"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offStyle    = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

type snapshotMsg settings.Settings

type flipMsg struct{}

type disconnectedMsg struct{}

type ackMsg struct {
	name string
	err  error
}

// Model is the simulated content view.
type Model struct {
	br   *bridge.Bridge
	conn *bridge.Conn
	site nav.Site

	snap    settings.Settings
	haveOne bool
	flips   int
	status  string
}

// New attaches a view model to the bridge. The connection's first delivery
// is the full snapshot pushed by Connect.
func New(br *bridge.Bridge, conn *bridge.Conn, site nav.Site) Model {
	return Model{br: br, conn: conn, site: site}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.conn), waitForFlip(m.conn))
}

func waitForUpdate(c *bridge.Conn) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-c.Updates()
		if !ok {
			return disconnectedMsg{}
		}
		return snapshotMsg(s)
	}
}

func waitForFlip(c *bridge.Conn) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-c.Flips(); !ok {
			return disconnectedMsg{}
		}
		return flipMsg{}
	}
}

func (m Model) send(cmd bridge.Command) tea.Cmd {
	br := m.br
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ackMsg{name: cmd.Name, err: br.Send(ctx, cmd)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		next := settings.Settings(msg)
		if m.haveOne && next.Equal(m.snap) {
			// Redelivered snapshot; nothing to redraw.
			return m, waitForUpdate(m.conn)
		}
		m.snap = next
		m.haveOne = true
		return m, waitForUpdate(m.conn)

	case flipMsg:
		m.flips++
		return m, waitForFlip(m.conn)

	case ackMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.name, msg.err)
		} else {
			m.status = msg.name + " ok"
		}
		return m, nil

	case disconnectedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "w":
			return m, m.send(bridge.Command{Name: bridge.CmdToggleWide})
		case "t":
			return m, m.send(bridge.Command{Name: bridge.CmdToggleToolbar})
		case "f":
			return m, m.send(bridge.Command{Name: bridge.CmdToggleAutoFlip})
		case "+", "=":
			return m, m.send(bridge.Command{Name: bridge.CmdSetZoom, Zoom: m.snap.Zoom + 0.1})
		case "-":
			return m, m.send(bridge.Command{Name: bridge.CmdSetZoom, Zoom: m.snap.Zoom - 0.1})
		case "r":
			url := m.site.HomeURL + "web/reader/simulated"
			return m, m.send(bridge.Command{Name: bridge.CmdNavigate, URL: url})
		case "h":
			return m, m.send(bridge.Command{Name: bridge.CmdNavigate, URL: m.site.HomeURL})
		case "q", "ctrl+c":
			return m, tea.Sequence(m.send(bridge.Command{Name: bridge.CmdQuit}), tea.Quit)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if !m.haveOne {
		return statusStyle.Render("waiting for shell…") + "\n"
	}

	out := titleStyle.Render(m.site.Name) + "\n\n"
	out += toggleLine("wide layout", m.snap.ReaderWide, "w")
	out += toggleLine("toolbar hidden", m.snap.HideToolbar, "t")
	out += toggleLine("auto flip", m.snap.AutoFlip.Active, "f")
	out += fmt.Sprintf("  zoom %.1f (+/-)   flips %d   interval %ds\n",
		m.snap.Zoom, m.flips, m.snap.AutoFlip.Interval)
	if m.snap.LastReaderURL != "" {
		out += statusStyle.Render("  resume: "+m.snap.LastReaderURL) + "\n"
	}
	out += "\n" + statusStyle.Render("r reader  h home  q quit  "+m.status) + "\n"
	return out
}

func toggleLine(label string, on bool, key string) string {
	mark := offStyle.Render("·")
	if on {
		mark = onStyle.Render("✓")
	}
	return fmt.Sprintf("  %s %s (%s)\n", mark, label, key)
}
