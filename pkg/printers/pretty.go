// Package printers renders settings snapshots for the CLI.
package printers

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/readershell/pkg/menu"
	"tableflip.dev/readershell/pkg/settings"
)

type PrettyPrint struct{}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

// Settings prints the full snapshot as a field/value table.
func (pp *PrettyPrint) Settings(s settings.Settings) {
	table := uitable.New()
	table.AddRow("readerWide", onOff(s.ReaderWide))
	table.AddRow("hideToolbar", onOff(s.HideToolbar))
	table.AddRow("zoom", strconv.FormatFloat(s.Zoom, 'g', -1, 64))
	table.AddRow("lastPage", onOff(s.LastPage))
	table.AddRow("autoUpdate", onOff(s.AutoUpdate))
	table.AddRow("lastReaderUrl", orNone(s.LastReaderURL))
	table.AddRow("autoFlip.active", onOff(s.AutoFlip.Active))
	table.AddRow("autoFlip.interval", fmt.Sprintf("%ds", s.AutoFlip.Interval))
	table.AddRow("autoFlip.keepAwake", onOff(s.AutoFlip.KeepAwake))
	fmt.Println(table)
}

// Menu prints the derived menu check state.
func (pp *PrettyPrint) Menu(m menu.State) {
	table := uitable.New()
	table.AddRow("toggleWide", check(m.ToggleWide))
	table.AddRow("toggleToolbar", check(m.ToggleToolbar))
	table.AddRow("toggleAutoFlip", check(m.ToggleAutoFlip))
	fmt.Println(table)
}

// Rejections prints validation failures from a patch.
func (pp *PrettyPrint) Rejections(rejected []settings.Rejection) {
	if len(rejected) == 0 {
		return
	}
	w := color.New(color.FgHiYellow)
	for _, r := range rejected {
		_, _ = w.Printf("rejected: %s %s\n", r.Field, r.Reason)
	}
}

func onOff(v bool) string {
	if v {
		return color.GreenString("on")
	}
	return color.New(color.Faint).Sprint("off")
}

func check(v bool) string {
	if v {
		return color.GreenString("✓")
	}
	return color.New(color.Faint).Sprint("·")
}

func orNone(s string) string {
	if s == "" {
		return color.New(color.Faint, color.Italic).Sprint("none")
	}
	return s
}
