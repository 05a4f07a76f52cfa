package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/kroncalc/internal/format"
)

// HeaderModel renders the top bar: title, version, backends and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	backends  int
	width     int
}

// NewHeaderModel creates a header for a run over the given number of backends.
func NewHeaderModel(version string, backends int) HeaderModel {
	return HeaderModel{startTime: time.Now(), version: version, backends: backends}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() { h.endTime = time.Now() }

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Elapsed returns the running or frozen elapsed time.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	title := "Kroncalc Monitor"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	row := titleStyle.Render(title) + pipe +
		accentStyle.Render(fmt.Sprintf("%d backend(s)", h.backends)) + pipe +
		accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Width(h.width).Render(row)
}

// FooterModel renders the status and the key help.
type FooterModel struct {
	help   help.Model
	keys   KeyMap
	paused bool
	done   bool
	err    bool
	width  int
}

// NewFooterModel creates a footer showing the help of keys.
func NewFooterModel(keys KeyMap) FooterModel {
	return FooterModel{help: help.New(), keys: keys}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// SetPaused sets the paused flag.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone sets the done flag.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// SetError sets the error flag.
func (f *FooterModel) SetError(e bool) { f.err = e }

// ToggleHelp switches between the short and the full key help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// Status returns the status label.
func (f FooterModel) Status() string {
	switch {
	case f.err:
		return statusErrorStyle.Render("FAILED")
	case f.done:
		return statusDoneStyle.Render("DONE")
	case f.paused:
		return statusPausedStyle.Render("PAUSED")
	}
	return statusRunningStyle.Render("RUNNING")
}

// View renders the footer.
func (f FooterModel) View() string {
	return " " + f.Status() + dimStyle.Render("  ") + f.help.View(f.keys)
}
