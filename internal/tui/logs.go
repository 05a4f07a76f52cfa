package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/kroncalc/internal/config"
	"github.com/agbru/kroncalc/internal/format"
	"github.com/agbru/kroncalc/internal/orchestration"
)

// progressLogStep is the progress increment between two logged entries of
// the same backend.
const progressLogStep = 0.25

// LogsModel is the scrollable event log of the run.
type LogsModel struct {
	viewport viewport.Model
	entries  []string
	backends []string
	// logged is the last progress milestone logged per backend.
	logged []float64
	width  int
	height int
}

// NewLogsModel creates a log for the named backends.
func NewLogsModel(backends []string) LogsModel {
	return LogsModel{
		viewport: viewport.New(0, 0),
		backends: backends,
		logged:   make([]float64, len(backends)),
	}
}

// SetSize updates the panel dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width, l.height = w, h
	l.viewport.Width = max(w-4, 0)
	l.viewport.Height = max(h-3, 0)
	l.refresh()
}

func (l *LogsModel) add(line string) {
	stamp := dimStyle.Render(time.Now().Format("15:04:05"))
	l.entries = append(l.entries, stamp+" "+line)
	l.refresh()
}

// refresh re-renders the content, following the tail unless the user
// scrolled up.
func (l *LogsModel) refresh() {
	follow := l.viewport.AtBottom()
	l.viewport.SetContent(strings.Join(l.entries, "\n"))
	if follow {
		l.viewport.GotoBottom()
	}
}

// Entries returns the number of log lines.
func (l LogsModel) Entries() int { return len(l.entries) }

// AddExecutionConfig logs the run parameters.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig, cases int) {
	l.add(fmt.Sprintf("Verifying %s against %s", logBackendStyle.Render(strings.Join(l.backends, ", ")), accentStyle.Render(cfg.Oracle)))
	l.add(fmt.Sprintf("Corpus: %d operand pairs, seed %d, %d lengths from %d bits", cases, cfg.Seed, cfg.Lengths, cfg.Offset))
	checks := cfg.Checks
	if checks == "" {
		checks = "all"
	}
	l.add("Checks: " + checks)
}

// AddProgressEntry logs a backend crossing a progress milestone.
func (l *LogsModel) AddProgressEntry(msg ProgressMsg) {
	if msg.TaskIndex < 0 || msg.TaskIndex >= len(l.backends) {
		return
	}
	if msg.Value-l.logged[msg.TaskIndex] < progressLogStep && msg.Value < 1 {
		return
	}
	if msg.Value <= l.logged[msg.TaskIndex] {
		return
	}
	l.logged[msg.TaskIndex] = msg.Value
	l.add(fmt.Sprintf("%s %s", logBackendStyle.Render(fmt.Sprintf("%-10s", l.backends[msg.TaskIndex])),
		accentStyle.Render(fmt.Sprintf("%5.1f%%", msg.Value*100))))
}

// AddResults logs the outcome of every backend.
func (l *LogsModel) AddResults(results []orchestration.VerificationResult) {
	for _, r := range results {
		name := logBackendStyle.Render(fmt.Sprintf("%-10s", r.Backend))
		d := format.FormatExecutionDuration(r.Duration)
		switch {
		case r.Err != nil:
			l.add(fmt.Sprintf("%s %s", name, logErrorStyle.Render("incomplete: "+r.Err.Error())))
		case r.Failures() > 0:
			l.add(fmt.Sprintf("%s %s in %s", name, logErrorStyle.Render(fmt.Sprintf("%d mismatches over %d cases", r.Failures(), r.Cases())), d))
		default:
			l.add(fmt.Sprintf("%s %s in %s", name, logSuccessStyle.Render(fmt.Sprintf("agrees on %d cases", r.Cases())), d))
		}
	}
}

// AddReports logs the failing checks of one backend.
func (l *LogsModel) AddReports(r orchestration.VerificationResult) {
	for _, rep := range r.Reports {
		if rep.Passed() {
			continue
		}
		l.add(fmt.Sprintf("%s %s: %v", logBackendStyle.Render(r.Backend), logErrorStyle.Render(rep.Check), rep.First))
	}
}

// AddError logs an error.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.add(logErrorStyle.Render("Error: " + msg.Err.Error()))
}

// Reset clears the log, keeping the backends.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.logged = make([]float64, len(l.backends))
	l.refresh()
}

// Update forwards scroll keys to the viewport.
func (l *LogsModel) Update(msg tea.Msg) {
	l.viewport, _ = l.viewport.Update(msg)
}

// renderToHeight renders the panel with the given outer height.
func (l LogsModel) renderToHeight(h int) string {
	l.viewport.Height = max(h-3, 0)
	body := titleStyle.Render("Events") + "\n" + l.viewport.View()
	return panelStyle.Width(max(l.width-2, 0)).Height(max(h-2, 0)).Render(body)
}
