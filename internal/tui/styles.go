package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/kroncalc/internal/ui"
)

// Dashboard styles, rebuilt from the ui theme by initTUIStyles.
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	accentStyle        lipgloss.Style
	logBackendStyle    lipgloss.Style
	logSuccessStyle    lipgloss.Style
	logErrorStyle      lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	memSparklineStyle  lipgloss.Style
	progressColor      string
)

func init() {
	initTUIStyles()
}

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after the theme has been initialized from the flags.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1)
	titleStyle = fg(t.Accent).Bold(true)
	dimStyle = fg(t.Dim)
	accentStyle = fg(t.Accent)
	logBackendStyle = fg(t.Info)
	logSuccessStyle = fg(t.Positive)
	logErrorStyle = fg(t.Negative)
	metricLabelStyle = fg(t.Dim)
	metricValueStyle = fg(t.Accent).Bold(true)
	statusRunningStyle = fg(t.Success).Bold(true)
	statusPausedStyle = fg(t.Warning).Bold(true)
	statusDoneStyle = fg(t.Accent).Bold(true)
	statusErrorStyle = fg(t.Error).Bold(true)
	cpuSparklineStyle = fg(t.Accent)
	memSparklineStyle = fg(t.Zero)

	progressColor = ""
	if c, ok := t.Accent.(lipgloss.Color); ok {
		progressColor = string(c)
	}
}
