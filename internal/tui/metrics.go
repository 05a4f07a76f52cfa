package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/kroncalc/internal/format"
)

// speedSmoothing weights the newest sample of the exponential moving
// average of the progress rate.
const speedSmoothing = 0.3

// MetricsModel shows runtime memory stats and the progress of each backend.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int

	backends []string
	progress []float64

	// speed is the overall progress per second.
	speed        float64
	lastProgress float64
	lastUpdate   time.Time

	width  int
	height int
}

// NewMetricsModel creates the panel for the named backends.
func NewMetricsModel(backends []string) MetricsModel {
	return MetricsModel{
		backends:   backends,
		progress:   make([]float64, len(backends)),
		lastUpdate: time.Now(),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width, m.height = w, h
}

// UpdateMemStats stores a runtime sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateProgress records a backend update and refreshes the rate from the
// overall progress.
func (m *MetricsModel) UpdateProgress(msg ProgressMsg) {
	if msg.TaskIndex >= 0 && msg.TaskIndex < len(m.progress) {
		m.progress[msg.TaskIndex] = msg.Value
	}
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt < 0.05 {
		return
	}
	if dp := msg.AverageProgress - m.lastProgress; dp > 0 {
		rate := dp / dt
		if m.speed > 0 {
			rate = (1-speedSmoothing)*m.speed + speedSmoothing*rate
		}
		m.speed = rate
	}
	m.lastProgress = msg.AverageProgress
	m.lastUpdate = now
}

// MarkComplete fills every backend bar.
func (m *MetricsModel) MarkComplete() {
	for i := range m.progress {
		m.progress[i] = 1
	}
}

// View renders the panel.
func (m MetricsModel) View() string {
	var rows strings.Builder
	pipe := metricLabelStyle.Render(" | ")
	fmt.Fprintf(&rows, " %s %s%s%s %s%s%s %s",
		metricLabelStyle.Render("Heap:"), metricValueStyle.Render(format.FormatBytes(m.alloc)+" / "+format.FormatBytes(m.heapSys)),
		pipe,
		metricLabelStyle.Render("GC:"), metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6)),
		pipe,
		metricLabelStyle.Render("Goroutines:"), metricValueStyle.Render(fmt.Sprint(m.numGoroutine)))

	rate := "-"
	if m.speed > 0 {
		rate = fmt.Sprintf("%.1f%%/s", m.speed*100)
	}
	fmt.Fprintf(&rows, "\n %s %s", metricLabelStyle.Render("Rate:"), metricValueStyle.Render(rate))

	barWidth := max(m.width-30, 5)
	for i, name := range m.backends {
		fmt.Fprintf(&rows, "\n %s %s %s",
			formatMetricCol(name, 12),
			accentStyle.Render(format.ProgressBar(m.progress[i], barWidth)),
			metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.progress[i]*100)))
	}

	return panelStyle.Width(max(m.width-2, 0)).Height(max(m.height-2, 0)).Render(rows.String())
}

// formatMetricCol pads a label to width visible cells.
func formatMetricCol(label string, width int) string {
	cell := metricLabelStyle.Render(label)
	if pad := width - lipgloss.Width(cell); pad > 0 {
		cell += strings.Repeat(" ", pad)
	}
	return cell
}
