package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/agbru/kroncalc/internal/format"
)

// ChartModel shows the overall progress with its ETA and the CPU and memory
// sparklines of the host.
type ChartModel struct {
	bar             progress.Model
	averageProgress float64
	eta             time.Duration
	done            bool
	total           time.Duration
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	width           int
	height          int
}

// NewChartModel creates the panel.
func NewChartModel() ChartModel {
	opts := []progress.Option{progress.WithoutPercentage()}
	if progressColor != "" {
		opts = append(opts, progress.WithSolidFill(progressColor))
	}
	return ChartModel{
		bar:        progress.New(opts...),
		cpuHistory: NewRingBuffer(60),
		memHistory: NewRingBuffer(60),
	}
}

// SetSize updates dimensions and resizes the histories to the inner width.
func (c *ChartModel) SetSize(w, h int) {
	c.width, c.height = w, h
	inner := max(w-24, 1)
	c.bar.Width = inner
	c.cpuHistory.Resize(inner)
	c.memHistory.Resize(inner)
}

// AddDataPoint records the overall progress and ETA.
func (c *ChartModel) AddDataPoint(average float64, eta time.Duration) {
	c.averageProgress = average
	c.eta = eta
}

// UpdateSysStats appends a host sample.
func (c *ChartModel) UpdateSysStats(cpu, mem float64) {
	c.cpuHistory.Push(cpu)
	c.memHistory.Push(mem)
}

// SetDone freezes the panel with the total run time.
func (c *ChartModel) SetDone(total time.Duration) {
	c.done = true
	c.total = total
	c.averageProgress = 1
}

// Reset clears the progress and the histories.
func (c *ChartModel) Reset() {
	c.averageProgress = 0
	c.eta = 0
	c.done = false
	c.total = 0
	c.cpuHistory.Reset()
	c.memHistory.Reset()
}

// View renders the panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Progress"))
	status := "ETA: " + format.FormatETA(c.eta)
	if c.done {
		status = "Total: " + format.FormatExecutionDuration(c.total)
	}
	fmt.Fprintf(&b, "\n %s %s %s", c.bar.ViewAs(c.averageProgress),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", c.averageProgress*100)), dimStyle.Render(status))

	// Sparklines need a title, a bar and two rows inside the border.
	if c.height >= 6 {
		fmt.Fprintf(&b, "\n %s %s %s", metricLabelStyle.Render("CPU"),
			cpuSparklineStyle.Render(RenderSparkline(c.cpuHistory.Slice())), metricValueStyle.Render(fmt.Sprintf("%.0f%%", c.cpuHistory.Last())))
		fmt.Fprintf(&b, "\n %s %s %s", metricLabelStyle.Render("MEM"),
			memSparklineStyle.Render(RenderSparkline(c.memHistory.Slice())), metricValueStyle.Render(fmt.Sprintf("%.0f%%", c.memHistory.Last())))
	}
	return panelStyle.Width(max(c.width-2, 0)).Height(max(c.height-2, 0)).Render(b.String())
}
