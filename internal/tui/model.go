// Package tui runs the verification inside a bubbletea dashboard: an event
// log on the left, runtime metrics with per-backend progress and host
// sparklines on the right.
package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/agbru/kroncalc/internal/config"
	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/oracle"
	"github.com/agbru/kroncalc/internal/orchestration"
	"github.com/agbru/kroncalc/internal/sysmon"
	"github.com/agbru/kroncalc/internal/verify"
)

// Layout constants.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 6
	LogsPanelWidthPercent = 55
	chartPanelHeight      = 6
	tickInterval          = 500 * time.Millisecond
)

// Session is what a dashboard run verifies.
type Session struct {
	Backends []*kernel.Backend
	Cases    []verify.Case
	Oracle   oracle.Oracle
	Config   config.AppConfig
	Version  string
	Logger   zerolog.Logger
}

// executionState holds the fields of the current run.
type executionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// layout holds the terminal dimensions.
type layout struct {
	width  int
	height int
}

func (l layout) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l layout) logsWidth() int { return l.width * LogsPanelWidthPercent / 100 }

func (l layout) rightWidth() int { return l.width - l.logsWidth() }

func (l layout) chartHeight() int { return min(chartPanelHeight, l.bodyHeight()/2) }

func (l layout) metricsHeight() int { return l.bodyHeight() - l.chartHeight() }

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel
	keymap  KeyMap

	executionState
	layout

	parentCtx context.Context
	session   Session
	ref       *programRef
	paused    bool
}

func backendNames(bs []*kernel.Backend) []string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name()
	}
	return names
}

// NewModel creates the dashboard model for s.
func NewModel(parentCtx context.Context, s Session) Model {
	names := backendNames(s.Backends)
	ctx, cancel := context.WithCancel(parentCtx)

	logs := NewLogsModel(names)
	logs.AddExecutionConfig(s.Config, len(s.Cases))
	keys := DefaultKeyMap()

	return Model{
		header:  NewHeaderModel(s.Version, len(s.Backends)),
		logs:    logs,
		metrics: NewMetricsModel(names),
		chart:   NewChartModel(),
		footer:  NewFooterModel(keys),
		keymap:  keys,
		executionState: executionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		session:   s,
		ref:       &programRef{},
	}
}

// ExitCode returns the exit code of the last finished run.
func (m Model) ExitCode() int { return m.exitCode }

// Init starts the run, the sampling ticker and the context watcher.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startVerificationCmd(m.ref, m.ctx, m.session, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if !m.paused {
			m.logs.AddProgressEntry(msg)
			m.metrics.UpdateProgress(msg)
			m.chart.AddDataPoint(msg.AverageProgress, msg.ETA)
		}
		return m, nil

	case ProgressDoneMsg:
		m.metrics.MarkComplete()
		return m, nil

	case ComparisonResultsMsg:
		m.logs.AddResults(msg.Results)
		return m, nil

	case ReportsMsg:
		m.logs.AddReports(msg.Result)
		return m, nil

	case ErrorMsg:
		m.logs.AddError(msg)
		m.footer.SetError(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case VerificationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.chart.SetDone(m.header.Elapsed())
		m.footer.SetDone(true)
		if msg.ExitCode != apperrors.ExitSuccess {
			m.footer.SetError(true)
		}
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.cancel()
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)

		names := backendNames(m.session.Backends)
		m.header.Reset()
		m.logs.Reset()
		m.logs.AddExecutionConfig(m.session.Config, len(m.session.Cases))
		m.chart.Reset()
		m.metrics = NewMetricsModel(names)
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess
		m.layoutPanels()
		return m, m.startCmds()

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.logs.Update(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.logs.SetSize(m.logsWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.logs.renderToHeight(lipgloss.Height(right)), right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// Run shows the dashboard until the user quits and returns the exit code
// of the last run.
func Run(ctx context.Context, s Session) int {
	initTUIStyles()

	model := NewModel(ctx, s)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		if apperrors.IsContextError(err) || apperrors.IsContextError(ctx.Err()) {
			return apperrors.ExitCodeFor(ctx.Err())
		}
		s.Logger.Error().Err(err).Msg("dashboard failed")
		return apperrors.ExitErrorGeneric
	}
	if fm, ok := finalModel.(Model); ok {
		fm.cancel()
		return fm.exitCode
	}
	return apperrors.ExitSuccess
}

// startVerificationCmd runs the verification and its analysis.
func startVerificationCmd(ref *programRef, ctx context.Context, s Session, gen uint64) tea.Cmd {
	return func() tea.Msg {
		presenter := &TUIResultPresenter{ref: ref}
		results := orchestration.ExecuteVerifications(ctx, s.Backends, s.Cases, orchestration.RunOptions{
			Oracle:   s.Oracle,
			Checks:   s.Config.CheckList(),
			FailFast: s.Config.FailFast,
			Workers:  s.Config.Workers,
			Logger:   s.Logger,
		}, &TUIProgressReporter{ref: ref}, io.Discard)
		code := orchestration.AnalyzeVerificationResults(results, orchestration.PresentationOptions{
			Verbose:    s.Config.Verbose,
			Details:    s.Config.Details,
			CorpusSize: len(s.Cases),
		}, presenter, presenter, io.Discard)
		return VerificationCompleteMsg{ExitCode: code, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
