package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/kroncalc/internal/config"
	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/orchestration"
	"github.com/agbru/kroncalc/internal/progress"
	"github.com/agbru/kroncalc/internal/verify"
)

func testSession() Session {
	return Session{
		Backends: kernel.Builtins(),
		Cases:    verify.NewCorpus(verify.CorpusConfig{Seed: 1, Lengths: 2, Step: 64, Offset: 64}),
		Config:   config.AppConfig{Oracle: "big", Lengths: 2, Offset: 64},
		Version:  "v1.2.3",
	}
}

func sizedModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), testSession())
	t.Cleanup(m.cancel)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model)
}

func TestModelViewBeforeSize(t *testing.T) {
	m := NewModel(context.Background(), testSession())
	defer m.cancel()
	assert.Equal(t, "Initializing...", m.View())
}

func TestModelView(t *testing.T) {
	m := sizedModel(t)
	view := m.View()
	for _, want := range []string{"Kroncalc Monitor v1.2.3", "backend(s)", "Events", "Progress", "RUNNING", "reference"} {
		assert.Contains(t, view, want)
	}
}

func TestModelProgressAndCompletion(t *testing.T) {
	m := sizedModel(t)
	next, _ := m.Update(ProgressMsg{TaskIndex: 0, Value: 0.5, AverageProgress: 0.25, ETA: time.Second})
	m = next.(Model)
	assert.Equal(t, 0.5, m.metrics.progress[0])
	assert.Equal(t, 0.25, m.chart.averageProgress)

	next, _ = m.Update(VerificationCompleteMsg{ExitCode: apperrors.ExitErrorMismatch, Generation: m.generation + 1})
	m = next.(Model)
	assert.False(t, m.done, "stale completion must be ignored")

	next, _ = m.Update(VerificationCompleteMsg{ExitCode: apperrors.ExitErrorMismatch, Generation: m.generation})
	m = next.(Model)
	assert.True(t, m.done)
	assert.Equal(t, apperrors.ExitErrorMismatch, m.ExitCode())
	assert.Contains(t, m.View(), "FAILED")
}

func TestModelPauseIgnoresProgress(t *testing.T) {
	m := sizedModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = next.(Model)
	assert.True(t, m.paused)
	assert.Contains(t, m.View(), "PAUSED")

	next, _ = m.Update(ProgressMsg{TaskIndex: 0, Value: 0.9, AverageProgress: 0.9})
	m = next.(Model)
	assert.Zero(t, m.metrics.progress[0])
}

func TestModelQuitCancels(t *testing.T) {
	m := sizedModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.ErrorIs(t, m.ctx.Err(), context.Canceled)
	assert.Equal(t, apperrors.ExitErrorCanceled, m.ExitCode())
}

func TestModelReset(t *testing.T) {
	m := sizedModel(t)
	oldCtx := m.ctx
	next, _ := m.Update(VerificationCompleteMsg{Generation: m.generation})
	m = next.(Model)
	require.True(t, m.done)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	defer m.cancel()
	assert.NotNil(t, cmd)
	assert.Equal(t, uint64(1), m.generation)
	assert.False(t, m.done)
	assert.Error(t, oldCtx.Err())
	assert.NoError(t, m.ctx.Err())
}

func TestModelContextCancelled(t *testing.T) {
	m := sizedModel(t)
	next, cmd := m.Update(ContextCancelledMsg{Err: context.Canceled, Generation: m.generation})
	m = next.(Model)
	assert.True(t, m.done)
	assert.Equal(t, apperrors.ExitErrorCanceled, m.ExitCode())
	require.NotNil(t, cmd)
}

func TestStartVerificationCmd(t *testing.T) {
	s := testSession()
	s.Config.Checks = verify.CheckOracleKronecker
	msg := startVerificationCmd(&programRef{}, context.Background(), s, 7)()
	done, ok := msg.(VerificationCompleteMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(7), done.Generation)
	assert.Equal(t, apperrors.ExitSuccess, done.ExitCode)
}

func TestTUIProgressReporterDrains(t *testing.T) {
	reporter := &TUIProgressReporter{ref: &programRef{}}
	for _, tasks := range []int{0, 2} {
		ch := make(chan progress.ProgressUpdate, 4)
		ch <- progress.ProgressUpdate{TaskIndex: 0, Value: 0.5}
		ch <- progress.ProgressUpdate{TaskIndex: 1, Value: 1}
		close(ch)
		var wg sync.WaitGroup
		wg.Add(1)
		go reporter.DisplayProgress(&wg, ch, tasks, nil)
		wg.Wait()
		assert.Empty(t, ch)
	}
}

func TestTUIResultPresenterHandleError(t *testing.T) {
	p := &TUIResultPresenter{ref: &programRef{}}
	assert.Equal(t, apperrors.ExitErrorTimeout, p.HandleError(context.DeadlineExceeded, time.Second, nil))
	assert.Equal(t, apperrors.ExitErrorCanceled, p.HandleError(context.Canceled, 0, nil))
	assert.Equal(t, apperrors.ExitErrorGeneric, p.HandleError(errors.New("boom"), 0, nil))
	assert.Equal(t, apperrors.ExitSuccess, p.HandleError(nil, 0, nil))
	// No program: sends are dropped.
	p.PresentComparisonTable(nil, nil)
	p.PresentReports(orchestration.VerificationResult{}, orchestration.PresentationOptions{}, nil)
}

func TestLogsModel(t *testing.T) {
	l := NewLogsModel([]string{"reference", "unrolled"})
	l.SetSize(80, 20)
	l.AddExecutionConfig(config.AppConfig{Oracle: "big", Seed: 3}, 42)
	base := l.Entries()
	assert.Equal(t, 3, base)

	l.AddProgressEntry(ProgressMsg{TaskIndex: 0, Value: 0.1})
	assert.Equal(t, base, l.Entries(), "below the first milestone")
	l.AddProgressEntry(ProgressMsg{TaskIndex: 0, Value: 0.3})
	l.AddProgressEntry(ProgressMsg{TaskIndex: 0, Value: 1})
	l.AddProgressEntry(ProgressMsg{TaskIndex: 0, Value: 1})
	l.AddProgressEntry(ProgressMsg{TaskIndex: 5, Value: 1})
	assert.Equal(t, base+2, l.Entries())

	l.AddResults([]orchestration.VerificationResult{
		{Backend: "reference", Reports: []verify.Report{{Check: "x", Cases: 4}}},
		{Backend: "unrolled", Err: context.Canceled},
	})
	l.AddReports(orchestration.VerificationResult{Backend: "unrolled", Reports: []verify.Report{
		{Check: "ok", Cases: 1}, {Check: "bad", Cases: 1, Failures: 1, First: errors.New("mismatch")},
	}})
	l.AddError(ErrorMsg{Err: errors.New("boom")})
	assert.Equal(t, base+6, l.Entries())

	view := l.renderToHeight(20)
	assert.Contains(t, view, "Events")

	l.Reset()
	assert.Zero(t, l.Entries())
}

func TestMetricsModel(t *testing.T) {
	m := NewMetricsModel([]string{"reference"})
	m.SetSize(100, 8)
	m.UpdateMemStats(MemStatsMsg{Alloc: 2 << 20, HeapSys: 8 << 20, NumGC: 3, PauseTotalNs: 1_500_000, NumGoroutine: 9})

	m.lastUpdate = time.Now().Add(-time.Second)
	m.UpdateProgress(ProgressMsg{TaskIndex: 0, Value: 0.5, AverageProgress: 0.5})
	assert.InDelta(t, 0.5, m.speed, 0.1)

	view := m.View()
	for _, want := range []string{"2.0 MiB / 8.0 MiB", "3 (1.5ms)", "Goroutines:", "reference", "50.0%"} {
		assert.Contains(t, view, want)
	}
	m.MarkComplete()
	assert.Equal(t, 1.0, m.progress[0])
}

func TestChartModel(t *testing.T) {
	c := NewChartModel()
	c.SetSize(60, 6)
	c.AddDataPoint(0.4, 30*time.Second)
	c.UpdateSysStats(20, 50)
	view := c.View()
	assert.Contains(t, view, "ETA:")
	assert.Contains(t, view, "CPU")
	assert.Contains(t, view, "40.0%")

	c.SetDone(2 * time.Second)
	assert.Contains(t, c.View(), "Total: 2s")

	c.Reset()
	assert.Zero(t, c.averageProgress)
	assert.Zero(t, c.cpuHistory.Len())

	c.SetSize(60, 4)
	assert.NotContains(t, c.View(), "CPU")
}

func TestRingBuffer(t *testing.T) {
	r := NewRingBuffer(0)
	assert.Equal(t, 1, r.Cap())
	assert.Zero(t, r.Last())
	assert.Nil(t, r.Slice())

	r = NewRingBuffer(3)
	for i := 1; i <= 5; i++ {
		r.Push(float64(i))
	}
	assert.Equal(t, []float64{3, 4, 5}, r.Slice())
	assert.Equal(t, 5.0, r.Last())

	r.Resize(5)
	r.Push(6)
	assert.Equal(t, []float64{3, 4, 5, 6}, r.Slice())
	r.Resize(2)
	assert.Equal(t, []float64{5, 6}, r.Slice())
	r.Reset()
	assert.Zero(t, r.Len())
}

func TestRenderSparkline(t *testing.T) {
	assert.Empty(t, RenderSparkline(nil))
	assert.Equal(t, "▁█▁█", RenderSparkline([]float64{0, 100, -5, 150}))
	assert.Equal(t, 3, len([]rune(RenderSparkline([]float64{10, 50, 90}))))
}

func TestKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	assert.Contains(t, km.Quit.Keys(), "q")
	assert.Contains(t, km.Quit.Keys(), "ctrl+c")
	for _, group := range km.FullHelp() {
		for _, b := range group {
			assert.True(t, b.Enabled())
			assert.NotEmpty(t, b.Keys())
		}
	}
	assert.Len(t, km.ShortHelp(), 4)
}

func TestFooterHelpToggle(t *testing.T) {
	f := NewFooterModel(DefaultKeyMap())
	f.SetWidth(200)
	short := f.View()
	f.ToggleHelp()
	assert.NotEqual(t, short, f.View())
	assert.True(t, strings.Contains(short, "quit"))
}
