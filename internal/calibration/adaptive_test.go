package calibration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/kroncalc/internal/bench"
	"github.com/agbru/kroncalc/internal/config"
	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kernel"
)

var tinyBench = bench.Config{Seed: 1, Lengths: 2, Step: 64, Offset: 64, Loops: 2}

func TestBenchConfigs(t *testing.T) {
	t.Parallel()
	full, quick := FullBenchConfig(), QuickBenchConfig()
	if full.Lengths <= quick.Lengths {
		t.Errorf("full calibration should sample more lengths: %d <= %d", full.Lengths, quick.Lengths)
	}
	if full.Loops <= 0 || quick.Loops <= 0 {
		t.Errorf("loops must be positive: full=%d quick=%d", full.Loops, quick.Loops)
	}
}

func TestEstimateOptimalBackend(t *testing.T) {
	t.Parallel()
	name := EstimateOptimalBackend()
	if _, err := kernel.ParseVersion(name); err != nil {
		t.Errorf("EstimateOptimalBackend() = %q, not a backend name: %v", name, err)
	}
}

func TestCalibratePicksRegisteredBackend(t *testing.T) {
	t.Parallel()
	backends := kernel.Default().List()
	var last float64
	results, best := calibrate(context.Background(), backends, tinyBench, func(v float64) { last = v })

	if len(results) != len(backends) {
		t.Fatalf("got %d results, want %d", len(results), len(backends))
	}
	found := false
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("backend %s failed: %v", r.Backend, r.Err)
		}
		if r.Backend == best {
			found = true
		}
	}
	if !found {
		t.Errorf("best backend %q not among results", best)
	}
	if last != 1 {
		t.Errorf("final progress = %v, want 1", last)
	}
}

func TestCalibrateCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, best := calibrate(ctx, []*kernel.Backend{kernel.Reference()}, tinyBench, nil)
	if best != "" {
		t.Errorf("best = %q, want none", best)
	}
	if results[0].Err == nil {
		t.Error("expected the canceled run to report an error")
	}
}

func TestRunCalibrationWritesProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	var out bytes.Buffer
	code := RunCalibration(context.Background(), &out, []*kernel.Backend{kernel.Reference()}, Options{
		ProfilePath: path,
		Bench:       tinyBench,
	})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "Optimal backend: ") {
		t.Errorf("missing summary in output:\n%s", out.String())
	}
	p, err := loadProfile(path)
	if err != nil {
		t.Fatalf("profile not saved: %v", err)
	}
	if p.OptimalBackend != "reference" {
		t.Errorf("OptimalBackend = %q, want reference", p.OptimalBackend)
	}
	if p.CalibrationBits != 128 {
		t.Errorf("CalibrationBits = %d, want 128", p.CalibrationBits)
	}
}

func TestLoadCachedCalibration(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")

	p := NewProfile()
	p.OptimalBackend = "reference"
	if err := p.SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	cfg := config.AppConfig{Backend: config.DefaultBackend}
	got, ok := LoadCachedCalibration(cfg, path)
	if !ok || got.Backend != "reference" {
		t.Errorf("LoadCachedCalibration = (%q, %v), want (reference, true)", got.Backend, ok)
	}

	// An explicit backend wins over the profile.
	cfg.Backend = "unrolled"
	if got, ok := LoadCachedCalibration(cfg, path); ok || got.Backend != "unrolled" {
		t.Errorf("explicit backend overridden: (%q, %v)", got.Backend, ok)
	}

	stale := NewProfile()
	stale.OptimalBackend = "reference"
	stale.CalibratedAt = time.Now().Add(-2 * DefaultMaxProfileAge)
	stalePath := filepath.Join(dir, "stale.json")
	if err := stale.SaveProfile(stalePath); err != nil {
		t.Fatal(err)
	}
	if _, ok := LoadCachedCalibration(config.AppConfig{Backend: "auto"}, stalePath); ok {
		t.Error("stale profile should be ignored")
	}

	bogus := NewProfile()
	bogus.OptimalBackend = "warp-drive"
	bogusPath := filepath.Join(dir, "bogus.json")
	if err := bogus.SaveProfile(bogusPath); err != nil {
		t.Fatal(err)
	}
	if _, ok := LoadCachedCalibration(config.AppConfig{Backend: "auto"}, bogusPath); ok {
		t.Error("unknown backend in profile should be ignored")
	}

	if _, ok := LoadCachedCalibration(config.AppConfig{Backend: "auto"}, filepath.Join(dir, "missing.json")); ok {
		t.Error("missing profile should be ignored")
	}
}

func TestAutoCalibrate(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "auto.json")
	cfg := config.AppConfig{Backend: "auto", CalibrationProfile: path}
	var out bytes.Buffer

	got, ok := AutoCalibrate(context.Background(), cfg, &out, []*kernel.Backend{kernel.Reference()})
	if !ok || got.Backend != "reference" {
		t.Fatalf("AutoCalibrate = (%q, %v), want (reference, true)", got.Backend, ok)
	}
	if !strings.Contains(out.String(), "Auto-calibration") {
		t.Errorf("missing output: %q", out.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("profile not written: %v", err)
	}

	cfg.Backend = "unrolled"
	if _, ok := AutoCalibrate(context.Background(), cfg, &out, []*kernel.Backend{kernel.Reference()}); ok {
		t.Error("explicit backend should skip auto-calibration")
	}
}
