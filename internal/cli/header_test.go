package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/kroncalc/internal/config"
	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/sysmon"
)

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := config.AppConfig{
		Oracle:  "big",
		Seed:    7,
		Lengths: 10,
		Step:    100,
		Offset:  100,
		Timeout: time.Minute,
		Checks:  "oracle-sub, round-trip",
	}

	PrintExecutionConfig(cfg, 123, &buf)

	output := buf.String()
	for _, want := range []string{"big", "123", "seed 7", "oracle-sub, round-trip"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q:\n%s", want, output)
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	t.Parallel()

	t.Run("Single backend", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		PrintExecutionMode([]*kernel.Backend{kernel.Reference()}, &buf)
		if !strings.Contains(buf.String(), "Single verification") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("Several backends", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		PrintExecutionMode(kernel.Builtins(), &buf)
		if !strings.Contains(buf.String(), "Parallel verification") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
}

func TestPrintHostHeader(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintHostHeader(sysmon.Host{LogicalCPUs: 4, TotalMemory: 1 << 30, GOOS: "linux", GOARCH: "amd64"}, &buf)
	out := buf.String()
	if !strings.Contains(out, "unknown CPU") || !strings.Contains(out, "1.0 GiB") {
		t.Errorf("unexpected header: %s", out)
	}
}
