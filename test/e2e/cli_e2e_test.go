package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// buildBinary compiles cmd/kroncalc into a temporary directory. go test
// runs with the package directory as working directory, so the build runs
// from the module root two levels up.
func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}
	binName := "kroncalc"
	if runtime.GOOS == "windows" {
		binName = "kroncalc.exe"
	}
	binPath := filepath.Join(t.TempDir(), binName)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/kroncalc")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build kroncalc: %v", err)
	}
	return binPath
}

// TestCLI_E2E verifies the built binary functions correctly
func TestCLI_E2E(t *testing.T) {
	binPath := buildBinary(t)
	profile := filepath.Join(t.TempDir(), "profile.json")

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Symbol",
			args:     []string{"5", "7"},
			wantOut:  "(0x5 | 0x7) = -1",
			wantCode: 0,
		},
		{
			name:     "Quiet Symbol",
			args:     []string{"-q", "-x", "-0x5", "-y", "0x3"},
			wantOut:  "1",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Verify All Backends",
			args:     []string{"--backend", "all", "--lengths", "3", "--step", "64", "--offset", "32"},
			wantOut:  "Global Status: Success",
			wantCode: 0,
		},
		{
			name:     "Prime",
			args:     []string{"-q", "--prime", "0x7fffffff"},
			wantOut:  "probably prime",
			wantCode: 0,
		},
		{
			name:     "Bench JSON",
			args:     []string{"-q", "--bench", "--format", "json", "--lengths", "1", "--loops", "1"},
			wantOut:  `"op": "kronecker"`,
			wantCode: 0,
		},
		{
			name:     "Very Short Timeout",
			args:     []string{"--lengths", "100", "--timeout", "1ns"},
			wantOut:  "",
			wantCode: 2,
		},
		{
			name:     "Unknown Backend",
			args:     []string{"--backend", "nope", "5", "7"},
			wantOut:  "unknown backend",
			wantCode: 4,
		},
		{
			name:     "Missing Operand",
			args:     []string{"-x", "5"},
			wantOut:  "both -x and -y",
			wantCode: 4,
		},
		{
			name:     "Completion",
			args:     []string{"--completion", "fish"},
			wantOut:  "complete -c kroncalc",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "kroncalc",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--calibration-profile", profile}, tt.args...)
			cmd := exec.Command(binPath, args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("Command failed to run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("Exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" {
				if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
					t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
				}
			}
		})
	}
}
