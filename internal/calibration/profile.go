package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

const (
	// CurrentProfileVersion is bumped whenever the profile layout changes.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is stored in the user's home directory.
	DefaultProfileFileName = ".kroncalc_calibration.json"
	// DefaultMaxProfileAge is how long a cached profile is trusted.
	DefaultMaxProfileAge = 30 * 24 * time.Hour
)

// CalibrationProfile records the outcome of a calibration run together with
// the hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	NumCPU         int       `json:"num_cpu"`
	GOARCH         string    `json:"goarch"`
	GOOS           string    `json:"goos"`
	GoVersion      string    `json:"go_version"`
	WordSize       int       `json:"word_size"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	// OptimalBackend is the backend name with the lowest mean Kronecker time.
	OptimalBackend string `json:"optimal_backend"`
	// BackendTimings maps backend names to their mean ns per symbol.
	BackendTimings map[string]float64 `json:"backend_timings_ns,omitempty"`
	// CalibrationBits is the largest operand length sampled.
	CalibrationBits int    `json:"calibration_bits"`
	CalibrationTime string `json:"calibration_time"`
}

// NewProfile returns an empty profile describing the current machine.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CalibratedAt:   time.Now(),
		BackendTimings: map[string]float64{},
	}
}

// IsValid reports whether the profile was measured on hardware matching
// the current process.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	current := NewProfile()
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == current.NumCPU &&
		p.GOARCH == current.GOARCH &&
		p.WordSize == current.WordSize &&
		p.GoVersion == current.GoVersion
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String renders a short human-readable summary.
func (p *CalibrationProfile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Calibration profile v%d (%s/%s, %d CPUs, %d-bit words, %s)\n",
		p.ProfileVersion, p.GOOS, p.GOARCH, p.NumCPU, p.WordSize, p.GoVersion)
	fmt.Fprintf(&b, "  calibrated at %s in %s, up to %d bits\n",
		p.CalibratedAt.Format(time.RFC3339), p.CalibrationTime, p.CalibrationBits)
	fmt.Fprintf(&b, "  optimal backend: %s\n", p.OptimalBackend)

	names := make([]string, 0, len(p.BackendTimings))
	for name := range p.BackendTimings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-10s %.1f ns/symbol\n", name, p.BackendTimings[name])
	}
	return b.String()
}

// SaveProfile writes the profile as indented JSON, creating parent
// directories as needed.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a fresh one.
// The boolean reports whether the file was loaded.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	if p, err := loadProfile(path); err == nil {
		return p, true
	}
	return NewProfile(), false
}

// GetDefaultProfilePath returns the profile location in the home directory,
// falling back to the working directory.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

func profilePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}
