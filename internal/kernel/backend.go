package kernel

import (
	"fmt"
	"strconv"
	"strings"
)

// Word is a single 64-bit digit of a multi-precision magnitude.
type Word = uint64

// WordBits is the width of a Word in bits.
const WordBits = 64

// NTZFunc returns the number of trailing zero bits of a non-zero word.
// The result for a zero word is unspecified.
type NTZFunc func(w Word) uint

// ShrFunc shifts the len(x) words of x right by s bits (0 <= s < WordBits)
// into z, which must hold at least len(x) words and may alias x. It reports
// whether the most significant word of the result is zero.
type ShrFunc func(z, x []Word, s uint) (lastIsZero bool)

// SubFunc computes z = x - y for len(x) >= len(y) and x >= y. The borrow is
// propagated through the words of x above len(y) and never leaves the top
// word. z must hold at least len(x) words and may alias x or y. It reports
// whether the most significant word of the result is zero.
type SubFunc func(z, x, y []Word) (lastIsZero bool)

// Version identifies a backend implementation.
type Version int

// Known backend versions.
const (
	// VersionAuto selects the most specialized backend supported by the CPU.
	VersionAuto Version = -1
	// VersionReference is the portable scalar implementation. It is always
	// registered and serves as the equivalence baseline.
	VersionReference Version = 0
	// VersionUnrolled uses 4-way unrolled loops and a popcount NTZ.
	VersionUnrolled Version = 1
	// VersionMathBig routes subtraction through the assembly vector
	// routines of math/big. Only available on 64-bit targets.
	VersionMathBig Version = 2
)

var versionNames = map[Version]string{
	VersionAuto:      "auto",
	VersionReference: "reference",
	VersionUnrolled:  "unrolled",
	VersionMathBig:   "mathbig",
}

var versionAliases = map[string]Version{
	"auto":      VersionAuto,
	"default":   VersionAuto,
	"reference": VersionReference,
	"ref":       VersionReference,
	"portable":  VersionReference,
	"unrolled":  VersionUnrolled,
	"mathbig":   VersionMathBig,
	"asm":       VersionMathBig,
}

// String returns the canonical name of the version.
func (v Version) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return "v" + strconv.Itoa(int(v))
}

// ParseVersion converts a backend name or number into a Version.
// Accepted forms are the canonical names ("auto", "reference", "unrolled",
// "mathbig"), a few aliases, and the decimal version numbers.
func ParseVersion(s string) (Version, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if v, ok := versionAliases[key]; ok {
		return v, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= int(VersionAuto) {
		return Version(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// BackendSpec describes a backend before construction.
type BackendSpec struct {
	Version  Version
	Name     string
	Priority int
	NTZ      NTZFunc
	Shr      ShrFunc
	Sub      SubFunc
	// Supported reports whether the backend is a sensible choice on a CPU
	// with the given features. Nil means always supported.
	Supported func(CPUFeatures) bool
}

// Backend is an immutable set of the three kernels. A Backend is safe for
// concurrent use once constructed.
type Backend struct {
	version   Version
	name      string
	priority  int
	ntz       NTZFunc
	shr       ShrFunc
	sub       SubFunc
	supported func(CPUFeatures) bool
}

// NewBackend validates spec and builds a Backend from it.
func NewBackend(spec BackendSpec) (*Backend, error) {
	switch {
	case spec.Version < VersionReference:
		return nil, fmt.Errorf("kernel: invalid backend version %d", spec.Version)
	case spec.Name == "":
		return nil, fmt.Errorf("kernel: backend version %d has no name", spec.Version)
	case spec.NTZ == nil || spec.Shr == nil || spec.Sub == nil:
		return nil, fmt.Errorf("kernel: backend %q is missing a kernel", spec.Name)
	}
	return &Backend{
		version:   spec.Version,
		name:      spec.Name,
		priority:  spec.Priority,
		ntz:       spec.NTZ,
		shr:       spec.Shr,
		sub:       spec.Sub,
		supported: spec.Supported,
	}, nil
}

func mustBackend(spec BackendSpec) *Backend {
	b, err := NewBackend(spec)
	if err != nil {
		panic(err)
	}
	return b
}

// Version returns the backend version.
func (b *Backend) Version() Version { return b.version }

// Name returns the backend name.
func (b *Backend) Name() string { return b.name }

// Priority orders backends for automatic selection; higher wins.
func (b *Backend) Priority() int { return b.priority }

// Supported reports whether the backend suits a CPU with features f.
func (b *Backend) Supported(f CPUFeatures) bool {
	return b.supported == nil || b.supported(f)
}

// NTZ counts the trailing zeros of a non-zero word.
func (b *Backend) NTZ(w Word) uint { return b.ntz(w) }

// Shr runs the shift kernel. See ShrFunc.
func (b *Backend) Shr(z, x []Word, s uint) bool { return b.shr(z, x, s) }

// Sub runs the subtraction kernel. See SubFunc.
func (b *Backend) Sub(z, x, y []Word) bool { return b.sub(z, x, y) }

// String implements fmt.Stringer.
func (b *Backend) String() string {
	return fmt.Sprintf("%s (v%d)", b.name, int(b.version))
}
