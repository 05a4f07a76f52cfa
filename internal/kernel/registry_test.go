package kernel

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// subIgnoringBorrow drops the borrow between words.
func subIgnoringBorrow(z, x, y []Word) bool {
	for i := range x {
		var yi Word
		if i < len(y) {
			yi = y[i]
		}
		z[i] = x[i] - yi
	}
	return z[len(x)-1] == 0
}

// shrWithoutCarry forgets the bits shifted in from the next word.
func shrWithoutCarry(z, x []Word, s uint) bool {
	for i := range x {
		z[i] = x[i] >> s
	}
	return z[len(x)-1] == 0
}

func TestVerifyBuiltins(t *testing.T) {
	t.Parallel()
	for _, b := range Builtins() {
		b := b
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			err := Verify(b, Reference(), VerifyConfig{Seed: 42, MaxWords: 33, Rounds: 32})
			require.NoError(t, err)
		})
	}
}

func TestVerifyDetectsBrokenKernels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		spec   BackendSpec
		kernel string
	}{
		{
			name: "sub",
			spec: BackendSpec{Version: 9, Name: "no-borrow", NTZ: ntzReference, Shr: shrReference, Sub: subIgnoringBorrow},
			kernel: "sub",
		},
		{
			name: "shr",
			spec: BackendSpec{Version: 9, Name: "no-carry", NTZ: ntzReference, Shr: shrWithoutCarry, Sub: subReference},
			kernel: "shr",
		},
		{
			name: "ntz",
			spec: BackendSpec{Version: 9, Name: "off-by-one", NTZ: func(w Word) uint { return ntzReference(w) + 1 }, Shr: shrReference, Sub: subReference},
			kernel: "ntz",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b, err := NewBackend(tt.spec)
			require.NoError(t, err)

			err = Verify(b, Reference(), QuickCheck)
			require.ErrorIs(t, err, ErrNotEquivalent)

			var eq *EquivalenceError
			require.True(t, errors.As(err, &eq))
			assert.Equal(t, tt.kernel, eq.Kernel)
			assert.Equal(t, tt.spec.Name, eq.Backend)
		})
	}
}

func TestNewBackendValidation(t *testing.T) {
	t.Parallel()
	_, err := NewBackend(BackendSpec{Version: VersionAuto, Name: "x", NTZ: ntzReference, Shr: shrReference, Sub: subReference})
	assert.Error(t, err)
	_, err = NewBackend(BackendSpec{Version: 5, NTZ: ntzReference, Shr: shrReference, Sub: subReference})
	assert.Error(t, err)
	_, err = NewBackend(BackendSpec{Version: 5, Name: "x", NTZ: ntzReference, Shr: shrReference})
	assert.Error(t, err)
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	require.Equal(t, []string{"reference"}, r.Names())

	good, err := NewBackend(BackendSpec{Version: 7, Name: "copy", NTZ: ntzPopcount, Shr: shrUnrolled, Sub: subUnrolled})
	require.NoError(t, err)
	require.NoError(t, r.Register(good))
	assert.ErrorIs(t, r.Register(good), ErrDuplicateBackend)

	bad, err := NewBackend(BackendSpec{Version: 8, Name: "bad", NTZ: ntzReference, Shr: shrReference, Sub: subIgnoringBorrow})
	require.NoError(t, err)
	assert.ErrorIs(t, r.Register(bad), ErrNotEquivalent)

	_, err = r.Lookup(8)
	assert.ErrorIs(t, err, ErrUnknownBackend)
	got, err := r.Lookup(7)
	require.NoError(t, err)
	assert.Same(t, good, got)
	assert.Equal(t, []string{"reference", "copy"}, r.Names())

	assert.Error(t, r.Register(nil))
}

func TestRegistryBest(t *testing.T) {
	t.Parallel()
	fast, err := NewBackend(BackendSpec{
		Version: 7, Name: "avx512-only", Priority: 100,
		NTZ: ntzReference, Shr: shrReference, Sub: subReference,
		Supported: func(f CPUFeatures) bool { return f.AVX512 },
	})
	require.NoError(t, err)

	without := NewRegistry(WithFeatures(CPUFeatures{}))
	require.NoError(t, without.Register(fast))
	assert.Equal(t, VersionReference, without.Best().Version())

	with := NewRegistry(WithFeatures(CPUFeatures{AVX512: true}))
	require.NoError(t, with.Register(fast))
	assert.Same(t, fast, with.Best())

	auto, err := with.Select(VersionAuto)
	require.NoError(t, err)
	assert.Same(t, fast, auto)
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()
	r := Default()
	assert.Len(t, r.List(), len(Builtins()))

	b, err := Select(VersionReference)
	require.NoError(t, err)
	assert.Equal(t, "reference", b.Name())

	auto, err := Select(VersionAuto)
	require.NoError(t, err)
	assert.True(t, auto.Supported(r.Features()))
}

func TestParseVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"auto", VersionAuto, false},
		{"Default", VersionAuto, false},
		{"ref", VersionReference, false},
		{" unrolled ", VersionUnrolled, false},
		{"asm", VersionMathBig, false},
		{"2", VersionMathBig, false},
		{"-1", VersionAuto, false},
		{"-2", 0, true},
		{"turbo", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownBackend, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "mathbig", VersionMathBig.String())
	assert.Equal(t, "v9", Version(9).String())
}

func TestCPUFeaturesString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "none", CPUFeatures{}.String())
	assert.Equal(t, "avx2 popcnt", CPUFeatures{AVX2: true, POPCNT: true}.String())
}

func FuzzSubMatchesReference(f *testing.F) {
	f.Add(uint64(0), uint64(1), uint64(1))
	f.Add(^uint64(0), ^uint64(0), uint64(0))
	f.Fuzz(func(t *testing.T, lo, hi, y uint64) {
		if hi == 0 {
			hi = 1
		}
		x := []Word{lo, hi, 1}
		ys := []Word{y, hi - 1}
		want := make([]Word, 3)
		wantLast := subReference(want, x, ys)
		for _, b := range Builtins() {
			got := make([]Word, 3)
			last := b.Sub(got, x, ys)
			if last != wantLast || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
				t.Fatalf("%s: Sub(%#x, %#x) = %#x, want %#x", b.Name(), x, ys, got, want)
			}
		}
	})
}

func TestAutoSkipsUnrolledWithoutPOPCNT(t *testing.T) {
	t.Parallel()
	var unrolled *Backend
	for _, b := range Builtins() {
		if b.Name() == "unrolled" {
			unrolled = b
		}
	}
	require.NotNil(t, unrolled)
	assert.True(t, unrolled.Supported(CPUFeatures{POPCNT: true}))

	r := NewRegistry(WithFeatures(CPUFeatures{}))
	require.NoError(t, r.Register(unrolled))
	if runtime.GOARCH == "amd64" {
		assert.Equal(t, "reference", r.Best().Name())
	} else {
		assert.Equal(t, "unrolled", r.Best().Name())
	}

	r = NewRegistry(WithFeatures(CPUFeatures{POPCNT: true}))
	require.NoError(t, r.Register(unrolled))
	assert.Equal(t, "unrolled", r.Best().Name())
}
