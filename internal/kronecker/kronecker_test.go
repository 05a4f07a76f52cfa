package kronecker_test

import (
	"errors"
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/kronecker"
	"github.com/agbru/kroncalc/internal/mpint"
	"github.com/agbru/kroncalc/internal/oracle"
)

// engines returns one big-integer engine per compiled-in backend.
func engines() []*kronecker.Engine {
	var out []*kronecker.Engine
	for _, b := range kernel.Builtins() {
		out = append(out, kronecker.New(mpint.NewOps(b)))
	}
	return out
}

func TestTable(t *testing.T) {
	t.Parallel()
	tbl := kronecker.Table()
	assert.Equal(t, [8]int{0, 1, 0, -1, 0, -1, 0, 1}, tbl)
	tbl[1] = 42
	assert.Equal(t, 1, kronecker.Table()[1], "Table must return a copy")
}

func TestScenarios(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		x, y int64
		want int
	}{
		{"prime modulus", 107, 281, -1},
		{"unit over zero", 1, 0, 1},
		{"negative unit over zero", -1, 0, 1},
		{"non-unit over zero", 5, 0, 0},
		{"zero over zero", 0, 0, 0},
		{"both even", 6, 10, 0},
		{"even modulus", 3, 8, -1},
		{"negative modulus", 5, -6, 1},
		{"both negative", -1, -1, -1},
		{"negative numerator", -1, 3, -1},
		{"common factor", 21, 15, 0},
		{"zero over one", 0, 1, 1},
		{"zero over odd", 0, 7, 0},
		{"large", 1001, 9907, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, kronecker.Int64(tt.x, tt.y), "Int64 %s", tt.name)
		for _, e := range engines() {
			assert.Equal(t, tt.want, e.SymbolInt64(tt.x, tt.y), "%s %s", e.Ops().Backend().Name(), tt.name)
		}
	}
}

func TestZeroModulus(t *testing.T) {
	t.Parallel()
	for x := int64(-50); x <= 50; x++ {
		want := 0
		if x == 1 || x == -1 {
			want = 1
		}
		require.Equal(t, want, kronecker.Int64(x, 0), "x=%d", x)
	}
}

func TestBothEven(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	e := kronecker.New(mpint.NewOps(nil))
	for i := 0; i < 1000; i++ {
		x, y := rng.Int63()&^1, rng.Int63()&^1
		if rng.Intn(2) == 0 {
			x = -x
		}
		if y == 0 {
			continue
		}
		require.Zero(t, kronecker.Int64(x, y))
		require.Zero(t, e.SymbolInt64(x, y))
	}
}

func TestAgainstOracleSmall(t *testing.T) {
	t.Parallel()
	var o oracle.BigOracle
	e := kronecker.New(mpint.NewOps(nil))
	for x := int64(-64); x <= 64; x++ {
		for y := int64(-64); y <= 64; y++ {
			want := o.Kronecker(big.NewInt(x), big.NewInt(y))
			if got := kronecker.Int64(x, y); got != want {
				t.Fatalf("Int64(%d, %d) = %d, want %d", x, y, got, want)
			}
			if got := e.SymbolInt64(x, y); got != want {
				t.Fatalf("Symbol(%d, %d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestExtremes(t *testing.T) {
	t.Parallel()
	var o oracle.BigOracle
	values := []int64{math.MinInt64, math.MinInt64 + 1, -3, -2, -1, 0, 1, 2, 3, math.MaxInt64 - 1, math.MaxInt64}
	for _, e := range engines() {
		for _, x := range values {
			for _, y := range values {
				want := o.Kronecker(big.NewInt(x), big.NewInt(y))
				require.Equal(t, want, kronecker.Int64(x, y), "Int64(%d, %d)", x, y)
				require.Equal(t, want, e.SymbolInt64(x, y), "%s Symbol(%d, %d)", e.Ops().Backend().Name(), x, y)
			}
		}
	}
}

func TestBigOperandsAgainstOracle(t *testing.T) {
	t.Parallel()
	var o oracle.BigOracle
	rng := rand.New(rand.NewSource(281))
	for _, e := range engines() {
		for bitsLen := 64; bitsLen <= 1024; bitsLen += 96 {
			for i := 0; i < 8; i++ {
				x := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bitsLen)))
				y := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bitsLen)))
				if i%2 == 0 {
					y.SetBit(y, 0, 1)
				}
				if i%3 == 0 {
					x.Neg(x)
				}
				if i == 5 {
					// Shared factor.
					x.Mul(x, big.NewInt(3))
					y.Mul(y, big.NewInt(3))
				}
				want := o.Kronecker(x, y)
				got := e.Symbol(mpint.FromBig(x), mpint.FromBig(y))
				require.Equal(t, want, got, "%s: bits=%d x=%x y=%x", e.Ops().Backend().Name(), bitsLen, x, y)
			}
		}
	}
}

func TestSymbolDoesNotModifyOperands(t *testing.T) {
	t.Parallel()
	e := kronecker.New(mpint.NewOps(nil))
	x := mpint.MustParseHex("-0x123456789abcdef0123456789")
	y := mpint.MustParseHex("0xfedcba98765432100")
	xc, yc := x.Clone(), y.Clone()
	e.Symbol(x, y)
	assert.True(t, x.Equal(xc))
	assert.True(t, y.Equal(yc))
}

func TestJacobi(t *testing.T) {
	t.Parallel()
	e := kronecker.New(mpint.NewOps(nil))
	j, err := e.Jacobi(mpint.NewInt(107), mpint.NewInt(281))
	require.NoError(t, err)
	assert.Equal(t, -1, j)

	for _, n := range []int64{0, -3, 4} {
		_, err := e.Jacobi(mpint.NewInt(2), mpint.NewInt(n))
		assert.True(t, errors.Is(err, kronecker.ErrInvalidModulus), "n=%d", n)
	}
}

// TestCrossDomain_PropertyBased checks that both engines agree on every
// pair of machine integers.
func TestCrossDomain_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000
	properties := gopter.NewProperties(parameters)

	for _, e := range engines() {
		e := e
		properties.Property(e.Ops().Backend().Name()+" agrees with Int64", prop.ForAll(
			func(x, y int64) bool {
				return kronecker.Int64(x, y) == e.SymbolInt64(x, y)
			},
			gen.Int64(), gen.Int64(),
		))
	}

	properties.TestingRun(t)
}

// TestMultiplicative_PropertyBased checks (x/y1*y2) = (x/y1)(x/y2) for
// coprime positive odd y1 and y2.
func TestMultiplicative_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	odd := gen.Int64Range(1, 1<<30).Map(func(v int64) int64 { return v | 1 })
	e := kronecker.New(mpint.NewOps(nil))

	properties.Property("symbol is multiplicative in the modulus", prop.ForAll(
		func(x, y1, y2 int64) bool {
			if new(big.Int).GCD(nil, nil, big.NewInt(y1), big.NewInt(y2)).Int64() != 1 {
				return true
			}
			lhs := kronecker.Int64(x, y1*y2)
			rhs := kronecker.Int64(x, y1) * kronecker.Int64(x, y2)
			return lhs == rhs && e.SymbolInt64(x, y1*y2) == rhs
		},
		gen.Int64(), odd, odd,
	))

	properties.TestingRun(t)
}

func FuzzCrossDomain(f *testing.F) {
	f.Add(int64(107), int64(281))
	f.Add(int64(math.MinInt64), int64(-1))
	f.Add(int64(0), int64(0))
	e := kronecker.New(mpint.NewOps(nil))
	var o oracle.BigOracle
	f.Fuzz(func(t *testing.T, x, y int64) {
		want := o.Kronecker(big.NewInt(x), big.NewInt(y))
		if got := kronecker.Int64(x, y); got != want {
			t.Fatalf("Int64(%d, %d) = %d, want %d", x, y, got, want)
		}
		if got := e.SymbolInt64(x, y); got != want {
			t.Fatalf("Symbol(%d, %d) = %d, want %d", x, y, got, want)
		}
	})
}

func BenchmarkInt64(b *testing.B) {
	for i := 0; i < b.N; i++ {
		kronecker.Int64(0x7fffffffffffffe7, 0x1fffffffffffffff)
	}
}

func BenchmarkSymbol(b *testing.B) {
	x := mpint.MustParseHex("0x" + "f1e2d3c4b5a69788" + "0123456789abcdef" + "fedcba9876543210" + "1")
	y := mpint.MustParseHex("0x" + "a1b2c3d4e5f60718" + "293a4b5c6d7e8f90" + "7")
	for _, e := range engines() {
		b.Run(e.Ops().Backend().Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				e.Symbol(x, y)
			}
		})
	}
}
