package verify

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/mpint"
	"github.com/agbru/kroncalc/internal/oracle"
	"github.com/agbru/kroncalc/internal/oracle/mocks"
)

func TestNewCorpusDeterministic(t *testing.T) {
	t.Parallel()
	a, b := NewCorpus(QuickCorpus), NewCorpus(QuickCorpus)
	require.Len(t, a, QuickCorpus.Size())
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Kind, b[i].Kind)
		assert.Zero(t, a[i].X.Cmp(b[i].X), "case %d X differs", i)
		assert.Zero(t, a[i].Y.Cmp(b[i].Y), "case %d Y differs", i)
	}

	other := NewCorpus(CorpusConfig{Seed: 7, Lengths: QuickCorpus.Lengths, Step: QuickCorpus.Step, Offset: QuickCorpus.Offset})
	differ := false
	for i := range a {
		if a[i].X.Cmp(other[i].X) != 0 {
			differ = true
			break
		}
	}
	assert.True(t, differ, "a different seed should change the corpus")
}

func TestCorpusKinds(t *testing.T) {
	t.Parallel()
	cfg := CorpusConfig{Seed: 3, Lengths: 5, Step: 100, Offset: 100}
	for _, c := range NewCorpus(cfg) {
		switch c.Kind {
		case KindOdd:
			assert.Equal(t, c.Bits, c.X.BitLen())
			assert.Equal(t, c.Bits, c.Y.BitLen())
			assert.Equal(t, uint(1), c.X.Bit(0))
			assert.LessOrEqual(t, c.X.Cmp(c.Y), 0)
		case KindEven:
			assert.Equal(t, uint(0), c.X.Bit(0))
		case KindNegative:
			assert.Negative(t, c.X.Sign())
		case KindCommonFactor:
			g := new(big.Int).GCD(nil, nil, c.X, c.Y)
			assert.Positive(t, g.Cmp(big.NewInt(1)), "operands should share a factor")
		case KindEvenModulus:
			assert.Equal(t, uint(0), c.Y.Bit(0))
		case KindEdge:
		default:
			t.Errorf("unexpected kind %q", c.Kind)
		}
	}
	assert.Equal(t, 100, cfg.Length(0))
	assert.Equal(t, 500, cfg.Length(4))
}

func TestRunAllBackendsPass(t *testing.T) {
	t.Parallel()
	cases := NewCorpus(QuickCorpus)
	for _, b := range kernel.Builtins() {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			reports, err := Run(context.Background(), NewEnv(mpint.NewOps(b), nil), cases, Options{})
			require.NoError(t, err)
			require.Len(t, reports, len(Checks()))
			for _, r := range reports {
				assert.True(t, r.Passed(), "%s failed: %v", r.Check, r.First)
				assert.NoError(t, r.Err())
				assert.Equal(t, b.Name(), r.Backend)
				assert.Equal(t, len(cases), r.Cases+r.Skipped)
			}
			assert.Empty(t, Failed(reports))
		})
	}
}

func TestRunReportsMismatch(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	liar := mocks.NewMockOracle(ctrl)
	liar.EXPECT().Name().Return("liar").AnyTimes()
	liar.EXPECT().Kronecker(gomock.Any(), gomock.Any()).Return(2).AnyTimes()

	cases := NewCorpus(QuickCorpus)
	reports, err := Run(context.Background(), NewEnv(mpint.NewOps(nil), liar), cases,
		Options{Checks: []string{CheckOracleKronecker}})
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, len(cases), r.Failures)
	var verr apperrors.VerificationError
	require.ErrorAs(t, r.Err(), &verr)
	assert.Equal(t, CheckOracleKronecker, verr.Check)
	assert.Equal(t, "reference", verr.Backend)
	var mm apperrors.MismatchError
	require.ErrorAs(t, r.Err(), &mm)
	assert.Equal(t, "2", mm.Want)
	assert.Equal(t, apperrors.ExitErrorMismatch, apperrors.ExitCodeFor(r.Err()))
}

func TestRunFailFast(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	liar := mocks.NewMockOracle(ctrl)
	liar.EXPECT().Name().Return("liar").AnyTimes()
	liar.EXPECT().Kronecker(gomock.Any(), gomock.Any()).Return(2).Times(1)

	reports, err := Run(context.Background(), NewEnv(mpint.NewOps(nil), liar), NewCorpus(QuickCorpus),
		Options{Checks: []string{CheckOracleKronecker}, FailFast: true})
	require.NoError(t, err)
	assert.Equal(t, 1, reports[0].Cases)
	assert.Equal(t, 1, reports[0].Failures)
}

func TestRunUnknownCheck(t *testing.T) {
	t.Parallel()
	_, err := Run(context.Background(), NewEnv(mpint.NewOps(nil), nil), nil, Options{Checks: []string{"nope"}})
	assert.ErrorIs(t, err, ErrUnknownCheck)
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reports, err := Run(ctx, NewEnv(mpint.NewOps(nil), nil), NewCorpus(QuickCorpus), Options{})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, reports)
}

func TestRunProgress(t *testing.T) {
	t.Parallel()
	var values []float64
	_, err := Run(context.Background(), NewEnv(mpint.NewOps(nil), oracle.BigOracle{}), NewCorpus(QuickCorpus), Options{
		Checks:   []string{CheckRoundTrip, CheckOracleNTZ},
		Progress: func(v float64) { values = append(values, v) },
	})
	require.NoError(t, err)
	require.NotEmpty(t, values)
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1], "progress must not go backwards")
	}
	assert.Equal(t, 1.0, values[len(values)-1])
}

func TestChecksOrder(t *testing.T) {
	t.Parallel()
	names := Checks()
	require.Len(t, names, 7)
	assert.Equal(t, CheckOracleKronecker, names[0])
	names[0] = "mutated"
	assert.Equal(t, CheckOracleKronecker, Checks()[0], "Checks must return a copy")
}

func TestLow64(t *testing.T) {
	t.Parallel()
	assert.Equal(t, int64(-5), low64(big.NewInt(-5)))
	assert.Equal(t, int64(0), low64(new(big.Int).Lsh(big.NewInt(1), 63)))
	v, _ := new(big.Int).SetString("-10000000000000003", 16)
	assert.Equal(t, int64(-3), low64(v))
}
