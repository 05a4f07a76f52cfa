// Package bench times the kernel operations and the Kronecker symbol of
// every backend against an oracle, over operands of growing bit length.
//
// The series follow the classic layout: one row per operand length, one
// column for the oracle followed by one column per backend, each cell the
// mean time of a single operation.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/kronecker"
	"github.com/agbru/kroncalc/internal/mpint"
	"github.com/agbru/kroncalc/internal/oracle"
	"github.com/agbru/kroncalc/internal/progress"
)

// Benchmarked operations.
const (
	OpNTZ       = "ntz"
	OpRsh       = "rsh"
	OpSub       = "sub"
	OpKronecker = "kronecker"
)

// AllOps lists every operation in output order.
var AllOps = []string{OpNTZ, OpRsh, OpSub, OpKronecker}

// OracleColumn names the oracle column of a series.
const OracleColumn = "oracle"

// ErrUnknownOp is returned for operation names not in AllOps.
var ErrUnknownOp = errors.New("bench: unknown operation")

const tracerName = "github.com/agbru/kroncalc/internal/bench"

// Config sizes a benchmark run. Operand lengths are Step*i + Offset bits.
type Config struct {
	Seed    int64
	Lengths int
	Step    int
	Offset  int
	// Loops is the number of timed iterations per cell.
	Loops int
	// Ops restricts the run; empty means AllOps.
	Ops []string
}

// DefaultConfig is a short version of the classic Kronecker series.
var DefaultConfig = Config{Seed: 0, Lengths: 10, Step: 100, Offset: 100, Loops: 200}

// Row holds the timings of one operand length, in column order.
type Row struct {
	Bits    int       `json:"bits"`
	NsPerOp []float64 `json:"ns_per_op"`
}

// Series is the timing table of one operation.
type Series struct {
	Op      string   `json:"op"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Fastest returns the index of the fastest column of row i.
func (s Series) Fastest(i int) int {
	best := 0
	for j, v := range s.Rows[i].NsPerOp {
		if v < s.Rows[i].NsPerOp[best] {
			best = j
		}
	}
	return best
}

// MeanNs returns the mean of column j over all rows.
func (s Series) MeanNs(j int) float64 {
	if len(s.Rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.Rows {
		sum += r.NsPerOp[j]
	}
	return sum / float64(len(s.Rows))
}

// Runner executes a benchmark configuration.
type Runner struct {
	backends []*kernel.Backend
	oracle   oracle.Oracle
	cfg      Config
	logger   zerolog.Logger
	metrics  *Metrics
	progress progress.ProgressCallback
	tracer   trace.Tracer
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(r *Runner) { r.logger = l } }

// WithMetrics observes every timing into m.
func WithMetrics(m *Metrics) Option { return func(r *Runner) { r.metrics = m } }

// WithProgress reports the completed fraction of the run.
func WithProgress(cb progress.ProgressCallback) Option { return func(r *Runner) { r.progress = cb } }

// WithTracer overrides the global otel tracer.
func WithTracer(t trace.Tracer) Option { return func(r *Runner) { r.tracer = t } }

// NewRunner returns a runner comparing backends with o. A nil oracle
// selects math/big.
func NewRunner(backends []*kernel.Backend, o oracle.Oracle, cfg Config, opts ...Option) *Runner {
	if o == nil {
		o = oracle.BigOracle{}
	}
	if len(cfg.Ops) == 0 {
		cfg.Ops = AllOps
	}
	if cfg.Loops <= 0 {
		cfg.Loops = DefaultConfig.Loops
	}
	r := &Runner{
		backends: backends,
		oracle:   o,
		cfg:      cfg,
		logger:   zerolog.Nop(),
		progress: func(float64) {},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// fixture holds the operands of one length, in both representations.
type fixture struct {
	bits int
	// ntz operand: 2^bits.
	pow, powBig *big.Int
	pow2        *mpint.Int
	// rsh operand and amount.
	shr    *mpint.Int
	shrBig *big.Int
	shrN   uint
	// sub operands, x >= y >= 0.
	subX, subY       *mpint.Int
	subXBig, subYBig *big.Int
	// kronecker operands, odd, x <= y.
	kx, ky       *mpint.Int
	kxBig, kyBig *big.Int
}

// Run times every configured operation. Operand fixtures are prepared
// concurrently; the timings themselves run sequentially so that they do
// not disturb each other.
func (r *Runner) Run(ctx context.Context) ([]Series, error) {
	for _, op := range r.cfg.Ops {
		if !isOp(op) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op)
		}
	}
	ctx, span := r.tracer.Start(ctx, "bench.run", trace.WithAttributes(
		attribute.Int("kroncalc.lengths", r.cfg.Lengths),
		attribute.Int("kroncalc.loops", r.cfg.Loops),
		attribute.Int("kroncalc.backends", len(r.backends)),
	))
	defer span.End()

	fixtures, err := r.prepare(ctx)
	if err != nil {
		return nil, err
	}

	columns := append([]string{OracleColumn}, backendNames(r.backends)...)
	total := len(r.cfg.Ops) * len(fixtures)
	done := 0
	series := make([]Series, 0, len(r.cfg.Ops))

	for _, op := range r.cfg.Ops {
		s := Series{Op: op, Columns: columns, Rows: make([]Row, 0, len(fixtures))}
		for _, f := range fixtures {
			if err := ctx.Err(); err != nil {
				span.RecordError(err)
				return series, err
			}
			row := Row{Bits: f.bits, NsPerOp: make([]float64, len(columns))}
			row.NsPerOp[0] = r.time(op, OracleColumn, r.oracleFunc(op, f))
			for j, b := range r.backends {
				row.NsPerOp[j+1] = r.time(op, b.Name(), r.backendFunc(op, b, f))
			}
			s.Rows = append(s.Rows, row)
			done++
			r.progress(progress.Fraction(done, total))
		}
		r.logger.Debug().Str("op", op).Int("rows", len(s.Rows)).Msg("series finished")
		series = append(series, s)
	}
	return series, nil
}

func isOp(op string) bool {
	for _, o := range AllOps {
		if o == op {
			return true
		}
	}
	return false
}

func backendNames(bs []*kernel.Backend) []string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name()
	}
	return names
}

// prepare builds one fixture per length. Each length has its own seeded
// source so that the result does not depend on scheduling.
func (r *Runner) prepare(ctx context.Context) ([]fixture, error) {
	fixtures := make([]fixture, max(r.cfg.Lengths, 0))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range fixtures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bits := max(r.cfg.Step*i+r.cfg.Offset, 2)
			rng := rand.New(rand.NewSource(r.cfg.Seed + int64(i)))
			fixtures[i] = newFixture(rng, bits)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fixtures, nil
}

func randomBits(rng *rand.Rand, bits int) *big.Int {
	return new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
}

func randomOdd(rng *rand.Rand, bits int) *big.Int {
	x := randomBits(rng, bits)
	x.SetBit(x, bits-1, 1)
	return x.SetBit(x, 0, 1)
}

func newFixture(rng *rand.Rand, bits int) fixture {
	f := fixture{bits: bits}

	f.powBig = new(big.Int).Lsh(big.NewInt(1), uint(bits))
	f.pow2 = mpint.FromBig(f.powBig)

	f.shrBig = randomBits(rng, bits)
	f.shr = mpint.FromBig(f.shrBig)
	f.shrN = uint(bits >> 2)

	x, y := randomBits(rng, bits), randomBits(rng, bits)
	if x.Cmp(y) < 0 {
		x, y = y, x
	}
	f.subXBig, f.subYBig = x, y
	f.subX, f.subY = mpint.FromBig(x), mpint.FromBig(y)

	kx, ky := randomOdd(rng, bits), randomOdd(rng, bits)
	if kx.Cmp(ky) > 0 {
		kx, ky = ky, kx
	}
	f.kxBig, f.kyBig = kx, ky
	f.kx, f.ky = mpint.FromBig(kx), mpint.FromBig(ky)
	return f
}

// sink keeps the timed results alive.
var sink int

func (r *Runner) oracleFunc(op string, f fixture) func() {
	o := r.oracle
	switch op {
	case OpNTZ:
		return func() { sink += int(o.TrailingZeros(f.powBig)) }
	case OpRsh:
		return func() { sink += o.Rsh(f.shrBig, f.shrN).Sign() }
	case OpSub:
		return func() { sink += o.Sub(f.subXBig, f.subYBig).Sign() }
	default:
		return func() { sink += o.Kronecker(f.kxBig, f.kyBig) }
	}
}

func (r *Runner) backendFunc(op string, b *kernel.Backend, f fixture) func() {
	ops := mpint.NewOps(b)
	switch op {
	case OpNTZ:
		return func() { sink += int(ops.TrailingZeros(f.pow2)) }
	case OpRsh:
		z := new(mpint.Int)
		return func() { sink += ops.Rsh(z, f.shr, f.shrN).Sign() }
	case OpSub:
		z := new(mpint.Int)
		return func() {
			if _, err := ops.Sub(z, f.subX, f.subY); err == nil {
				sink += z.Sign()
			}
		}
	default:
		e := kronecker.New(ops)
		return func() { sink += e.Symbol(f.kx, f.ky) }
	}
}

// time runs fn once to warm up, then Loops times, and returns the mean
// duration in nanoseconds.
func (r *Runner) time(op, impl string, fn func()) float64 {
	fn()
	start := time.Now()
	for i := 0; i < r.cfg.Loops; i++ {
		fn()
	}
	ns := float64(time.Since(start).Nanoseconds()) / float64(r.cfg.Loops)
	if r.metrics != nil {
		r.metrics.Observe(op, impl, ns/1e9)
	}
	return ns
}
