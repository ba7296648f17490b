// SPDX-License-Identifier: MIT

// Package stress checks that Determinant is invariant under randomized
// elementary row operations.
//
// Each trial:
//   - builds the Size×Size upper-triangular ones matrix with Corner in (0,0)
//     (its determinant is Corner);
//   - applies Adds random AddRows, Swaps realized SwapRows and Subtracts random
//     SubtractRows, with indices drawn from a PRNG seeded by Seed+trial;
//   - expects det = Corner·(-1)^Swaps within Tolerance.
//
// Trials run on a bounded pool of workers. Every worker owns the matrices it
// builds; nothing is shared but the result slot of its trial and the
// (mutex-guarded) failure log.
package stress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/katalvlaran/lvdet/matrix"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidConfig is returned by New for unusable parameters.
	ErrInvalidConfig = errors.New("stress: invalid config")

	// ErrInvariantBroken is reported by Report.Err when at least one trial failed.
	ErrInvariantBroken = errors.New("stress: determinant invariant broken")
)

// Defaults mirror the reference generator run.
const (
	DefaultTrials    = 200
	DefaultSize      = 100
	DefaultAdds      = 100
	DefaultSwaps     = 100
	DefaultSubtracts = 100
	DefaultCorner    = 42.0
	DefaultTolerance = matrix.DefaultEpsilon
	DefaultSeed      = 1
)

// Config holds the run parameters.
type Config struct {
	Trials    int
	Size      int
	Adds      int
	Swaps     int
	Subtracts int
	Corner    float64
	Tolerance float64
	Seed      int64
	Workers   int // ≤ 0 means runtime.GOMAXPROCS(0)
}

// DefaultConfig returns the reference parameters.
func DefaultConfig() Config {
	return Config{
		Trials:    DefaultTrials,
		Size:      DefaultSize,
		Adds:      DefaultAdds,
		Swaps:     DefaultSwaps,
		Subtracts: DefaultSubtracts,
		Corner:    DefaultCorner,
		Tolerance: DefaultTolerance,
		Seed:      DefaultSeed,
	}
}

// Validate checks the parameters; every violation wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Trials <= 0:
		return fmt.Errorf("trials=%d: %w", c.Trials, ErrInvalidConfig)
	case c.Size < 2:
		return fmt.Errorf("size=%d (need ≥ 2 for swaps): %w", c.Size, ErrInvalidConfig)
	case c.Adds < 0 || c.Swaps < 0 || c.Subtracts < 0:
		return fmt.Errorf("negative operation count: %w", ErrInvalidConfig)
	case math.IsNaN(c.Corner) || math.IsInf(c.Corner, 0):
		return fmt.Errorf("corner=%v: %w", c.Corner, ErrInvalidConfig)
	case !(c.Tolerance >= 0) || math.IsInf(c.Tolerance, 0):
		return fmt.Errorf("tolerance=%v: %w", c.Tolerance, ErrInvalidConfig)
	}

	return nil
}

// Trial is the outcome of one randomized run.
type Trial struct {
	Index     int
	Expected  float64 // Corner·(-1)^Swaps
	Det       float64 // our Determinant
	Reference float64 // gonum LU determinant of the same mixed matrix (NaN when disabled)
	Residual  float64 // |Det - Expected|
	Passed    bool
}

// Report aggregates a run.
type Report struct {
	Config   Config
	Trials   []Trial // indexed by trial number; trials skipped by cancellation are absent
	Passed   int
	Failed   int
	Duration time.Duration
}

// MaxResidual returns the largest |Det - Expected| over completed trials.
func (r *Report) MaxResidual() float64 {
	var worst float64
	for _, t := range r.Trials {
		worst = math.Max(worst, t.Residual)
	}

	return worst
}

// Err returns nil when every trial passed, ErrInvariantBroken otherwise.
func (r *Report) Err() error {
	if r.Failed == 0 {
		return nil
	}

	return fmt.Errorf("%d of %d trials: %w", r.Failed, len(r.Trials), ErrInvariantBroken)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithFailureLog sets where failing trials are dumped (input, mixed matrix, output).
func WithFailureLog(w io.Writer) Option {
	return func(r *Runner) { r.failures = w }
}

// WithReference toggles the gonum cross-check (default on).
func WithReference(on bool) Option {
	return func(r *Runner) { r.reference = on }
}

// Runner executes stress runs for one Config.
type Runner struct {
	cfg       Config
	log       *slog.Logger
	failures  io.Writer
	reference bool

	mu sync.Mutex // guards failures
}

// New validates cfg and returns a Runner.
func New(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stress.New: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	r := &Runner{
		cfg:       cfg,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		failures:  io.Discard,
		reference: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Config returns the effective configuration (Workers resolved).
func (r *Runner) Config() Config { return r.cfg }

// Run executes all trials. Cancelling ctx stops dispatching new trials; the
// partial report is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	results := make([]*Trial, r.cfg.Trials)
	jobs := make(chan int)

	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once
	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				tr, err := r.trial(idx)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				results[idx] = &tr
			}
		}()
	}

	r.log.Info("stress run started",
		slog.Int("trials", r.cfg.Trials),
		slog.Int("size", r.cfg.Size),
		slog.Int("workers", r.cfg.Workers),
		slog.Int64("seed", r.cfg.Seed))

dispatch:
	for i := 0; i < r.cfg.Trials; i++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	rep := &Report{Config: r.cfg, Duration: time.Since(start)}
	for _, tr := range results {
		if tr == nil {
			continue
		}
		rep.Trials = append(rep.Trials, *tr)
		if tr.Passed {
			rep.Passed++
		} else {
			rep.Failed++
		}
	}

	r.log.Info("stress run finished",
		slog.Int("passed", rep.Passed),
		slog.Int("failed", rep.Failed),
		slog.Float64("max_residual", rep.MaxResidual()),
		slog.Duration("elapsed", rep.Duration))

	if firstErr != nil {
		return rep, firstErr
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	return rep, nil
}

// trial runs one randomized mixing and checks the determinant.
func (r *Runner) trial(idx int) (Trial, error) {
	n := r.cfg.Size
	base, err := matrix.New(n, n, UpperTriangular(n, r.cfg.Corner))
	if err != nil {
		return Trial{}, fmt.Errorf("trial %d: %w", idx, err)
	}
	defer base.Release()

	mixed := base.Clone()
	defer mixed.Release()

	rng := rand.New(rand.NewSource(r.cfg.Seed + int64(idx)))
	Mix(mixed, rng, r.cfg.Adds, r.cfg.Swaps, r.cfg.Subtracts)

	det, err := mixed.Determinant()
	if err != nil {
		return Trial{}, fmt.Errorf("trial %d: %w", idx, err)
	}

	expected := r.cfg.Corner
	if r.cfg.Swaps%2 == 1 {
		expected = -expected
	}
	tr := Trial{
		Index:     idx,
		Expected:  expected,
		Det:       det,
		Reference: math.NaN(),
		Residual:  math.Abs(det - expected),
	}
	tr.Passed = tr.Residual < r.cfg.Tolerance || tr.Residual == 0
	if r.reference {
		tr.Reference = referenceDet(mixed)
	}

	if !tr.Passed {
		r.log.Warn("trial failed",
			slog.Int("trial", idx),
			slog.Float64("det", det),
			slog.Float64("expected", expected),
			slog.Float64("reference", tr.Reference))
		r.dump(tr, base, mixed)
	} else {
		r.log.Debug("trial passed", slog.Int("trial", idx), slog.Float64("residual", tr.Residual))
	}

	return tr, nil
}

// dump writes a failing trial to the failure log.
func (r *Runner) dump(tr Trial, base, mixed *matrix.Dense[float64]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.failures, "TEST #%d FAILED\nINPUT:\n\n%s\n\n", tr.Index, base)
	fmt.Fprintf(r.failures, "AFTER MIXING:\n%s\n\n", mixed)
	fmt.Fprintf(r.failures, "OUTPUT: %v\n===========================================\n", tr.Det)
}

// Mix applies adds random AddRows, swaps realized SwapRows and subtracts
// random SubtractRows to m, in that order. Rejected add/subtract draws (equal
// indices) still count; swaps are retried until realized. Returns the number
// of realized add/subtract operations.
func Mix[T matrix.Number](m *matrix.Dense[T], rng *rand.Rand, adds, swaps, subtracts int) int {
	n := m.Rows()
	applied := 0
	for i := 0; i < adds; i++ {
		if m.AddRows(rng.Intn(n), rng.Intn(n)) {
			applied++
		}
	}
	for done := 0; done < swaps && n > 1; {
		if m.SwapRows(rng.Intn(n), rng.Intn(n)) {
			done++
		}
	}
	for i := 0; i < subtracts; i++ {
		if m.SubtractRows(rng.Intn(n), rng.Intn(n)) {
			applied++
		}
	}

	return applied
}

// UpperTriangular returns the n×n row-major values with ones on and above the
// diagonal, zeros below and corner in (0,0).
func UpperTriangular(n int, corner float64) []float64 {
	vals := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			vals[i*n+j] = 1
		}
	}
	if n > 0 {
		vals[0] = corner
	}

	return vals
}

// referenceDet computes the determinant of m's logical contents with gonum.
func referenceDet(m *matrix.Dense[float64]) float64 {
	return mat.Det(mat.NewDense(m.Rows(), m.Cols(), m.Values()))
}
