package stress_test

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/lvdet/matrix"
	"github.com/katalvlaran/lvdet/stress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallConfig keeps runs fast while preserving the reference shape.
func smallConfig() stress.Config {
	cfg := stress.DefaultConfig()
	cfg.Trials = 12
	cfg.Size = 20
	cfg.Adds = 30
	cfg.Swaps = 30
	cfg.Subtracts = 30
	cfg.Workers = 3

	return cfg
}

// TestDefaultConfig pins the reference parameters.
func TestDefaultConfig(t *testing.T) {
	cfg := stress.DefaultConfig()
	assert.Equal(t, 200, cfg.Trials)
	assert.Equal(t, 100, cfg.Size)
	assert.Equal(t, 100, cfg.Adds)
	assert.Equal(t, 100, cfg.Swaps)
	assert.Equal(t, 100, cfg.Subtracts)
	assert.Equal(t, 42.0, cfg.Corner)
	assert.Equal(t, matrix.DefaultEpsilon, cfg.Tolerance)
	require.NoError(t, cfg.Validate())
}

// TestConfigValidate rejects unusable parameters.
func TestConfigValidate(t *testing.T) {
	mutate := map[string]func(*stress.Config){
		"no trials":     func(c *stress.Config) { c.Trials = 0 },
		"size one":      func(c *stress.Config) { c.Size = 1 },
		"negative adds": func(c *stress.Config) { c.Adds = -1 },
		"negative tol":  func(c *stress.Config) { c.Tolerance = -1e-9 },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			cfg := stress.DefaultConfig()
			fn(&cfg)
			require.ErrorIs(t, cfg.Validate(), stress.ErrInvalidConfig)
			_, err := stress.New(cfg)
			require.ErrorIs(t, err, stress.ErrInvalidConfig)
		})
	}
}

// TestRunAllPass runs a reduced batch and expects every trial to hold.
func TestRunAllPass(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r, err := stress.New(smallConfig(), stress.WithLogger(logger))
	require.NoError(t, err)

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, rep.Err())
	require.Len(t, rep.Trials, 12)
	require.Equal(t, 12, rep.Passed)
	require.Zero(t, rep.Failed)

	for i, tr := range rep.Trials {
		require.Equal(t, i, tr.Index)
		require.Equal(t, 42.0, tr.Expected, "30 swaps keep the sign")
		require.InDelta(t, tr.Expected, tr.Reference, 1e-6)
	}
	require.Contains(t, logs.String(), `"msg":"stress run finished"`)
}

// TestRunOddSwapsFlipSign checks the expected value follows the swap parity.
func TestRunOddSwapsFlipSign(t *testing.T) {
	cfg := smallConfig()
	cfg.Swaps = 7
	r, err := stress.New(cfg, stress.WithReference(false))
	require.NoError(t, err)

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, rep.Err())
	for _, tr := range rep.Trials {
		require.Equal(t, -42.0, tr.Expected)
		require.InDelta(t, -42.0, tr.Det, matrix.DefaultEpsilon)
	}
}

// TestRunDeterministic verifies results depend only on the seed.
func TestRunDeterministic(t *testing.T) {
	run := func(workers int) []float64 {
		cfg := smallConfig()
		cfg.Workers = workers
		r, err := stress.New(cfg)
		require.NoError(t, err)
		rep, err := r.Run(context.Background())
		require.NoError(t, err)
		out := make([]float64, len(rep.Trials))
		for i, tr := range rep.Trials {
			out[i] = tr.Det
		}
		return out
	}
	require.Equal(t, run(1), run(4))
}

// TestRunFailureDump demands exact results on a non-representable corner so
// rounding shows up as failures, then checks the dump layout.
func TestRunFailureDump(t *testing.T) {
	cfg := smallConfig()
	cfg.Trials = 2
	cfg.Size = 3
	cfg.Corner = 1.0 / 3.0
	cfg.Tolerance = 0
	cfg.Adds, cfg.Swaps, cfg.Subtracts = 40, 2, 40

	var dump bytes.Buffer
	r, err := stress.New(cfg, stress.WithFailureLog(&dump))
	require.NoError(t, err)
	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	if rep.Failed == 0 {
		t.Skip("mixing happened to be exact for every trial")
	}
	require.ErrorIs(t, rep.Err(), stress.ErrInvariantBroken)
	out := dump.String()
	require.Contains(t, out, "FAILED\nINPUT:")
	require.Contains(t, out, "AFTER MIXING:")
	require.Contains(t, out, "OUTPUT: ")
	require.Equal(t, rep.Failed, strings.Count(out, "TEST #"))
}

// TestRunCancelled returns the partial report and the context error.
func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := stress.New(smallConfig())
	require.NoError(t, err)
	rep, err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	require.LessOrEqual(t, len(rep.Trials), 12)
}

// TestMix counts realized operations and keeps the matrix square.
func TestMix(t *testing.T) {
	m, err := matrix.New(4, 4, stress.UpperTriangular(4, 5))
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(3))

	applied := stress.Mix(m, rng, 10, 5, 10)
	require.LessOrEqual(t, applied, 20)

	det, err := m.Determinant()
	require.NoError(t, err)
	require.InDelta(t, -5.0, det, matrix.DefaultEpsilon, "5 swaps flip the sign")
}

// TestUpperTriangular checks the fixture layout.
func TestUpperTriangular(t *testing.T) {
	require.Equal(t, []float64{7, 1, 1, 0, 1, 1, 0, 0, 1}, stress.UpperTriangular(3, 7))
	require.Empty(t, stress.UpperTriangular(0, 7))
}

// TestPlotResiduals renders a small report to SVG.
func TestPlotResiduals(t *testing.T) {
	r, err := stress.New(smallConfig())
	require.NoError(t, err)
	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "residuals.svg")
	require.NoError(t, stress.PlotResiduals(rep, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())

	require.ErrorIs(t, stress.PlotResiduals(&stress.Report{}, path), stress.ErrEmptyReport)
}
