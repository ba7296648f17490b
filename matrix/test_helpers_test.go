// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures for constructors and kernels.
//   • Keep fixtures finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvdet/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// detTol is the absolute tolerance used by determinant assertions.
const detTol = 1e-9

// MustDense builds an r×c *Dense from row-major values or fails the test.
func MustDense[T matrix.Number](tb testing.TB, r, c int, vals []T, opts ...matrix.Option) *matrix.Dense[T] {
	tb.Helper()
	m, err := matrix.New(r, c, vals, opts...)
	require.NoError(tb, err)

	return m
}

// MustFilled builds an r×c *Dense with every cell = v or fails the test.
func MustFilled[T matrix.Number](tb testing.TB, r, c int, v T) *matrix.Dense[T] {
	tb.Helper()
	m, err := matrix.NewFilled(r, c, v)
	require.NoError(tb, err)

	return m
}

// MustDet computes the determinant or fails the test.
func MustDet[T matrix.Number](tb testing.TB, m *matrix.Dense[T]) T {
	tb.Helper()
	d, err := m.Determinant()
	require.NoError(tb, err)

	return d
}

// randomValues returns n values uniform in [-1, 1) from a seeded source.
func randomValues(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = 2*rng.Float64() - 1
	}

	return out
}

// upperTriangular returns the n×n row-major fixture with ones on and above the
// diagonal, zeros below, and corner in cell (0,0). Its determinant is corner.
func upperTriangular(n int, corner float64) []float64 {
	vals := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			vals[i*n+j] = 1
		}
	}
	vals[0] = corner

	return vals
}

// gonumDet is the independent reference determinant (LU in gonum/mat).
func gonumDet[T matrix.Number](m *matrix.Dense[T]) float64 {
	vals := m.Values()
	data := make([]float64, len(vals))
	for i, v := range vals {
		data[i] = float64(v)
	}

	return mat.Det(mat.NewDense(m.Rows(), m.Cols(), data))
}
