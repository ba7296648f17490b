// SPDX-License-Identifier: MIT
// Package matrix_test: options / numeric policy coverage.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvdet/matrix"
	"github.com/stretchr/testify/require"
)

// TestWithEpsilonPanics verifies invalid tolerances are rejected at option construction.
func TestWithEpsilonPanics(t *testing.T) {
	for _, eps := range []float64{-1e-9, math.NaN(), math.Inf(1)} {
		require.PanicsWithValue(t, matrix.PanicEpsilonInvalid_TestOnly, func() {
			_ = matrix.WithEpsilon(eps)
		})
	}
	require.NotPanics(t, func() { _ = matrix.WithEpsilon(0) })
}

// TestDefaultsApplied checks the documented default policy.
func TestDefaultsApplied(t *testing.T) {
	m := MustFilled(t, 2, 2, 1.0)
	require.Equal(t, matrix.DefaultEpsilon, m.Epsilon())
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
}

// TestLastOptionWins verifies options apply in order.
func TestLastOptionWins(t *testing.T) {
	m := MustDense(t, 1, 1, []float64{1},
		matrix.WithNoValidateNaNInf(),
		matrix.WithEpsilon(1e-3),
		matrix.WithValidateNaNInf(),
		matrix.WithEpsilon(1e-4),
	)
	require.Equal(t, 1e-4, m.Epsilon())
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
}

// TestPolicySurvivesMove verifies Move carries the policy to the new owner.
func TestPolicySurvivesMove(t *testing.T) {
	m := MustDense(t, 1, 1, []float64{1}, matrix.WithNoValidateNaNInf(), matrix.WithEpsilon(0.5))
	dst := m.Move()
	require.Equal(t, 0.5, dst.Epsilon())
	require.NoError(t, dst.Set(0, 0, math.NaN()))
}

// TestIntegerIgnoresFinitePolicy checks integer kinds never trip ErrNaNInf.
func TestIntegerIgnoresFinitePolicy(t *testing.T) {
	m := MustDense(t, 1, 2, []int16{math.MaxInt16, math.MinInt16}, matrix.WithValidateNaNInf())
	require.NoError(t, m.Set(0, 0, 0))
}
