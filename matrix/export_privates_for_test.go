// SPDX-License-Identifier: MIT

package matrix

// Test-Bridge (White-Box) for private elimination kernels.
//
// Purpose:
//   - Expose unexported pivot search, elimination step and permutation lookup to
//     matrix_test ONLY (this file is a _test.go file of package matrix).
//
// AI-Hints:
//   - Keep ALL test-only bridges co-located here.

// Panic message exports to avoid "magic strings" in tests.
const PanicEpsilonInvalid_TestOnly = panicEpsilonInvalid

// MaxElementOfSubmatrix_TestOnly forwards to Dense.maxElementOfSubmatrix.
func MaxElementOfSubmatrix_TestOnly[T Number](m *Dense[T], k int) (int, int) {
	return m.maxElementOfSubmatrix(k)
}

// EliminateBelow_TestOnly forwards to Dense.eliminateBelow.
func EliminateBelow_TestOnly[T Number](m *Dense[T], k int, eps float64) bool {
	return m.eliminateBelow(k, eps)
}

// PhysicalRow_TestOnly returns the physical row behind logical row i.
func PhysicalRow_TestOnly[T Number](m *Dense[T], i int) int {
	return m.physical(i)
}

// IsZeroTol_TestOnly forwards to isZeroTol.
func IsZeroTol_TestOnly[T Number](v T, eps float64) bool {
	return isZeroTol(v, eps)
}

// LiftFloat64_TestOnly forwards to lift[T, float64].
func LiftFloat64_TestOnly[T Number](m *Dense[T]) (*Dense[float64], error) {
	return lift[T, float64](m)
}
