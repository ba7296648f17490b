// SPDX-License-Identifier: MIT

// Package matrix: element constraints and small numeric helpers shared by
// the dense kernels. Arithmetic always runs in the element type itself.
package matrix

import "math"

// Signed lists the signed integer kinds accepted as matrix elements.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Float lists the floating-point kinds accepted as matrix elements.
type Float interface {
	~float32 | ~float64
}

// Number is the element constraint of Dense.
// Unsigned kinds are excluded: Sub/Abs on them wrap around.
type Number interface {
	Signed | Float
}

// IsIntegral reports whether T truncates on division (i.e. T is an integer kind).
// Complexity: O(1).
func IsIntegral[T Number]() bool {
	var half T = 1
	half /= 2

	return half == 0
}

// abs returns |v| in the element type.
func abs[T Number](v T) T {
	if v < 0 {
		return -v
	}

	return v
}

// isZeroTol reports v ≈ 0 under the absolute tolerance eps.
// eps==0 degenerates to exact equality, which is also what any eps<1 gives for integers.
func isZeroTol[T Number](v T, eps float64) bool {
	return v == 0 || math.Abs(float64(v)) < eps
}

// isNonFinite reports NaN or ±Inf; always false for integer kinds.
func isNonFinite[T Number](v T) bool {
	f := float64(v)

	return math.IsNaN(f) || math.IsInf(f, 0)
}
