// SPDX-License-Identifier: MIT

// Package matrix - determinant by Gaussian elimination with full pivoting.
//
// Purpose:
//   - Reduce a private clone to upper-triangular form and return the signed
//     product of its diagonal. The receiver is never mutated.
//
// Algorithm (n = Rows() = Cols()):
//   - Step k = 0..n-2:
//     1) pivot (pr, pc) = position of the largest |x| in rows ≥ k, cols ≥ k
//     (first strict maximum in i→j scan order, starting from (k, k));
//     2) SwapRows(k, pr) and SwapColumns(k, pc); every realized swap flips sign;
//     3) for each r > k with cell(r,k) not ≈ 0: row r -= (cell(r,k)/cell(k,k)) · row k
//     over columns k..n-1;
//     4) det = cell(0,0) at k==0, det *= cell(k,k) afterwards.
//   - After the loop det *= cell(n-1, n-1); |det| < eps snaps to exactly 0.
//
// Numeric notes:
//   - Floating-point kinds are eliminated in their own type.
//   - Integer kinds are lifted to float64 for elimination (multipliers are
//     fractional in general) and the result is rounded back to T. A rounded
//     result that T cannot hold is reported as ErrOverflow.
//   - No early exit on a near-zero pivot; only the final snap decides zero.
//
// Complexity:
//   - Time O(n³), Space O(n²) for the working copy.

package matrix

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvdet/storage"
)

// opDeterminant tags errors returned by Determinant.
const opDeterminant = "Determinant"

// matrixErrorf wraps err as "<tag>: <err>".
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Determinant returns det(m).
// MAIN DESCRIPTION:
//   - Fully pivoted elimination on a deep copy; see the file header for the steps.
//
// Errors:
//   - ErrNilMatrix / ErrReleased for unusable receivers.
//   - ErrNonSquare when Rows() != Cols().
//   - ErrOverflow when an integer kind cannot represent the rounded result.
//
// Behavior highlights:
//   - n==1 returns the single cell as is.
//   - Results within Epsilon() of zero are returned as exactly 0 (no sign noise).
//   - Invariant under AddRows/SubtractRows/AddColumns/SubtractColumns; flips sign
//     under one realized SwapRows/SwapColumns.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func (m *Dense[T]) Determinant() (T, error) {
	var zero T
	if err := ValidateSquare(m); err != nil {
		return zero, matrixErrorf(opDeterminant, err)
	}
	if m.r == 1 {
		return m.row(0)[0], nil
	}
	if IsIntegral[T]() {
		w, err := lift[T, float64](m)
		if err != nil {
			return zero, matrixErrorf(opDeterminant, err)
		}
		det := math.Round(pivotedDeterminant(w, m.eps))
		if v := T(det); float64(v) == det {
			return v, nil
		}

		return zero, matrixErrorf(opDeterminant, fmt.Errorf("%g does not fit %T: %w", det, zero, ErrOverflow))
	}

	return pivotedDeterminant(m.Clone(), m.eps), nil
}

// pivotedDeterminant runs the elimination in place on w (which it owns) and
// releases w before returning.
func pivotedDeterminant[T Number](w *Dense[T], eps float64) T {
	defer w.Release()

	n := w.r
	sign := 1
	var det T
	for k := 0; k < n-1; k++ {
		pr, pc := w.maxElementOfSubmatrix(k)
		if w.SwapRows(k, pr) {
			sign = -sign
		}
		if w.SwapColumns(k, pc) {
			sign = -sign
		}
		w.eliminateBelow(k, eps)

		if k == 0 {
			det = w.row(k)[k]
		} else {
			det *= w.row(k)[k]
		}
	}
	det *= w.row(n - 1)[n-1]

	if isZeroTol(det, eps) {
		return 0
	}
	if sign < 0 {
		return -det
	}

	return det
}

// maxElementOfSubmatrix locates the largest |cell| among rows ≥ k and cols ≥ k.
// Ties keep the earliest position in row-major scan order.
// Complexity: O((n-k)²).
func (m *Dense[T]) maxElementOfSubmatrix(k int) (pr, pc int) {
	pr, pc = k, k
	best := abs(m.row(k)[k])
	for i := k; i < m.r; i++ {
		row := m.row(i)
		for j := k; j < m.c; j++ {
			if a := abs(row[j]); a > best {
				best, pr, pc = a, i, j
			}
		}
	}

	return pr, pc
}

// eliminateBelow zeroes column k under the pivot cell(k,k).
// Rows whose cell(r,k) is already ≈ 0 are skipped, so an all-≈0 column never
// divides by the pivot. Returns false when k is out of range.
// Complexity: O((n-k)²).
func (m *Dense[T]) eliminateBelow(k int, eps float64) bool {
	if k < 0 || k >= m.r || k >= m.c {
		return false
	}
	pivot := m.row(k)
	for r := k + 1; r < m.r; r++ {
		row := m.row(r)
		if isZeroTol(row[k], eps) {
			continue
		}
		coeff := row[k] / pivot[k]
		for j := k; j < m.c; j++ {
			row[j] -= pivot[j] * coeff
		}
	}

	return true
}

// lift copies m into a Dense[U] with the same shape, permutation and tolerance.
// The copy is finite-policy free: values were already validated on the way in.
//
// Errors:
//   - ErrCapacityExceeded (wrapped) if the copy outgrows the source capacity,
//     which means the source storage broke its own invariant.
//
// Complexity: O(r*c).
func lift[T, U Number](m *Dense[T]) (*Dense[U], error) {
	buf, err := storage.New[U](m.buf.Cap())
	if err != nil {
		return nil, err
	}
	for _, v := range m.buf.All() {
		if err = buf.Push(U(v)); err != nil {
			buf.Release()
			return nil, err
		}
	}

	return &Dense[U]{
		r:      m.r,
		c:      m.c,
		buf:    buf,
		rowIdx: m.rowIdx.Clone(),
		eps:    m.eps,
	}, nil
}
