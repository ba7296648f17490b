// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Return plain sentinel errors (no wrapping) so call sites can wrap uniformly.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures m is non-nil and still owns its storage.
//
// Returns ErrNilMatrix if m == nil, ErrReleased after Release/Move.
// Complexity: O(1).
func ValidateNotNil[T Number](m *Dense[T]) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if m.buf == nil {
		return validatorErrorf("ValidateNotNil", ErrReleased)
	}

	return nil
}

// ValidateSquare checks that m is square (Rows == Cols).
//
// Errors: ErrNilMatrix / ErrReleased first, then ErrNonSquare.
// Complexity: O(1).
func ValidateSquare[T Number](m *Dense[T]) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.r != m.c {
		return validatorErrorf(fmt.Sprintf("ValidateSquare(%dx%d)", m.r, m.c), ErrNonSquare)
	}

	return nil
}

// validateShape rejects non-positive dimensions.
func validateShape(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return ErrInvalidDimensions
	}

	return nil
}

// validateFinite scans vals and returns the first non-finite position.
func validateFinite[T Number](vals []T) (int, error) {
	for i, v := range vals {
		if isNonFinite(v) {
			return i, ErrNaNInf
		}
	}

	return 0, nil
}

// validPair is the shared guard of every elementary operation:
// both indices inside [0, n) and distinct.
func validPair(i1, i2, n int) bool {
	return i1 >= 0 && i2 >= 0 && i1 < n && i2 < n && i1 != i2
}
