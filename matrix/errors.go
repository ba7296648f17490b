// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All constructors and accessors return these sentinels (optionally wrapped
// with call-site context via %w); tests match them with errors.Is.
// Elementary row/column operations never return errors: they report a
// rejected request through their boolean result and leave the matrix untouched.

package matrix

import (
	"errors"

	"github.com/katalvlaran/lvdet/storage"
)

// ERROR PRIORITY (enforced in tests):
// nil/released -> shape -> data length -> NaN/Inf -> index.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrInsufficientData is returned by New when fewer than rows*cols values are supplied.
	ErrInsufficientData = errors.New("matrix: not enough data to construct matrix")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set/Row) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value under the finite-only numeric policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil *Dense was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrReleased indicates use of a matrix after Release or after its contents were moved out.
	ErrReleased = errors.New("matrix: matrix released or moved")

	// ErrOverflow signals an integer determinant outside the range of the element type.
	ErrOverflow = errors.New("matrix: integer overflow")

	// ErrCapacityExceeded is the storage overflow sentinel surfaced by constructors.
	// It marks a broken internal invariant, not bad input.
	ErrCapacityExceeded = storage.ErrCapacityExceeded
)

// ErrIndexOutOfBounds historically named the same condition as ErrOutOfRange.
var ErrIndexOutOfBounds = ErrOutOfRange // Deprecated: use ErrOutOfRange.
