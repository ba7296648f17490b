// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major, permuted rows) & safe accessors.
//
// Purpose:
//   - Keep all r*c elements in one owned storage.Storage[T], logically row-major.
//   - Keep a second storage of r row indices (a permutation of 0..r-1, identity at
//     creation) so that logical row i lives at physical row rowIdx[i].
//   - Guarantee safety at the public surface: At/Set/Row return errors instead of panicking.
//
// Index formula:
//   - (i, j) → buf[rowIdx[i]*c + j].
//
// Complexity quicksheet:
//   - New/NewFilled: O(r*c); At/Set/Row: O(1); Clone: O(r*c); Move: O(1); Release: O(r*c).

package matrix

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lvdet/storage"
)

// ---------- error context tags ----------

const (
	ctxNew    = "New"       // ctor tag
	ctxFilled = "NewFilled" // ctor tag
	ctxAt     = "At"        // method tag used in error wrappers
	ctxSet    = "Set"       // method tag used in error wrappers
	ctxRow    = "Row"       // method tag used in error wrappers
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a generic dense matrix with a row permutation layer.
//   - r,c hold dimensions; both are fixed for the lifetime of the value.
//   - buf owns exactly r*c elements; rowIdx owns exactly r row indices.
//   - buf==nil marks a released or moved-from matrix (r==c==0).
//
// A Dense must not be copied by value; use Clone for a deep copy and Move to
// hand the contents to a new owner.
type Dense[T Number] struct {
	r, c   int
	buf    *storage.Storage[T]   // physical row-major cells
	rowIdx *storage.Storage[int] // logical row → physical row

	eps            float64 // tolerance for zero tests (Determinant)
	validateNaNInf bool    // numeric guard: reject NaN/Inf on construction and Set
}

// Compile-time assertion for fmt.Stringer conformance.
var _ fmt.Stringer = (*Dense[float64])(nil)

// New creates a rows×cols matrix from values in row-major order.
// MAIN DESCRIPTION:
//   - Public constructor from a flat value sequence; extra trailing values are ignored.
//
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: require len(values) ≥ rows*cols; else ErrInsufficientData.
//   - Stage 3: enforce the numeric policy over the consumed prefix.
//   - Stage 4: push the prefix into a fresh storage and build the identity permutation.
//
// Errors:
//   - ErrInvalidDimensions, ErrInsufficientData, ErrNaNInf (all wrapped with context).
//
// Behavior highlights:
//   - No partially built matrix is ever returned; on failure the storage is released.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func New[T Number](rows, cols int, values []T, opts ...Option) (*Dense[T], error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, denseErrorf(ctxNew, rows, cols, err)
	}
	n := rows * cols
	if len(values) < n {
		return nil, fmt.Errorf("Dense.%s(%d,%d): got %d values, need %d: %w",
			ctxNew, rows, cols, len(values), n, ErrInsufficientData)
	}
	o := gatherOptions(opts...)
	if o.validateNaNInf {
		if at, err := validateFinite(values[:n]); err != nil {
			return nil, denseErrorf(ctxNew, at/cols, at%cols, err)
		}
	}

	m, err := allocate[T](rows, cols, o)
	if err != nil {
		return nil, denseErrorf(ctxNew, rows, cols, err)
	}
	for _, v := range values[:n] {
		if err = m.buf.Push(v); err != nil {
			m.Release()
			return nil, denseErrorf(ctxNew, rows, cols, err)
		}
	}

	return m, nil
}

// NewFilled creates a rows×cols matrix with every cell set to fill.
// Errors: ErrInvalidDimensions; ErrNaNInf when fill is not finite under the default policy.
// Complexity: O(r*c).
func NewFilled[T Number](rows, cols int, fill T, opts ...Option) (*Dense[T], error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, denseErrorf(ctxFilled, rows, cols, err)
	}
	o := gatherOptions(opts...)
	if o.validateNaNInf && isNonFinite(fill) {
		return nil, denseErrorf(ctxFilled, rows, cols, ErrNaNInf)
	}

	m, err := allocate[T](rows, cols, o)
	if err != nil {
		return nil, denseErrorf(ctxFilled, rows, cols, err)
	}
	for !m.buf.Full() {
		if err = m.buf.Push(fill); err != nil {
			m.Release()
			return nil, denseErrorf(ctxFilled, rows, cols, err)
		}
	}

	return m, nil
}

// allocate reserves the cell storage (empty) and fills the identity permutation.
func allocate[T Number](rows, cols int, o Options) (*Dense[T], error) {
	buf, err := storage.New[T](rows * cols)
	if err != nil {
		return nil, err
	}
	idx, err := identityPermutation(rows)
	if err != nil {
		buf.Release()
		return nil, err
	}

	return &Dense[T]{
		r:              rows,
		c:              cols,
		buf:            buf,
		rowIdx:         idx,
		eps:            o.eps,
		validateNaNInf: o.validateNaNInf,
	}, nil
}

// identityPermutation builds the row index storage [0, 1, …, n-1].
func identityPermutation(n int) (*storage.Storage[int], error) {
	idx, err := storage.New[int](n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err = idx.Push(i); err != nil {
			idx.Release()
			return nil, err
		}
	}

	return idx, nil
}

// Rows returns the row count (0 after Release/Move). Complexity: O(1).
func (m *Dense[T]) Rows() int { return m.r }

// Cols returns the column count (0 after Release/Move). Complexity: O(1).
func (m *Dense[T]) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
func (m *Dense[T]) Shape() (rows, cols int) { return m.r, m.c }

// Epsilon returns the tolerance captured at construction.
func (m *Dense[T]) Epsilon() float64 { return m.eps }

// Released reports whether the matrix gave up its storage (Release or Move).
func (m *Dense[T]) Released() bool { return m.buf == nil }

// physical returns the physical row backing logical row i. No bounds check.
func (m *Dense[T]) physical(i int) int { return m.rowIdx.At(i) }

// row returns a write-through window on logical row i. No bounds check.
func (m *Dense[T]) row(i int) []T {
	off := m.physical(i) * m.c

	return m.buf.Slice(off, off+m.c)
}

// indexOf bounds-checks (row, col) and returns the physical offset.
// Returns ErrReleased for a released matrix and ErrOutOfRange for bad indices.
// Complexity: O(1).
func (m *Dense[T]) indexOf(row, col int) (int, error) {
	if m.buf == nil {
		return 0, ErrReleased
	}
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	return m.physical(row)*m.c + col, nil
}

// At returns the value at logical (row, col) or ErrOutOfRange.
// Complexity: O(1).
func (m *Dense[T]) At(row, col int) (T, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		var zero T
		return zero, denseErrorf(ctxAt, row, col, err)
	}

	return m.buf.At(off), nil
}

// Set stores v at logical (row, col).
// Errors: ErrOutOfRange for bounds; ErrNaNInf under the finite-only policy.
// Complexity: O(1).
func (m *Dense[T]) Set(row, col int, v T) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if m.validateNaNInf && isNonFinite(v) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	*m.buf.Ref(off) = v

	return nil
}

// Row returns logical row i as a window onto the storage (no copy).
// Writes through the window change the matrix; the window is invalidated by
// Release/Move and follows the physical row, not later swaps.
// Complexity: O(1).
func (m *Dense[T]) Row(i int) ([]T, error) {
	if _, err := m.indexOf(i, 0); err != nil {
		return nil, denseErrorf(ctxRow, i, 0, err)
	}

	return m.row(i), nil
}

// Values returns a logical row-major snapshot (rows taken in permuted order).
// Complexity: O(r*c).
func (m *Dense[T]) Values() []T {
	out := make([]T, 0, m.r*m.c)
	for i := 0; i < m.r; i++ {
		out = append(out, m.row(i)...)
	}

	return out
}

// Clone returns a deep copy: new cell storage, new permutation, same policy.
// The copy keeps the receiver's permutation as is; logical contents match.
// Complexity: O(r*c).
func (m *Dense[T]) Clone() *Dense[T] {
	out := &Dense[T]{
		r:              m.r,
		c:              m.c,
		eps:            m.eps,
		validateNaNInf: m.validateNaNInf,
	}
	if m.buf != nil {
		out.buf = m.buf.Clone()
		out.rowIdx = m.rowIdx.Clone()
	}

	return out
}

// Move transfers storage, permutation and policy to a new *Dense.
// The receiver becomes an empty 0×0 matrix: accessors return ErrReleased and
// elementary operations report false.
// Complexity: O(1).
func (m *Dense[T]) Move() *Dense[T] {
	out := &Dense[T]{
		r:              m.r,
		c:              m.c,
		eps:            m.eps,
		validateNaNInf: m.validateNaNInf,
	}
	if m.buf != nil {
		out.buf = m.buf.Move()
		out.rowIdx = m.rowIdx.Move()
	}
	m.r, m.c, m.buf, m.rowIdx = 0, 0, nil, nil

	return out
}

// Release drops the cell storage and the permutation. Idempotent.
func (m *Dense[T]) Release() {
	if m.buf != nil {
		m.buf.Release()
		m.rowIdx.Release()
	}
	m.r, m.c, m.buf, m.rowIdx = 0, 0, nil, nil
}

// String implements fmt.Stringer: one "[a, b, c]" line per logical row.
// Complexity: O(r*c).
func (m *Dense[T]) String() string {
	if m == nil || m.buf == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString(_fmtRowOpen)
		for j, v := range m.row(i) {
			if j > 0 {
				sb.WriteString(_fmtSep)
			}
			fmt.Fprintf(&sb, "%v", v)
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}
