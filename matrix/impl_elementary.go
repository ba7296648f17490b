// SPDX-License-Identifier: MIT

// Package matrix - elementary row/column operations.
//
// Contract shared by every operation here:
//   - Both indices must be in range and distinct; otherwise the call is a no-op
//     that returns false. A true result means the matrix changed.
//   - Nothing here returns an error or panics on bad indices.
//
// Asymmetry:
//   - Rows carry a permutation layer, so SwapRows exchanges two indices in O(1).
//   - Columns are physical, so SwapColumns moves r pairs of cells in O(r).

package matrix

// SwapRows exchanges logical rows i1 and i2 by swapping their permutation entries.
// No cell data moves.
// Complexity: O(1).
func (m *Dense[T]) SwapRows(i1, i2 int) bool {
	if m == nil || !validPair(i1, i2, m.r) {
		return false
	}
	a, b := m.rowIdx.Ref(i1), m.rowIdx.Ref(i2)
	*a, *b = *b, *a

	return true
}

// AddRows performs row[i1] += row[i2] over every column.
// Complexity: O(c).
func (m *Dense[T]) AddRows(i1, i2 int) bool {
	if m == nil || !validPair(i1, i2, m.r) {
		return false
	}
	dst, src := m.row(i1), m.row(i2)
	for j := range dst {
		dst[j] += src[j]
	}

	return true
}

// SubtractRows performs row[i1] -= row[i2] over every column.
// Complexity: O(c).
func (m *Dense[T]) SubtractRows(i1, i2 int) bool {
	if m == nil || !validPair(i1, i2, m.r) {
		return false
	}
	dst, src := m.row(i1), m.row(i2)
	for j := range dst {
		dst[j] -= src[j]
	}

	return true
}

// SwapColumns exchanges columns j1 and j2 cell by cell.
// Complexity: O(r).
func (m *Dense[T]) SwapColumns(j1, j2 int) bool {
	if m == nil || !validPair(j1, j2, m.c) {
		return false
	}
	for i := 0; i < m.r; i++ {
		row := m.row(i)
		row[j1], row[j2] = row[j2], row[j1]
	}

	return true
}

// AddColumns performs col[j1] += col[j2] over every row.
// Complexity: O(r).
func (m *Dense[T]) AddColumns(j1, j2 int) bool {
	if m == nil || !validPair(j1, j2, m.c) {
		return false
	}
	for i := 0; i < m.r; i++ {
		row := m.row(i)
		row[j1] += row[j2]
	}

	return true
}

// SubtractColumns performs col[j1] -= col[j2] over every row.
// Complexity: O(r).
func (m *Dense[T]) SubtractColumns(j1, j2 int) bool {
	if m == nil || !validPair(j1, j2, m.c) {
		return false
	}
	for i := 0; i < m.r; i++ {
		row := m.row(i)
		row[j1] -= row[j2]
	}

	return true
}
