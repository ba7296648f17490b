// Package matrix provides a generic dense matrix with elementary row/column
// operations and a fully pivoted determinant.
//
// The matrix package provides:
//
//   - Dense[T]: row-major elements held in one owned storage.Storage[T], plus a
//     row-index permutation so that logical row swaps are O(1) and move no data.
//   - Elementary operations: SwapRows/AddRows/SubtractRows and the column
//     analogues SwapColumns/AddColumns/SubtractColumns. Columns have no
//     permutation layer; column operations move data physically.
//   - Determinant: Gaussian elimination on a private clone with full pivoting
//     (largest |x| in the trailing submatrix), a sign flip per realized swap and
//     the signed product of the resulting diagonal. The receiver is never mutated.
//
// Numeric policy is per instance and set by functional options (WithEpsilon,
// WithValidateNaNInf); the default tolerance is DefaultEpsilon (1e-9).
//
// A Dense has exactly one owner and is not safe for concurrent mutation;
// callers that share an instance across goroutines must lock around it.
//
// See the examples in this package for usage patterns.
package matrix
