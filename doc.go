// Package lvdet computes determinants of dense square matrices with Gaussian
// elimination and full pivoting, and ships the tooling to check the result.
//
// What is inside?
//
//	storage  Storage[T], a fixed-capacity owning buffer with push-only
//	         construction and a release hook per constructed element
//	matrix   Dense[T], a row-permuted dense matrix with elementary row/column
//	         operations and Determinant under a per-instance tolerance
//	reader   dimension + values parser with line-level error recovery
//	stress   randomized invariance generator, gonum cross-check, residual plots
//	config   TOML/YAML settings for the command line
//	cmd      the lvdet CLI (det, stress, version)
//
// Quick example:
//
//	m, _ := matrix.New(3, 3, []int{1, 2, 3, 4, 5, 6, 7, 8, 0})
//	det, _ := m.Determinant() // 27
//
// Element kinds are signed integers and floats. Integer matrices are
// eliminated in float64 and the result is rounded back to the element kind.
//
//	go get github.com/katalvlaran/lvdet
package lvdet
