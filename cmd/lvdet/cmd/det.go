// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/katalvlaran/lvdet/config"
	"github.com/katalvlaran/lvdet/matrix"
	"github.com/katalvlaran/lvdet/reader"
	"github.com/spf13/cobra"
)

// defaultPrecision matches the six significant digits of a default C++ stream.
const defaultPrecision = 6

type detFlags struct {
	elemType  string
	eps       float64
	maxDim    int
	precision int
}

func newDetCmd(a *app) *cobra.Command {
	f := &detFlags{}
	c := &cobra.Command{
		Use:   "det",
		Short: "Read a square matrix from stdin and print its determinant",
		Long: `Reads the dimension n followed by n*n whitespace-separated values from
stdin and prints the determinant. Malformed tokens are reported on stderr
("Incorrect input") and the rest of their line is skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDet(cmd, f)
		},
	}

	c.Flags().StringVarP(&f.elemType, "type", "t", "", "element type: float64|int (default from config)")
	c.Flags().Float64Var(&f.eps, "eps", 0, "zero tolerance (default from config)")
	c.Flags().IntVar(&f.maxDim, "max-dim", 0, "largest accepted dimension (default from config)")
	c.Flags().IntVar(&f.precision, "precision", defaultPrecision, "significant digits of a float result (-1: shortest exact)")

	return c
}

func (a *app) runDet(cmd *cobra.Command, f *detFlags) error {
	elemType := a.cfg.Matrix.ElementType
	if cmd.Flags().Changed("type") {
		elemType = f.elemType
	}
	eps := a.cfg.Matrix.Epsilon
	if cmd.Flags().Changed("eps") {
		eps = f.eps
	}
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		return fmt.Errorf("--eps=%v: %w", eps, config.ErrInvalidConfig)
	}
	maxDim := a.cfg.Reader.MaxDimension
	if cmd.Flags().Changed("max-dim") {
		maxDim = f.maxDim
	}

	r := reader.New(cmd.InOrStdin(),
		reader.WithDiagnostics(cmd.ErrOrStderr()),
		reader.WithMaxDimension(maxDim))
	opts := []matrix.Option{matrix.WithEpsilon(eps)}

	switch elemType {
	case config.ElementFloat64:
		det, n, err := determinantOf[float64](r, opts)
		if err != nil {
			return err
		}
		a.log.Debug("determinant computed", slog.Int("n", n), slog.Float64("det", det))
		return printLine(cmd.OutOrStdout(), strconv.FormatFloat(det, 'g', f.precision, 64))
	case config.ElementInt:
		det, n, err := determinantOf[int](r, opts)
		if err != nil {
			return err
		}
		a.log.Debug("determinant computed", slog.Int("n", n), slog.Int("det", det))
		return printLine(cmd.OutOrStdout(), strconv.Itoa(det))
	default:
		return fmt.Errorf("--type=%q: %w", elemType, config.ErrInvalidConfig)
	}
}

// determinantOf reads one square matrix of kind T from r and returns its
// determinant together with the dimension.
func determinantOf[T matrix.Number](r *reader.Reader, opts []matrix.Option) (T, int, error) {
	var zero T
	in, err := reader.ReadSquare[T](r)
	if err != nil {
		return zero, 0, err
	}
	m, err := in.Matrix(opts...)
	if err != nil {
		return zero, 0, err
	}
	defer m.Release()

	det, err := m.Determinant()
	if err != nil {
		return zero, 0, err
	}

	return det, in.Dimension, nil
}

func printLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
