// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/katalvlaran/lvdet/stress"
	"github.com/spf13/cobra"
)

type stressFlags struct {
	trials     int
	size       int
	adds       int
	swaps      int
	subtracts  int
	corner     float64
	tolerance  float64
	seed       int64
	workers    int
	timeout    time.Duration
	failureLog string
	plotPath   string
	noRef      bool
}

func newStressCmd(a *app) *cobra.Command {
	f := &stressFlags{}
	c := &cobra.Command{
		Use:   "stress",
		Short: "Check determinant invariance under random row operations",
		Long: `Builds upper-triangular matrices with a known determinant, mixes each
with random AddRows, SwapRows and SubtractRows and checks the determinant
against corner*(-1)^swaps. Exits non-zero when any trial fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStress(cmd, f)
		},
	}

	c.Flags().IntVarP(&f.trials, "trials", "n", 0, "number of trials (default from config)")
	c.Flags().IntVar(&f.size, "size", 0, "matrix dimension (default from config)")
	c.Flags().IntVar(&f.adds, "adds", 0, "random AddRows per trial (default from config)")
	c.Flags().IntVar(&f.swaps, "swaps", 0, "realized SwapRows per trial (default from config)")
	c.Flags().IntVar(&f.subtracts, "subtracts", 0, "random SubtractRows per trial (default from config)")
	c.Flags().Float64Var(&f.corner, "corner", 0, "value in cell (0,0), the expected |det| (default from config)")
	c.Flags().Float64Var(&f.tolerance, "tolerance", 0, "largest accepted |det - expected| (default from config)")
	c.Flags().Int64Var(&f.seed, "seed", 0, "PRNG seed (default from config)")
	c.Flags().IntVarP(&f.workers, "workers", "w", 0, "worker goroutines (0: GOMAXPROCS)")
	c.Flags().DurationVar(&f.timeout, "timeout", 0, "abort after this long (0: no deadline)")
	c.Flags().StringVar(&f.failureLog, "failure-log", "", "file receiving failing trials (default: stderr)")
	c.Flags().StringVar(&f.plotPath, "plot", "", "save a residual chart (.png/.svg/.pdf)")
	c.Flags().BoolVar(&f.noRef, "no-reference", false, "skip the gonum cross-check")

	return c
}

func (a *app) runStress(cmd *cobra.Command, f *stressFlags) error {
	params := a.cfg.StressParams()
	flags := cmd.Flags()
	if flags.Changed("trials") {
		params.Trials = f.trials
	}
	if flags.Changed("size") {
		params.Size = f.size
	}
	if flags.Changed("adds") {
		params.Adds = f.adds
	}
	if flags.Changed("swaps") {
		params.Swaps = f.swaps
	}
	if flags.Changed("subtracts") {
		params.Subtracts = f.subtracts
	}
	if flags.Changed("corner") {
		params.Corner = f.corner
	}
	if flags.Changed("tolerance") {
		params.Tolerance = f.tolerance
	}
	if flags.Changed("seed") {
		params.Seed = f.seed
	}
	if flags.Changed("workers") {
		params.Workers = f.workers
	}
	timeout := a.cfg.Stress.Timeout.Duration
	if flags.Changed("timeout") {
		timeout = f.timeout
	}
	failureLog := a.cfg.Stress.FailureLog
	if flags.Changed("failure-log") {
		failureLog = f.failureLog
	}
	plotPath := a.cfg.Stress.PlotPath
	if flags.Changed("plot") {
		plotPath = f.plotPath
	}

	var failures io.Writer = cmd.ErrOrStderr()
	if failureLog != "" {
		fh, err := os.Create(failureLog)
		if err != nil {
			return fmt.Errorf("failure log: %w", err)
		}
		defer fh.Close()
		failures = fh
	}

	runner, err := stress.New(params,
		stress.WithLogger(a.log),
		stress.WithFailureLog(failures),
		stress.WithReference(!f.noRef))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rep, runErr := runner.Run(ctx)
	if rep != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "passed %d/%d, failed %d, max residual %.3g, elapsed %s\n",
			rep.Passed, params.Trials, rep.Failed, rep.MaxResidual(), rep.Duration.Round(time.Millisecond))
		if plotPath != "" && len(rep.Trials) > 0 {
			if err := stress.PlotResiduals(rep, plotPath); err != nil {
				return err
			}
			a.log.Info("residual chart saved", slog.String("path", plotPath))
		}
	}
	if runErr != nil {
		return runErr
	}

	return rep.Err()
}
