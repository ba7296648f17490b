// SPDX-License-Identifier: MIT

// Package cmd wires the lvdet subcommands.
package cmd

import (
	"context"
	"log/slog"

	"github.com/katalvlaran/lvdet/config"
	"github.com/spf13/cobra"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *slog.Logger
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "lvdet",
		Short: "Determinants of dense square matrices",
		Long: `lvdet computes the determinant of a square matrix read from stdin
(dimension n, then n*n values) using Gaussian elimination with full pivoting.

Commands:
  det      - read a matrix from stdin and print its determinant
  stress   - check determinant invariance under random row operations
  version  - print build information`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (.toml/.yaml; default: $"+config.EnvVar+" or ./lvdet.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newDetCmd(a),
		newStressCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads the configuration and the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if a.verbose {
		a.cfg.General.LogLevel = "debug"
	}

	a.log, err = newLogger(cmd.ErrOrStderr(), a.cfg.General.LogLevel, a.cfg.General.LogFormat)
	if err != nil {
		return err
	}
	a.log.Debug("configuration loaded",
		slog.String("file", a.cfgFile),
		slog.String("element_type", a.cfg.Matrix.ElementType),
		slog.Float64("epsilon", a.cfg.Matrix.Epsilon))

	return nil
}
