// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/katalvlaran/lvdet/config"
)

// newLogger builds the slog logger described by level ("debug".."error")
// and format ("text"|"json"), writing to w.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case config.LogJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case config.LogText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q: %w", format, config.ErrInvalidConfig)
	}
}
