package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/lvdet/config"
	"github.com/katalvlaran/lvdet/reader"
	"github.com/katalvlaran/lvdet/stress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command tree in isolation from any user configuration.
func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

func TestDetFloat(t *testing.T) {
	out, _, err := run(t, "3\n1.5 -0.1 2.0\n4.21 0.0 0.25\n10 1.0 -3.0\n", "det")
	require.NoError(t, err)
	assert.Equal(t, "6.532\n", out)
}

func TestDetInt(t *testing.T) {
	out, _, err := run(t, "3 1 2 3 4 5 6 7 8 0", "det", "--type", "int")
	require.NoError(t, err)
	assert.Equal(t, "27\n", out)
}

func TestDetSingular(t *testing.T) {
	out, _, err := run(t, "3 1 2 3 4 5 6 7 8 9", "det")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestDetRecoveryDiagnostics(t *testing.T) {
	out, errOut, err := run(t, "0\nx\n2 1 0 0 1", "det")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
	assert.Contains(t, errOut, reader.MsgSizeNotPositive)
	assert.Contains(t, errOut, reader.MsgIncorrectInput)
}

func TestDetErrors(t *testing.T) {
	_, _, err := run(t, "", "det")
	require.ErrorIs(t, err, reader.ErrEmptyInput)

	_, _, err = run(t, "2 1 2 3", "det")
	require.ErrorIs(t, err, reader.ErrUnexpectedEOF)

	_, _, err = run(t, "1 1", "det", "--type", "complex")
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, _, err = run(t, "1 1", "det", "--eps", "-1")
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, _, err = run(t, "9", "det", "--max-dim", "4")
	require.ErrorIs(t, err, reader.ErrDimensionTooLarge)
}

func TestDetEpsilonFlag(t *testing.T) {
	out, _, err := run(t, "2 1e-4 0 0 1e-4", "det", "--eps", "1e-6")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestDetConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lvdet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matrix:\n  element_type: int\n"), 0o600))

	out, _, err := run(t, "2 2 1 1 2", "det", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestStressSmall(t *testing.T) {
	plot := filepath.Join(t.TempDir(), "residuals.png")
	out, errOut, err := run(t, "", "stress",
		"--trials", "2", "--size", "100", "--workers", "2", "--plot", plot, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "passed 2/2, failed 0")
	assert.Contains(t, errOut, "stress run finished")

	info, err := os.Stat(plot)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

// Small matrices amplify rounding under the default 100/100/100 mix, so the
// operation counts and tolerance are scaled with the size.
func TestStressOperationFlags(t *testing.T) {
	out, _, err := run(t, "", "stress",
		"--trials", "3", "--size", "12", "--adds", "10", "--swaps", "3", "--subtracts", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "passed 3/3, failed 0")

	out, _, err = run(t, "", "stress",
		"--trials", "3", "--size", "12", "--swaps", "1", "--corner", "-7", "--tolerance", "1e-3")
	require.NoError(t, err)
	assert.Contains(t, out, "passed 3/3, failed 0")

	_, _, err = run(t, "", "stress", "--adds", "-1")
	require.ErrorIs(t, err, stress.ErrInvalidConfig)

	_, _, err = run(t, "", "stress", "--size", "12", "--tolerance", "-1")
	require.ErrorIs(t, err, stress.ErrInvalidConfig)
}

func TestStressInvalidSize(t *testing.T) {
	_, _, err := run(t, "", "stress", "--size", "1")
	require.ErrorIs(t, err, stress.ErrInvalidConfig)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version", "--config", "/nonexistent.toml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "lvdet v"+Version+"\n"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "warn", config.LogJSON)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(&buf, "info", "xml")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	_, err = newLogger(&buf, "chatty", config.LogText)
	require.Error(t, err)
}
