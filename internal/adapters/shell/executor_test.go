package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rybuild/internal/adapters/shell"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestExecutor_Run_CapturesOutput(t *testing.T) {
	e := shell.NewExecutor()

	res, err := e.Run(t.Context(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "echo out; echo err >&2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, string(res.Output), "out\n")
	assert.Contains(t, string(res.Output), "err\n")
}

func TestExecutor_Run_WorkingDir(t *testing.T) {
	dir := t.TempDir()

	res, err := shell.NewExecutor().Run(t.Context(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "pwd -P"},
		Dir:     dir,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Output)
}

func TestExecutor_Run_ExitCode(t *testing.T) {
	res, err := shell.NewExecutor().Run(t.Context(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "echo 'a.cpp:1: error: boom'; exit 3"},
	})
	require.Error(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, string(res.Output), "error: boom")
	assert.True(t, res.HasDiagnostics())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
	assert.Equal(t, "sh", zErr.Metadata()["program"])
}

func TestExecutor_Run_MissingProgram(t *testing.T) {
	res, err := shell.NewExecutor().Run(t.Context(), domain.Command{Program: "rybuild-no-such-program"})
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExecutor_Run_EmptyCommand(t *testing.T) {
	_, err := shell.NewExecutor().Run(t.Context(), domain.Command{})
	require.ErrorIs(t, err, domain.ErrCommandFailed)
}

func TestExecutor_Run_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err := shell.NewExecutor().Run(ctx, domain.Command{Program: "sleep", Args: []string{"5"}})
	require.Error(t, err)
	assert.True(t, errors.Is(ctx.Err(), context.DeadlineExceeded))
}
