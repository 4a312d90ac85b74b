// Package shell provides the subprocess executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"

	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Run executes the command and captures its combined output.
// The process inherits the environment of the build.
func (e *Executor) Run(ctx context.Context, c domain.Command) (domain.CommandResult, error) {
	if c.Program == "" {
		return domain.CommandResult{}, zerr.Wrap(domain.ErrCommandFailed, "empty command")
	}

	cmd := exec.CommandContext(ctx, c.Program, c.Args...) //nolint:gosec // toolchain command built by rybuild
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}

	out := &syncBuffer{}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	result := domain.CommandResult{Output: out.Bytes()}
	if err == nil {
		return result, nil
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	failure := zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "exit_code", result.ExitCode)
	return result, zerr.With(failure, "program", c.Program)
}

// syncBuffer serializes writes from the stdout and stderr copy goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
