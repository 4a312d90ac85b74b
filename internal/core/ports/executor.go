// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/rybuild/internal/core/domain"
)

// Executor defines the interface for running subprocesses.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run executes the command and waits for it to complete.
	//
	// The combined output is always returned, also when the command fails.
	// A non-zero exit code is reported as an error carrying exit_code metadata.
	Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error)
}
