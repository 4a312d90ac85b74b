package ports

import (
	"context"

	"go.trai.ch/rybuild/internal/core/domain"
)

// Toolchain compiles translation units and links artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Toolchain interface {
	// Compile compiles one source file into req.Object.
	Compile(ctx context.Context, req domain.CompileRequest) (domain.CommandResult, error)
	// Link links objects into req.Output.
	Link(ctx context.Context, req domain.LinkRequest) (domain.CommandResult, error)
}

// Generator runs the reflection generator for one header.
type Generator interface {
	// Generate writes the generated header for req.Header to req.Output.
	Generate(ctx context.Context, req domain.GenerateRequest) (domain.CommandResult, error)
}
