// Package generator runs the external reflection code generator.
package generator

import (
	"context"

	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Generator = (*Generator)(nil)

// Generator implements ports.Generator over a command executor.
type Generator struct {
	executor ports.Executor
}

// New creates a new Generator.
func New(executor ports.Executor) *Generator {
	return &Generator{executor: executor}
}

// Generate runs the generator program for one header.
func (g *Generator) Generate(ctx context.Context, req domain.GenerateRequest) (domain.CommandResult, error) {
	if req.Program == "" {
		return domain.CommandResult{}, zerr.Wrap(domain.ErrCodeGenFailed, "no generator program")
	}
	return g.executor.Run(ctx, domain.Command{
		Program: req.Program,
		Args:    Args(req),
	})
}

// Args returns the generator arguments: the source, the header, the output path,
// then include directories and definitions.
func Args(req domain.GenerateRequest) []string {
	args := make([]string, 0, 3+len(req.IncludeDirs)+len(req.Defines))
	args = append(args, req.Source, req.Header, req.Output)
	for _, dir := range req.IncludeDirs {
		args = append(args, "-Include="+dir)
	}
	for _, d := range req.Defines {
		args = append(args, "-Define="+d)
	}
	return args
}
