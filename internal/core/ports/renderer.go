package ports

import "go.trai.ch/rybuild/internal/core/domain"

// Renderer presents build progress.
// Implementations serialize their own output; every method may be called from pool workers.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPlan is called once the build order is known.
	OnPlan(modules []string)

	// OnModuleStart is called before a module compiles files.
	// fullRebuild is set when a header change forced every source to compile.
	OnModuleStart(module string, files int, fullRebuild bool)

	// OnFileComplete is called once per compiled file, in completion order.
	// index counts completions from 1 to total.
	OnFileComplete(module, file string, index, total int, result domain.CommandResult, err error)

	// OnModuleComplete is called when a module reaches a terminal status.
	OnModuleComplete(module string, status domain.ModuleStatus, err error)

	// Stop flushes any buffered output.
	Stop() error
}
