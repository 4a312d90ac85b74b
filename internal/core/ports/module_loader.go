package ports

import "go.trai.ch/rybuild/internal/core/domain"

// ModuleLoader discovers module descriptors on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=module_loader.go -destination=mocks/mock_module_loader.go -package=mocks
type ModuleLoader interface {
	// Load discovers every module file below dir and returns them as a graph.
	// Modules loaded with engine set are marked as engine modules.
	// Duplicate names within the set are rejected; dependencies are not resolved.
	Load(dir string, engine bool, layout domain.Layout) (*domain.Graph, error)
}
