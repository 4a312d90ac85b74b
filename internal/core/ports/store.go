package ports

import "go.trai.ch/rybuild/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving build information.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info for a module from the store file at path.
	// Returns nil, nil if not found.
	Get(path, module string) (*domain.BuildInfo, error)

	// Put stores the build info in the store file at path.
	Put(path string, info domain.BuildInfo) error

	// Reset forgets anything cached for the store file at path.
	Reset(path string)
}
