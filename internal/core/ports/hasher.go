package ports

import "go.trai.ch/rybuild/internal/core/domain"

// Hasher defines the interface for computing configuration fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint hashes everything about a module that is not visible in file timestamps:
	// its declared dependencies, macros, externs and the build settings.
	Fingerprint(module *domain.Module, settings *domain.BuildSettings) string
}
