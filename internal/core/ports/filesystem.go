package ports

import (
	"time"

	"go.trai.ch/rybuild/internal/core/domain"
)

// FileSystem answers the questions staleness analysis and code generation ask about files.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// ModuleFiles lists the module's sources and headers, sorted.
	ModuleFiles(module *domain.Module) (domain.ModuleFiles, error)
	// ModTime returns the modification time of path and whether it exists.
	ModTime(path string) (time.Time, bool, error)
	// ListFiles returns the names of the regular files directly inside dir, sorted.
	// A missing directory yields no names.
	ListFiles(dir string) ([]string, error)
}
