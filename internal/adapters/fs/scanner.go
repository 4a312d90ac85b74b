package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*Scanner)(nil)

var (
	sourceExts = []string{".cpp", ".c", ".hpp"}
	headerExts = []string{".h"}
	// Include/ is never compiled, so inline .hpp files there are headers.
	includeExts = []string{".h", ".hpp"}
)

// Scanner implements ports.FileSystem on the local disk.
type Scanner struct {
	walker *Walker
}

// NewScanner creates a new Scanner.
func NewScanner(walker *Walker) *Scanner {
	return &Scanner{walker: walker}
}

// ModuleFiles lists the sources under the module's Source directory and the headers
// under both its Source and Include directories.
func (s *Scanner) ModuleFiles(m *domain.Module) (domain.ModuleFiles, error) {
	sources, err := s.collect(m.SourceDir(), sourceExts)
	if err != nil {
		return domain.ModuleFiles{}, zerr.With(err, "module", m.Name)
	}
	private, err := s.collect(m.SourceDir(), headerExts)
	if err != nil {
		return domain.ModuleFiles{}, zerr.With(err, "module", m.Name)
	}
	public, err := s.collect(m.IncludeDir(), includeExts)
	if err != nil {
		return domain.ModuleFiles{}, zerr.With(err, "module", m.Name)
	}
	headers := append(private, public...)
	slices.Sort(headers)
	return domain.ModuleFiles{Sources: sources, Headers: headers}, nil
}

func (s *Scanner) collect(dir string, exts []string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to stat directory"), "path", dir)
	}

	var files []string
	for path := range s.walker.WalkFiles(dir, nil) {
		if slices.Contains(exts, filepath.Ext(path)) {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}

// ModTime returns the modification time of path and whether it exists.
func (s *Scanner) ModTime(path string) (time.Time, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return info.ModTime(), true, nil
}

// ListFiles returns the names of the regular files directly inside dir, sorted.
func (s *Scanner) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to list directory"), "path", dir)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
