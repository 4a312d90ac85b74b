// Package cas implements build info storage.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using flat JSON files, one per build root.
// Files are read once and cached.
type Store struct {
	mu    sync.Mutex
	files map[string]map[string]domain.BuildInfo
}

// NewStore creates a new BuildInfoStore.
func NewStore() *Store {
	return &Store{files: make(map[string]map[string]domain.BuildInfo)}
}

// file returns the cached contents of the store file at path. Callers hold mu.
func (s *Store) file(path string) (map[string]domain.BuildInfo, error) {
	if cache, ok := s.files[path]; ok {
		return cache, nil
	}

	cache := make(map[string]domain.BuildInfo)

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	case len(data) > 0:
		if err := json.Unmarshal(data, &cache); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
		}
	}

	s.files[path] = cache
	return cache, nil
}

// Get retrieves the build info for a module.
func (s *Store) Get(path, module string) (*domain.BuildInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.file(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	info, ok := cache[module]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the build info and rewrites the store file.
func (s *Store) Put(path string, info domain.BuildInfo) error {
	path = filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.file(path)
	if err != nil {
		return err
	}
	cache[info.Module] = info

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return writeAtomic(path, data)
}

// Reset forgets the cached contents of the store file at path.
// It is used after the file has been removed by a clean.
func (s *Store) Reset(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, filepath.Clean(path))
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}
