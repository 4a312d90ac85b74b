// Package config provides the module file loader for rybuild.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ModuleLoader = (*FileModuleLoader)(nil)

// FileModuleLoader implements ports.ModuleLoader by discovering .module files on disk.
type FileModuleLoader struct {
	logger ports.Logger
}

// NewLoader creates a new FileModuleLoader.
func NewLoader(logger ports.Logger) *FileModuleLoader {
	return &FileModuleLoader{logger: logger}
}

// Load discovers every module below dir.
// A directory holding a .module file is a module root and is not searched further.
func (l *FileModuleLoader) Load(dir string, engine bool, layout domain.Layout) (*domain.Graph, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, zerr.With(domain.ErrRootNotFound, "path", dir)
	}

	paths, err := l.discover(dir)
	if err != nil {
		return nil, err
	}

	g := domain.NewGraph()
	for _, path := range paths {
		m, err := LoadModule(path, layout)
		if err != nil {
			return nil, err
		}
		m.IsEngineModule = engine
		if err := g.AddModule(m); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (l *FileModuleLoader) discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrModuleRead.Error()), "path", dir)
	}

	var found []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == domain.ModuleFileExt {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	if len(found) > 0 {
		if len(found) > 1 && l.logger != nil {
			l.logger.Warn("multiple module files in " + dir + ", using " + filepath.Base(found[0]))
		}
		return found[:1], nil
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == ".git" {
			continue
		}
		sub, err := l.discover(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		paths = append(paths, sub...)
	}
	return paths, nil
}

// LoadModule reads one module file and returns its descriptor.
// Third-party paths are resolved against the module's ThirdParty directory and extern
// roots against the layout.
func LoadModule(path string, layout domain.Layout) (*domain.Module, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrModuleRead.Error()), "path", path)
	}

	data, err := os.ReadFile(abs) //nolint:gosec // path is discovered below the user's root
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrModuleRead.Error()), "path", abs)
	}

	var file ModuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrModuleParse.Error()), "path", abs)
	}

	if file.Name == "" {
		return nil, zerr.With(zerr.With(domain.ErrModuleParse, "reason", "missing Name"), "path", abs)
	}

	moduleType, ok := parseType(file.Type)
	if !ok {
		err := zerr.With(domain.ErrModuleParse, "reason", "unknown Type "+file.Type)
		return nil, zerr.With(err, "path", abs)
	}

	if dup, ok := duplicate(file.Modules); ok {
		err := zerr.With(domain.ErrModuleParse, "reason", "duplicate dependency "+dup)
		return nil, zerr.With(err, "path", abs)
	}

	m := &domain.Module{
		Name:         file.Name,
		Type:         moduleType,
		RootDir:      filepath.Dir(abs),
		FilePath:     abs,
		Dependencies: file.Modules,
		Macros:       file.Macros,
		Libraries:    file.Libraries.Resolve(layout.TargetPath),
	}

	for _, name := range unique(file.Extern) {
		m.Extern = append(m.Extern, domain.Extern{Name: name, Root: layout.ExternRoot(name)})
	}
	m.IncludePaths = resolve(m.ThirdPartyDir(), file.ThirdParty.Include)
	m.LibraryPaths = resolve(m.ThirdPartyDir(), file.ThirdParty.LibraryPaths.Resolve(layout.TargetPath))

	return m, nil
}

func parseType(value string) (domain.ModuleType, bool) {
	switch value {
	case "", string(domain.ModuleRuntime):
		return domain.ModuleRuntime, true
	case string(domain.ModuleExecutable):
		return domain.ModuleExecutable, true
	default:
		return "", false
	}
}

// unique drops repeated entries, keeping the first occurrence.
func unique(strs []string) []string {
	if len(strs) == 0 {
		return nil
	}
	res := make([]string, 0, len(strs))
	for _, s := range strs {
		if s != "" && !slices.Contains(res, s) {
			res = append(res, s)
		}
	}
	return res
}

// duplicate returns the first entry that occurs more than once.
func duplicate(strs []string) (string, bool) {
	seen := make(map[string]struct{}, len(strs))
	for _, s := range strs {
		if _, ok := seen[s]; ok {
			return s, true
		}
		seen[s] = struct{}{}
	}
	return "", false
}

func resolve(base string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	res := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			res[i] = p
			continue
		}
		res[i] = filepath.Join(base, p)
	}
	return res
}
