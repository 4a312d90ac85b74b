// Package linker links compiled modules into shared libraries and executables.
package linker

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/rybuild/internal/engine/staleness"
	"go.trai.ch/zerr"
)

// Linker assembles link requests from the module graph.
type Linker struct {
	toolchain ports.Toolchain
	fs        ports.FileSystem
	logger    ports.Logger
}

// New creates a new Linker.
func New(toolchain ports.Toolchain, fs ports.FileSystem, logger ports.Logger) *Linker {
	return &Linker{toolchain: toolchain, fs: fs, logger: logger}
}

// ArtifactPath returns the file a modular build of m links to.
func ArtifactPath(m *domain.Module, layout domain.Layout, s *domain.BuildSettings) string {
	name := s.SharedLibraryName(m.ArtifactName())
	if m.IsExecutable(s) {
		name = s.ExecutableName(m.ArtifactName())
	}
	return filepath.Join(layout.For(m).Binary, name)
}

// LinkModule links the objects of m into its artifact.
//
// Shared libraries link against their direct dependencies; executables link against the
// full dependency closure. Dependencies are passed in link order. A failed link marks the
// module failed in state.
func (l *Linker) LinkModule(
	ctx context.Context,
	g *domain.Graph,
	m *domain.Module,
	layout domain.Layout,
	s *domain.BuildSettings,
	state *domain.BuildState,
) error {
	err := l.linkModule(ctx, g, m, layout, s)
	state.SetBuilt(m.Name, err == nil)
	return err
}

func (l *Linker) linkModule(
	ctx context.Context,
	g *domain.Graph,
	m *domain.Module,
	layout domain.Layout,
	s *domain.BuildSettings,
) error {
	objects, err := l.objects(m, layout.ObjectDir(m), s)
	if err != nil {
		return err
	}

	executable := m.IsExecutable(s)
	var deps []string
	if executable {
		deps = g.RecurseDependencies(m.Name)
	} else {
		deps = m.Dependencies
	}

	order := g.LinkOrder(deps)
	if !executable {
		order = slices.DeleteFunc(order, func(name string) bool {
			return !slices.Contains(m.Dependencies, name)
		})
	}

	linked := []*domain.Module{m}
	modules := make([]string, 0, len(order))
	for _, name := range order {
		dep, _ := g.Module(name)
		modules = append(modules, dep.ArtifactName())
		if executable {
			linked = append(linked, dep)
		}
	}

	out := layout.For(m)
	dirs := []string{out.Libraries, out.Binary}
	if !m.IsEngineModule {
		dirs = append(dirs, layout.Engine.Libraries, layout.Engine.Binary)
	}
	extDirs, libraries, err := l.externs(linked, s)
	if err != nil {
		return err
	}
	dirs = append(dirs, extDirs...)

	req := domain.LinkRequest{
		Settings:    s,
		Kind:        domain.LinkShared,
		Output:      ArtifactPath(m, layout, s),
		Objects:     objects,
		LibraryDirs: unique(dirs),
		Modules:     modules,
		Libraries:   libraries,
	}
	if executable {
		req.Kind = domain.LinkExecutable
	} else if imp := s.ImportLibraryName(m.ArtifactName()); imp != "" {
		req.ImportLibrary = filepath.Join(out.Libraries, imp)
	}

	return l.link(ctx, req, "module", m.Name)
}

// LinkStandalone links the objects of every module of g, compiled below objectRoot, into
// the standalone executable in outputDir.
func (l *Linker) LinkStandalone(
	ctx context.Context,
	g *domain.Graph,
	objectRoot, outputDir string,
	s *domain.BuildSettings,
) error {
	var objects []string
	var all []*domain.Module
	for m := range g.Modules() {
		objs, err := l.objects(m, filepath.Join(objectRoot, m.Name), s)
		if err != nil {
			return err
		}
		objects = append(objects, objs...)
		all = append(all, m)
	}

	dirs, libraries, err := l.externs(all, s)
	if err != nil {
		return err
	}

	output := filepath.Join(outputDir, s.StandaloneExecutable())
	l.logger.Info("Linking standalone " + s.StandaloneExecutable())

	return l.link(ctx, domain.LinkRequest{
		Settings:    s,
		Kind:        domain.LinkStandalone,
		Output:      output,
		Objects:     objects,
		LibraryDirs: unique(append([]string{objectRoot}, dirs...)),
		Libraries:   libraries,
	}, "artifact", output)
}

func (l *Linker) link(ctx context.Context, req domain.LinkRequest, key, value string) error {
	res, err := l.toolchain.Link(ctx, req)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrLinkFailed.Error()), key, value)
		if out := strings.TrimSpace(string(res.Output)); out != "" {
			err = zerr.With(err, "output", out)
		}
		return err
	}
	if res.HasDiagnostics() {
		l.logger.Warn(strings.TrimSpace(string(res.Output)))
	}
	return nil
}

// objects returns the object file of every source of m. Any missing object fails the link.
func (l *Linker) objects(m *domain.Module, objectDir string, s *domain.BuildSettings) ([]string, error) {
	files, err := l.fs.ModuleFiles(m)
	if err != nil {
		return nil, err
	}

	objects := make([]string, 0, len(files.Sources))
	var missing []string
	for _, src := range files.Sources {
		obj := staleness.ObjectPath(src, objectDir, s.ObjectExtension())
		_, exists, err := l.fs.ModTime(obj)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, obj)
			continue
		}
		objects = append(objects, obj)
	}
	if len(missing) > 0 {
		err := zerr.With(domain.ErrMissingObjects, "module", m.Name)
		return nil, zerr.With(err, "objects", strings.Join(missing, ", "))
	}
	return objects, nil
}

// externs collects the library search paths and library names contributed by modules:
// their third-party paths and libraries, and every file shipped by their externs.
// Shared objects in extern Binary directories are linked on Linux and OSX.
func (l *Linker) externs(modules []*domain.Module, s *domain.BuildSettings) (dirs, libraries []string, err error) {
	sharedBins := s.Target.OS == domain.OSLinux || s.Target.OS == domain.OSMac

	for _, m := range modules {
		dirs = append(dirs, m.LibraryPaths...)
		libraries = append(libraries, m.Libraries...)

		for _, ext := range m.Extern {
			sources := []string{ext.LibraryDir(s)}
			if sharedBins {
				sources = append(sources, ext.BinaryDir(s))
			}
			for _, dir := range sources {
				dirs = append(dirs, dir)
				names, err := l.fs.ListFiles(dir)
				if err != nil {
					return nil, nil, err
				}
				libraries = append(libraries, names...)
			}
		}
	}
	libraries = unique(libraries)
	slices.Sort(libraries)
	return unique(dirs), libraries, nil
}

func unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
