package domain

import "path/filepath"

const (
	// ModuleFileExt is the extension of module descriptor files.
	ModuleFileExt = ".module"

	// SourceDirName holds a module's translation units.
	SourceDirName = "Source"

	// IncludeDirName holds a module's public headers.
	IncludeDirName = "Include"

	// ThirdPartyDirName holds a module's private third-party code.
	ThirdPartyDirName = "ThirdParty"

	// IntermediateDirName holds build intermediates.
	IntermediateDirName = "Intermediate"

	// GeneratedDirName holds generated headers, below Intermediate.
	GeneratedDirName = "Generated"

	// BinaryDirName holds linked artifacts.
	BinaryDirName = "Binary"

	// ObjectDirName holds object files, below Intermediate.
	ObjectDirName = "Object"

	// LibrariesDirName holds import libraries, below Intermediate.
	LibrariesDirName = "Libraries"

	// ExternalDirName holds extern libraries under the engine root.
	ExternalDirName = "External"

	// ModulesDirName holds engine modules under the engine root.
	ModulesDirName = "Modules"

	// RuntimeDirName holds the redistributable engine modules, below Modules.
	RuntimeDirName = "Runtime"

	// StateFileName is the build info store file, below Intermediate.
	StateFileName = "rybuild_state.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// OutputDirs is one set of output directories.
type OutputDirs struct {
	Binary    string
	Object    string
	Libraries string
}

// ModuleObjectDir returns the object directory of a single module.
func (d OutputDirs) ModuleObjectDir(name string) string {
	return filepath.Join(d.Object, name)
}

// Layout resolves where a build reads and writes files.
type Layout struct {
	// Root is the project directory, the parent of the modules root.
	Root string

	Project OutputDirs
	Engine  OutputDirs

	// EngineRoot is empty when no engine installation is configured.
	EngineRoot string
	StatePath  string

	// TargetPath selects per-target lists from module files, for example x64/Linux/GCC.
	TargetPath string
}

// NewLayout derives the output layout from the modules root and the build settings.
func NewLayout(modulesRoot string, s *BuildSettings) Layout {
	root := filepath.Dir(filepath.Clean(modulesRoot))
	l := Layout{
		Root:       root,
		Project:    outputDirs(root),
		EngineRoot: s.EngineRoot,
		StatePath:  filepath.Join(root, IntermediateDirName, StateFileName),
		TargetPath: s.TargetPath(),
	}
	if s.OutputDirectory != "" {
		l.Project.Binary = s.OutputDirectory
	}

	if s.EngineRoot != "" {
		l.Engine = outputDirs(s.EngineRoot)
	} else {
		l.Engine = l.Project
	}
	return l
}

func outputDirs(root string) OutputDirs {
	return OutputDirs{
		Binary:    filepath.Join(root, BinaryDirName),
		Object:    filepath.Join(root, IntermediateDirName, ObjectDirName),
		Libraries: filepath.Join(root, IntermediateDirName, LibrariesDirName),
	}
}

// For returns the output directories a module builds into.
func (l Layout) For(m *Module) OutputDirs {
	if m.IsEngineModule {
		return l.Engine
	}
	return l.Project
}

// ObjectDir returns the modular object directory of a module.
func (l Layout) ObjectDir(m *Module) string {
	return l.For(m).ModuleObjectDir(m.Name)
}

// ExternRoot returns the directory of an extern library under the engine root.
func (l Layout) ExternRoot(name string) string {
	if l.EngineRoot == "" {
		return filepath.Join(l.Root, ExternalDirName, name)
	}
	return filepath.Join(l.EngineRoot, ExternalDirName, name)
}

// EngineModulesDir returns the directory engine modules are discovered in.
func (l Layout) EngineModulesDir(distribute bool) string {
	if l.EngineRoot == "" {
		return ""
	}
	if distribute {
		return filepath.Join(l.EngineRoot, ModulesDirName, RuntimeDirName)
	}
	return filepath.Join(l.EngineRoot, ModulesDirName)
}

// StandaloneDirs returns the directories a standalone build writes to.
func (l Layout) StandaloneDirs() OutputDirs {
	return OutputDirs{
		Binary:    l.Project.Binary,
		Object:    filepath.Join(l.Project.Binary, ObjectDirName),
		Libraries: l.Project.Libraries,
	}
}

// CleanTargets returns every path removed by a clean.
func (l Layout) CleanTargets() []string {
	return []string{
		l.Project.Binary,
		l.Project.Libraries,
		l.Project.Object,
		l.StatePath,
	}
}
