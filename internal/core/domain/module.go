package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// ModuleType distinguishes shared libraries from executables.
type ModuleType string

const (
	// ModuleRuntime is a module linked as a shared library.
	ModuleRuntime ModuleType = "Runtime"
	// ModuleExecutable is a module that may be linked as an executable.
	ModuleExecutable ModuleType = "Executable"
)

// ArtifactPrefix is prepended to every module name to form its artifact name.
const ArtifactPrefix = "RyRuntime-"

// Extern describes a third-party library shipped under the engine's External directory.
type Extern struct {
	Name string
	// Root is the directory holding Include, Libraries and Binary for this extern.
	Root string
}

// IncludeDir returns the extern's header directory.
func (e Extern) IncludeDir() string {
	return filepath.Join(e.Root, IncludeDirName)
}

// LibraryDir returns the extern's library directory for the given target.
func (e Extern) LibraryDir(s *BuildSettings) string {
	return filepath.Join(e.Root, LibrariesDirName, s.TargetPath())
}

// BinaryDir returns the extern's runtime binary directory for the given target.
func (e Extern) BinaryDir(s *BuildSettings) string {
	return filepath.Join(e.Root, BinaryDirName, s.TargetPath())
}

// ModuleFiles are the files of a module that take part in a build.
type ModuleFiles struct {
	// Sources are .cpp, .c and .hpp files under the Source directory.
	Sources []string
	// Headers are .h files under the Source and Include directories, plus .hpp files
	// under Include.
	Headers []string
}

// Module is the in-memory descriptor of one compilable unit discovered from a module file.
type Module struct {
	Name           string
	Type           ModuleType
	RootDir        string
	FilePath       string
	IsEngineModule bool

	// Dependencies are module names in declaration order.
	Dependencies []string
	Extern       []Extern

	Macros       []string
	IncludePaths []string
	LibraryPaths []string
	Libraries    []string
}

// SourceDir returns the directory holding translation units.
func (m *Module) SourceDir() string {
	return filepath.Join(m.RootDir, SourceDirName)
}

// IncludeDir returns the directory holding public headers.
func (m *Module) IncludeDir() string {
	return filepath.Join(m.RootDir, IncludeDirName)
}

// ThirdPartyDir returns the module's private third-party directory.
func (m *Module) ThirdPartyDir() string {
	return filepath.Join(m.RootDir, ThirdPartyDirName)
}

// GeneratedDir returns the directory holding generated headers.
func (m *Module) GeneratedDir() string {
	return filepath.Join(m.RootDir, IntermediateDirName, GeneratedDirName)
}

// GeneratedModuleHeader returns the path of the base generated header <Name>Gen.h.
func (m *Module) GeneratedModuleHeader() string {
	return filepath.Join(m.GeneratedDir(), m.GeneratedModuleHeaderName())
}

// GeneratedModuleHeaderName returns the file name of the base generated header.
func (m *Module) GeneratedModuleHeaderName() string {
	return m.Name + "Gen.h"
}

// ArtifactName returns the base name of the module's linked artifact.
func (m *Module) ArtifactName() string {
	return ArtifactPrefix + m.Name
}

// CompileDefine returns the macro that marks translation units of this module.
func (m *Module) CompileDefine() string {
	return "COMPILE_MODULE_" + strings.ToUpper(m.Name)
}

// IsExecutable reports whether the module links to an executable under the given settings.
// Distribution builds produce executables from project modules; development builds
// produce them from engine modules, which then load project modules as shared libraries.
func (m *Module) IsExecutable(s *BuildSettings) bool {
	if m.Type != ModuleExecutable {
		return false
	}
	if s.Distribute {
		return !m.IsEngineModule
	}
	return m.IsEngineModule
}

// GenerateDefines returns the macros passed to the reflection generator.
func (m *Module) GenerateDefines() []string {
	return append([]string{m.CompileDefine()}, m.Macros...)
}

// CompileDefines returns the module macros passed to the compiler in addition to
// the settings' definitions.
func (m *Module) CompileDefines() []string {
	return append(slices.Clone(m.Macros), m.CompileDefine())
}
