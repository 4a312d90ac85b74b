package domain

import "strings"

// Command is one subprocess invocation.
type Command struct {
	Program string
	Args    []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// CommandResult is the captured outcome of a finished subprocess.
type CommandResult struct {
	// Output is the combined stdout and stderr of the process.
	Output   []byte
	ExitCode int
}

// HasDiagnostics reports whether the output contains compiler warnings or errors.
func (r CommandResult) HasDiagnostics() bool {
	out := strings.ToLower(string(r.Output))
	return strings.Contains(out, "warn") || strings.Contains(out, "err")
}

// CompileRequest asks the toolchain to compile one translation unit.
type CompileRequest struct {
	Settings *BuildSettings

	Source string
	Object string

	IncludeDirs []string
	Defines     []string

	// PositionIndependent is set for objects linked into shared libraries.
	PositionIndependent bool
}

// LinkKind selects the artifact a link produces.
type LinkKind int

const (
	// LinkShared produces a shared library.
	LinkShared LinkKind = iota
	// LinkExecutable produces a module executable.
	LinkExecutable
	// LinkStandalone produces the single executable of a standalone build.
	LinkStandalone
)

// LinkRequest asks the toolchain to link objects into an artifact.
type LinkRequest struct {
	Settings *BuildSettings
	Kind     LinkKind

	Output string
	// ImportLibrary is produced alongside Windows shared libraries.
	ImportLibrary string

	Objects     []string
	LibraryDirs []string
	// Modules are artifact names of linked modules, dependents first.
	Modules []string
	// Libraries are external library names or file names. The toolchain strips
	// extensions and platform prefixes.
	Libraries []string
}

// GenerateRequest asks the reflection generator to produce one generated header.
type GenerateRequest struct {
	Program string

	// Source is the translation unit parsed for the header, or the header itself.
	Source string
	Header string
	Output string

	IncludeDirs []string
	Defines     []string
}
