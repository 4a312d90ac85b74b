package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrDuplicateModule is returned when two module files declare the same module name.
	ErrDuplicateModule = zerr.New("module defined more than once")

	// ErrMissingDependency is returned when a module references a dependency that was not discovered.
	ErrMissingDependency = zerr.New("missing module dependency")

	// ErrCycleDetected is returned when a cycle is detected in the module dependency graph.
	ErrCycleDetected = zerr.New("circular dependency between modules")

	// ErrModuleNotFound is returned when a requested module is not part of the graph.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrNoModules is returned when discovery finds no module files under the root.
	ErrNoModules = zerr.New("no modules found")

	// ErrModuleParse is returned when a module file cannot be parsed.
	ErrModuleParse = zerr.New("failed to parse module file")

	// ErrModuleRead is returned when a module file cannot be read.
	ErrModuleRead = zerr.New("failed to read module file")

	// ErrRootNotFound is returned when the modules root directory does not exist.
	ErrRootNotFound = zerr.New("modules root does not exist")

	// ErrNoSources is returned when a module has no compilable source file.
	ErrNoSources = zerr.New("module must have at least one source file")

	// ErrCodeGenFailed is returned when one or more generated headers could not be produced.
	ErrCodeGenFailed = zerr.New("code generation failed")

	// ErrCompileFailed is returned when one or more translation units of a module failed to compile.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrMissingObjects is returned when object files expected by the linker are absent.
	ErrMissingObjects = zerr.New("one or more object files are missing")

	// ErrLinkFailed is returned when the linker invocation fails.
	ErrLinkFailed = zerr.New("link failed")

	// ErrBuildFailed is returned when at least one module failed to build.
	ErrBuildFailed = zerr.New("build failed")

	// ErrIncompatibleSettings is returned when the host cannot build for the requested target.
	ErrIncompatibleSettings = zerr.New("build compatibility error")

	// ErrInvalidSetting is returned when a command line setting has an unrecognized value.
	ErrInvalidSetting = zerr.New("unrecognized build setting")

	// ErrCommandFailed is returned when a subprocess exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrStoreReadFailed is returned when the build info store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreWriteFailed is returned when the build info store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")
)

// FailedModulesError reports every module that failed in one build invocation.
// It unwraps to ErrBuildFailed.
type FailedModulesError struct {
	Modules []string
	Cause   error
}

// NewFailedModulesError creates a FailedModulesError for the given modules.
func NewFailedModulesError(modules []string, cause error) *FailedModulesError {
	return &FailedModulesError{Modules: modules, Cause: cause}
}

func (e *FailedModulesError) Error() string {
	if len(e.Modules) == 0 {
		return ErrBuildFailed.Error()
	}
	return ErrBuildFailed.Error() + ": " + strings.Join(e.Modules, ", ")
}

// Unwrap exposes both the sentinel and the underlying causes to errors.Is.
func (e *FailedModulesError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrBuildFailed}
	}
	return []error{ErrBuildFailed, e.Cause}
}
