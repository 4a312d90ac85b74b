// Package gcc implements the GCC and MinGW toolchain.
package gcc

import (
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
)

var _ ports.Toolchain = (*Toolchain)(nil)

const (
	// DefaultProgram is the compiler driver for native builds.
	DefaultProgram = "g++"
	// MinGWProgram is the cross compiler driver for Windows x64 targets on Linux x64 hosts.
	MinGWProgram = "x86_64-w64-mingw32-g++"
)

// Toolchain implements ports.Toolchain by invoking the GCC driver.
type Toolchain struct {
	executor ports.Executor
}

// New creates a new Toolchain.
func New(executor ports.Executor) *Toolchain {
	return &Toolchain{executor: executor}
}

// Program returns the compiler driver for the settings' host and target.
func Program(s *domain.BuildSettings) string {
	if s.Host.OS == domain.OSLinux && s.Host.Arch == domain.ArchX64 &&
		s.Target.OS == domain.OSWindows && s.Target.Arch == domain.ArchX64 {
		return MinGWProgram
	}
	return DefaultProgram
}

// Compile compiles one translation unit.
func (t *Toolchain) Compile(ctx context.Context, req domain.CompileRequest) (domain.CommandResult, error) {
	return t.executor.Run(ctx, domain.Command{
		Program: Program(req.Settings),
		Args:    CompileArgs(req),
	})
}

// Link links an artifact.
func (t *Toolchain) Link(ctx context.Context, req domain.LinkRequest) (domain.CommandResult, error) {
	return t.executor.Run(ctx, domain.Command{
		Program: Program(req.Settings),
		Args:    LinkArgs(req),
	})
}

// CompileArgs returns the driver arguments for a compile request.
func CompileArgs(req domain.CompileRequest) []string {
	s := req.Settings
	args := []string{"-c", "-Wall", "-Wno-invalid-offsetof"}

	if req.PositionIndependent && (s.Target.OS == domain.OSLinux || s.Target.OS == domain.OSMac) {
		args = append(args, "-fpic")
	}

	args = append(args, "-o", req.Object)

	if s.Config == domain.ConfigDevelopment {
		args = append(args, "-g")
	}

	for _, d := range s.Defines() {
		args = append(args, "-D"+d)
	}
	for _, d := range req.Defines {
		args = append(args, "-D"+d)
	}

	args = append(args, "-std=c++17")

	for _, dir := range req.IncludeDirs {
		args = append(args, "-I"+dir)
	}

	return append(args, req.Source)
}

// LinkArgs returns the driver arguments for a link request.
func LinkArgs(req domain.LinkRequest) []string {
	s := req.Settings
	target := s.Target.OS
	var args []string

	if target == domain.OSWindows {
		if req.Kind != domain.LinkStandalone {
			args = append(args, "-static")
		}
		args = append(args, "-static-libstdc++", "-static-libgcc")
	}

	name := filepath.Base(req.Output)
	switch req.Kind {
	case domain.LinkShared:
		switch target {
		case domain.OSWindows:
			args = append(args, "-Wl,--out-implib,"+req.ImportLibrary)
		case domain.OSLinux:
			args = append(args, "-Wl,-rpath,${ORIGIN},-soname,"+name)
		case domain.OSMac:
			args = append(args, "-Wl,-install_name,@rpath/"+name)
		}
		if target == domain.OSMac {
			args = append(args, "-dynamiclib")
		} else {
			args = append(args, "-shared")
		}
	case domain.LinkExecutable:
		if target == domain.OSMac {
			args = append(args, "-Wl,-rpath,@executable_path")
		}
	case domain.LinkStandalone:
		if target == domain.OSLinux || target == domain.OSMac {
			args = append(args, "-Wl,-rpath,${ORIGIN}")
		}
	}

	for _, dir := range req.LibraryDirs {
		args = append(args, "-L"+dir)
	}

	args = append(args, "-o"+req.Output)
	args = append(args, req.Objects...)

	for _, m := range req.Modules {
		args = append(args, "-l"+m)
	}
	for _, lib := range req.Libraries {
		args = append(args, "-l"+LibraryName(lib))
	}
	return args
}

// LibraryName reduces a library file name to the name passed to -l:
// libglfw.so becomes glfw and opengl32.lib becomes opengl32.
func LibraryName(file string) string {
	name := strings.TrimSuffix(file, filepath.Ext(file))
	return strings.TrimPrefix(name, "lib")
}
