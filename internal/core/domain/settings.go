package domain

import (
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/zerr"
)

// OS is a build host or target operating system.
type OS string

const (
	// OSWindows targets Windows.
	OSWindows OS = "Windows"
	// OSLinux targets Linux.
	OSLinux OS = "Linux"
	// OSMac targets macOS.
	OSMac OS = "OSX"
)

// Arch is a target processor architecture.
type Arch string

const (
	// ArchX86 is 32-bit x86.
	ArchX86 Arch = "x86"
	// ArchX64 is 64-bit x86.
	ArchX64 Arch = "x64"
	// ArchArm is 32-bit ARM.
	ArchArm Arch = "Arm"
	// ArchArm64 is 64-bit ARM.
	ArchArm64 Arch = "Arm64"
)

// Toolset is the compiler family used for a build.
type Toolset string

const (
	// ToolsetGCC is the GNU toolchain (MinGW when targeting Windows).
	ToolsetGCC Toolset = "GCC"
	// ToolsetMSVC is the Microsoft toolchain.
	ToolsetMSVC Toolset = "MSVC"
	// ToolsetClang is the LLVM toolchain.
	ToolsetClang Toolset = "Clang"
)

// Config is the build configuration.
type Config string

const (
	// ConfigDevelopment builds with debug information.
	ConfigDevelopment Config = "Development"
	// ConfigShipping builds for release.
	ConfigShipping Config = "Shipping"
)

// BuildType selects how modules are linked.
type BuildType string

const (
	// BuildModular links every module into its own artifact.
	BuildModular BuildType = "Modular"
	// BuildStandalone links all modules into one executable.
	BuildStandalone BuildType = "Standalone"
)

// DefaultStandaloneName is the executable name used by standalone builds.
const DefaultStandaloneName = "Build"

// Platform is an operating system and architecture pair.
type Platform struct {
	OS   OS
	Arch Arch
}

// BuildSettings is the complete configuration of one build invocation.
type BuildSettings struct {
	Config  Config
	Type    BuildType
	Toolset Toolset

	Host   Platform
	Target Platform

	// Distribute builds a redistributable project rather than an engine-hosted one.
	Distribute bool

	// OutputDirectory overrides the binary output directory. Empty means the default layout.
	OutputDirectory string
	StandaloneName  string

	// EngineRoot is the engine installation used for engine modules and externs.
	EngineRoot string

	// Generator is the reflection generator program. Empty disables generation.
	Generator string

	// Jobs is the worker count of each pool. Zero means one per CPU.
	Jobs int
}

// Workers returns the number of workers each pool runs.
func (s *BuildSettings) Workers() int {
	if s.Jobs > 0 {
		return s.Jobs
	}
	return runtime.NumCPU()
}

// DefaultSettings returns settings targeting the current host.
func DefaultSettings() *BuildSettings {
	host := HostPlatform()
	return &BuildSettings{
		Config:         ConfigDevelopment,
		Type:           BuildModular,
		Toolset:        ToolsetGCC,
		Host:           host,
		Target:         host,
		StandaloneName: DefaultStandaloneName,
	}
}

// HostPlatform returns the platform the process is running on.
func HostPlatform() Platform {
	p := Platform{OS: OSLinux, Arch: ArchX64}

	switch runtime.GOOS {
	case "windows":
		p.OS = OSWindows
	case "darwin":
		p.OS = OSMac
	}

	switch runtime.GOARCH {
	case "386":
		p.Arch = ArchX86
	case "arm":
		p.Arch = ArchArm
	case "arm64":
		p.Arch = ArchArm64
	}
	return p
}

// ParseOS parses a command line operating system value.
func ParseOS(value string) (OS, error) {
	switch value {
	case "Windows":
		return OSWindows, nil
	case "Linux":
		return OSLinux, nil
	case "Mac", "OSX":
		return OSMac, nil
	}
	return "", invalidSetting("TargetOS", value)
}

// ParseArch parses a command line architecture value.
func ParseArch(value string) (Arch, error) {
	switch value {
	case "x86":
		return ArchX86, nil
	case "x86_64", "x64":
		return ArchX64, nil
	case "Arm":
		return ArchArm, nil
	case "Arm64":
		return ArchArm64, nil
	}
	return "", invalidSetting("TargetArch", value)
}

// ParseConfig parses a command line build configuration value.
func ParseConfig(value string) (Config, error) {
	switch value {
	case "Development":
		return ConfigDevelopment, nil
	case "Shipping":
		return ConfigShipping, nil
	}
	return "", invalidSetting("BuildConfig", value)
}

// ParseBuildType parses a command line build type value.
func ParseBuildType(value string) (BuildType, error) {
	switch value {
	case "Modular":
		return BuildModular, nil
	case "Standalone":
		return BuildStandalone, nil
	}
	return "", invalidSetting("BuildType", value)
}

func invalidSetting(key, value string) error {
	return zerr.With(zerr.With(ErrInvalidSetting, "setting", key), "value", value)
}

// CheckCompatibility verifies that the host can produce binaries for the target.
func (s *BuildSettings) CheckCompatibility() error {
	fail := func(reason string) error {
		err := zerr.With(ErrIncompatibleSettings, "reason", reason)
		err = zerr.With(err, "host", string(s.Host.OS))
		return zerr.With(err, "target", string(s.Target.OS))
	}

	switch s.Host.OS {
	case OSWindows:
		if s.Target.OS != OSWindows {
			return fail("cross compiling from Windows is not supported")
		}
	case OSLinux:
		if s.Toolset != ToolsetGCC {
			return fail("only GCC is supported on Linux")
		}
		if s.Target.OS != OSLinux && s.Target.OS != OSWindows {
			return fail("Linux hosts can only target Linux or Windows")
		}
	case OSMac:
		if s.Toolset != ToolsetGCC {
			return fail("only GCC is supported on OSX")
		}
		if s.Target.OS != OSMac {
			return fail("OSX hosts can only target OSX")
		}
	}
	return nil
}

// TargetPath returns the relative directory used for per-target libraries and binaries,
// for example x64/Linux/GCC.
func (s *BuildSettings) TargetPath() string {
	toolset := string(s.Toolset)
	if s.Toolset == ToolsetGCC && s.Target.OS == OSWindows {
		toolset = "MinGW"
	}
	return filepath.Join(string(s.Target.Arch), string(s.Target.OS), toolset)
}

// ObjectExtension returns the object file extension for the target.
func (s *BuildSettings) ObjectExtension() string {
	if s.Target.OS == OSWindows {
		return ".obj"
	}
	return ".o"
}

// IsStandalone reports whether all modules are linked into one executable.
func (s *BuildSettings) IsStandalone() bool {
	return s.Type == BuildStandalone
}

// Defines returns the preprocessor definitions implied by the settings.
func (s *BuildSettings) Defines() []string {
	defines := []string{
		"RYBUILD_CONFIG_" + string(s.Config),
		"RBUILD_TARGET_OS_" + strings.ToUpper(string(s.Target.OS)),
	}
	if s.Distribute {
		defines = append(defines, "RYBUILD_DISTRIBUTE")
	}
	if s.IsStandalone() {
		defines = append(defines, "RYBUILD_STANDALONE")
	}
	if s.Target.OS == OSWindows {
		defines = append(defines, "_WIN32_WINNT=0x0502")
	}
	return defines
}

// StandaloneExecutable returns the file name of the standalone executable.
func (s *BuildSettings) StandaloneExecutable() string {
	name := s.StandaloneName
	if name == "" {
		name = DefaultStandaloneName
	}
	switch s.Target.OS {
	case OSWindows:
		return name + ".exe"
	case OSMac:
		return name
	default:
		return name + ".out"
	}
}

// SharedLibraryName returns the file name of a shared library artifact.
func (s *BuildSettings) SharedLibraryName(artifact string) string {
	switch s.Target.OS {
	case OSWindows:
		return artifact + ".dll"
	case OSMac:
		return "lib" + artifact + ".dylib"
	default:
		return "lib" + artifact + ".so"
	}
}

// ExecutableName returns the file name of an executable artifact.
func (s *BuildSettings) ExecutableName(artifact string) string {
	switch s.Target.OS {
	case OSWindows:
		return artifact + ".exe"
	case OSMac:
		return artifact
	default:
		return artifact + ".out"
	}
}

// ImportLibraryName returns the file name of the import library produced alongside
// a Windows shared library, or "" for other targets.
func (s *BuildSettings) ImportLibraryName(artifact string) string {
	if s.Target.OS != OSWindows {
		return ""
	}
	return artifact + ".lib"
}
