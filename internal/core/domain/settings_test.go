package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func linuxSettings() *domain.BuildSettings {
	return &domain.BuildSettings{
		Config:  domain.ConfigDevelopment,
		Type:    domain.BuildModular,
		Toolset: domain.ToolsetGCC,
		Host:    domain.Platform{OS: domain.OSLinux, Arch: domain.ArchX64},
		Target:  domain.Platform{OS: domain.OSLinux, Arch: domain.ArchX64},
	}
}

func TestParseSettings(t *testing.T) {
	os, err := domain.ParseOS("Mac")
	require.NoError(t, err)
	assert.Equal(t, domain.OSMac, os)

	arch, err := domain.ParseArch("x86_64")
	require.NoError(t, err)
	assert.Equal(t, domain.ArchX64, arch)

	cfg, err := domain.ParseConfig("Shipping")
	require.NoError(t, err)
	assert.Equal(t, domain.ConfigShipping, cfg)

	bt, err := domain.ParseBuildType("Standalone")
	require.NoError(t, err)
	assert.Equal(t, domain.BuildStandalone, bt)

	_, err = domain.ParseConfig("Debug")
	require.Error(t, err)
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "BuildConfig", zErr.Metadata()["setting"])
	assert.Equal(t, "Debug", zErr.Metadata()["value"])
}

func TestBuildSettings_CheckCompatibility(t *testing.T) {
	tests := []struct {
		name    string
		host    domain.OS
		target  domain.OS
		toolset domain.Toolset
		wantErr bool
	}{
		{"linux native", domain.OSLinux, domain.OSLinux, domain.ToolsetGCC, false},
		{"linux to windows", domain.OSLinux, domain.OSWindows, domain.ToolsetGCC, false},
		{"linux to mac", domain.OSLinux, domain.OSMac, domain.ToolsetGCC, true},
		{"linux with msvc", domain.OSLinux, domain.OSLinux, domain.ToolsetMSVC, true},
		{"windows native", domain.OSWindows, domain.OSWindows, domain.ToolsetMSVC, false},
		{"windows cross", domain.OSWindows, domain.OSLinux, domain.ToolsetGCC, true},
		{"mac native", domain.OSMac, domain.OSMac, domain.ToolsetGCC, false},
		{"mac to linux", domain.OSMac, domain.OSLinux, domain.ToolsetGCC, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := linuxSettings()
			s.Host.OS = tt.host
			s.Target.OS = tt.target
			s.Toolset = tt.toolset

			err := s.CheckCompatibility()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), domain.ErrIncompatibleSettings.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildSettings_TargetPath(t *testing.T) {
	s := linuxSettings()
	assert.Equal(t, filepath.Join("x64", "Linux", "GCC"), s.TargetPath())

	s.Target = domain.Platform{OS: domain.OSWindows, Arch: domain.ArchX64}
	assert.Equal(t, filepath.Join("x64", "Windows", "MinGW"), s.TargetPath())
	assert.Equal(t, ".obj", s.ObjectExtension())
}

func TestBuildSettings_ArtifactNames(t *testing.T) {
	tests := []struct {
		os         domain.OS
		shared     string
		executable string
		importLib  string
		standalone string
	}{
		{domain.OSLinux, "libRyRuntime-UI.so", "RyRuntime-UI.out", "", "Game.out"},
		{domain.OSWindows, "RyRuntime-UI.dll", "RyRuntime-UI.exe", "RyRuntime-UI.lib", "Game.exe"},
		{domain.OSMac, "libRyRuntime-UI.dylib", "RyRuntime-UI", "", "Game"},
	}

	for _, tt := range tests {
		t.Run(string(tt.os), func(t *testing.T) {
			s := linuxSettings()
			s.Target.OS = tt.os
			s.StandaloneName = "Game"

			assert.Equal(t, tt.shared, s.SharedLibraryName("RyRuntime-UI"))
			assert.Equal(t, tt.executable, s.ExecutableName("RyRuntime-UI"))
			assert.Equal(t, tt.importLib, s.ImportLibraryName("RyRuntime-UI"))
			assert.Equal(t, tt.standalone, s.StandaloneExecutable())
		})
	}
}

func TestBuildSettings_Defines(t *testing.T) {
	s := linuxSettings()
	assert.Equal(t, []string{"RYBUILD_CONFIG_Development", "RBUILD_TARGET_OS_LINUX"}, s.Defines())

	s.Distribute = true
	s.Type = domain.BuildStandalone
	s.Config = domain.ConfigShipping
	s.Target.OS = domain.OSWindows
	assert.Equal(t, []string{
		"RYBUILD_CONFIG_Shipping",
		"RBUILD_TARGET_OS_WINDOWS",
		"RYBUILD_DISTRIBUTE",
		"RYBUILD_STANDALONE",
		"_WIN32_WINNT=0x0502",
	}, s.Defines())
}

func TestModule_IsExecutable(t *testing.T) {
	dev := linuxSettings()
	dist := linuxSettings()
	dist.Distribute = true

	engineExe := &domain.Module{Name: "Launcher", Type: domain.ModuleExecutable, IsEngineModule: true}
	projectExe := &domain.Module{Name: "Game", Type: domain.ModuleExecutable}
	runtimeLib := &domain.Module{Name: "Core", Type: domain.ModuleRuntime, IsEngineModule: true}

	assert.True(t, engineExe.IsExecutable(dev))
	assert.False(t, engineExe.IsExecutable(dist))
	assert.False(t, projectExe.IsExecutable(dev))
	assert.True(t, projectExe.IsExecutable(dist))
	assert.False(t, runtimeLib.IsExecutable(dev))
	assert.False(t, runtimeLib.IsExecutable(dist))
}

func TestModule_Paths(t *testing.T) {
	m := &domain.Module{Name: "Core", RootDir: "/p/Modules/Core"}

	assert.Equal(t, filepath.Join("/p/Modules/Core", "Source"), m.SourceDir())
	assert.Equal(t, filepath.Join("/p/Modules/Core", "Include"), m.IncludeDir())
	assert.Equal(t, filepath.Join("/p/Modules/Core", "Intermediate", "Generated"), m.GeneratedDir())
	assert.Equal(t, filepath.Join("/p/Modules/Core", "Intermediate", "Generated", "CoreGen.h"), m.GeneratedModuleHeader())
	assert.Equal(t, "RyRuntime-Core", m.ArtifactName())
	assert.Equal(t, "COMPILE_MODULE_CORE", m.CompileDefine())
}
