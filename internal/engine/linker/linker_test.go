package linker_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports/mocks"
	"go.trai.ch/rybuild/internal/engine/linker"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	graph     *domain.Graph
	layout    domain.Layout
	settings  *domain.BuildSettings
	state     *domain.BuildState
	toolchain *mocks.MockToolchain
	logger    *mocks.MockLogger
	linker    *linker.Linker

	existing map[string]bool
	listing  map[string][]string
}

// newFixture builds App -> UI -> Core below /work/Game/Modules. Every source has an object.
func newFixture(t *testing.T, s *domain.BuildSettings) *fixture {
	t.Helper()
	f := &fixture{
		graph:    domain.NewGraph(),
		settings: s,
		state:    domain.NewBuildState(),
		existing: map[string]bool{},
		listing:  map[string][]string{},
	}
	f.layout = domain.NewLayout("/work/Game/Modules", s)

	for _, m := range []*domain.Module{
		{Name: "Core", Type: domain.ModuleRuntime},
		{Name: "UI", Type: domain.ModuleRuntime, Dependencies: []string{"Core"}},
		{Name: "App", Type: domain.ModuleExecutable, Dependencies: []string{"UI"}},
	} {
		m.RootDir = filepath.Join("/work/Game/Modules", m.Name)
		require.NoError(t, f.graph.AddModule(m))
	}

	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	fs.EXPECT().ModuleFiles(gomock.Any()).DoAndReturn(func(m *domain.Module) (domain.ModuleFiles, error) {
		return domain.ModuleFiles{Sources: []string{filepath.Join(m.SourceDir(), m.Name+".cpp")}}, nil
	}).AnyTimes()
	fs.EXPECT().ModTime(gomock.Any()).DoAndReturn(func(path string) (time.Time, bool, error) {
		return time.Time{}, f.existing[path], nil
	}).AnyTimes()
	fs.EXPECT().ListFiles(gomock.Any()).DoAndReturn(func(dir string) ([]string, error) {
		return f.listing[dir], nil
	}).AnyTimes()

	for m := range f.graph.Modules() {
		f.existing[f.object(m.Name)] = true
	}

	f.toolchain = mocks.NewMockToolchain(ctrl)
	f.logger = mocks.NewMockLogger(ctrl)
	f.linker = linker.New(f.toolchain, fs, f.logger)
	return f
}

func (f *fixture) object(module string) string {
	return filepath.Join(f.layout.Project.Object, module, module+f.settings.ObjectExtension())
}

func (f *fixture) module(name string) *domain.Module {
	m, _ := f.graph.Module(name)
	return m
}

func (f *fixture) linkModule(name string) error {
	return f.linker.LinkModule(context.Background(), f.graph, f.module(name), f.layout, f.settings, f.state)
}

func linuxSettings() *domain.BuildSettings {
	s := domain.DefaultSettings()
	s.Host = domain.Platform{OS: domain.OSLinux, Arch: domain.ArchX64}
	s.Target = s.Host
	return s
}

func capture(req *domain.LinkRequest) func(context.Context, domain.LinkRequest) (domain.CommandResult, error) {
	return func(_ context.Context, r domain.LinkRequest) (domain.CommandResult, error) {
		*req = r
		return domain.CommandResult{}, nil
	}
}

func TestLinkModule_SharedLibrary(t *testing.T) {
	f := newFixture(t, linuxSettings())

	var req domain.LinkRequest
	f.toolchain.EXPECT().Link(gomock.Any(), gomock.Any()).DoAndReturn(capture(&req))

	require.NoError(t, f.linkModule("UI"))

	assert.Equal(t, domain.LinkShared, req.Kind)
	assert.Equal(t, filepath.Join("/work/Game/Binary", "libRyRuntime-UI.so"), req.Output)
	assert.Equal(t, []string{f.object("UI")}, req.Objects)
	assert.Equal(t, []string{"RyRuntime-Core"}, req.Modules)
	assert.Contains(t, req.LibraryDirs, f.layout.Project.Binary)
	assert.Empty(t, req.ImportLibrary)
	assert.True(t, f.state.Get("UI").BuiltSuccessfully)
}

func TestLinkModule_ProjectExecutableIsSharedDuringDevelopment(t *testing.T) {
	f := newFixture(t, linuxSettings())

	var req domain.LinkRequest
	f.toolchain.EXPECT().Link(gomock.Any(), gomock.Any()).DoAndReturn(capture(&req))

	require.NoError(t, f.linkModule("App"))

	assert.Equal(t, domain.LinkShared, req.Kind)
	assert.Equal(t, []string{"RyRuntime-UI"}, req.Modules)
}

func TestLinkModule_ExecutableLinksClosureInLinkOrder(t *testing.T) {
	s := linuxSettings()
	s.Distribute = true
	f := newFixture(t, s)

	var req domain.LinkRequest
	f.toolchain.EXPECT().Link(gomock.Any(), gomock.Any()).DoAndReturn(capture(&req))

	require.NoError(t, f.linkModule("App"))

	assert.Equal(t, domain.LinkExecutable, req.Kind)
	assert.Equal(t, filepath.Join("/work/Game/Binary", "RyRuntime-App.out"), req.Output)
	assert.Equal(t, []string{"RyRuntime-UI", "RyRuntime-Core"}, req.Modules)
}

func TestLinkModule_WindowsImportLibrary(t *testing.T) {
	s := linuxSettings()
	s.Target.OS = domain.OSWindows
	f := newFixture(t, s)

	var req domain.LinkRequest
	f.toolchain.EXPECT().Link(gomock.Any(), gomock.Any()).DoAndReturn(capture(&req))

	require.NoError(t, f.linkModule("Core"))

	assert.Equal(t, filepath.Join("/work/Game/Binary", "RyRuntime-Core.dll"), req.Output)
	assert.Equal(t, filepath.Join("/work/Game/Intermediate/Libraries", "RyRuntime-Core.lib"), req.ImportLibrary)
	assert.Equal(t, []string{filepath.Join(f.layout.Project.Object, "Core", "Core.obj")}, req.Objects)
}

func TestLinkModule_ExternLibraries(t *testing.T) {
	s := linuxSettings()
	f := newFixture(t, s)
	glfw := domain.Extern{Name: "glfw", Root: "/ry/External/glfw"}
	core := f.module("Core")
	core.Extern = []domain.Extern{glfw}
	core.Libraries = []string{"pthread"}
	f.listing[glfw.BinaryDir(s)] = []string{"libglfw.so"}
	f.listing[glfw.LibraryDir(s)] = []string{"libglad.a"}

	var req domain.LinkRequest
	f.toolchain.EXPECT().Link(gomock.Any(), gomock.Any()).DoAndReturn(capture(&req))

	require.NoError(t, f.linkModule("Core"))

	assert.Equal(t, []string{"libglad.a", "libglfw.so", "pthread"}, req.Libraries)
	assert.Contains(t, req.LibraryDirs, glfw.LibraryDir(s))
	assert.Contains(t, req.LibraryDirs, glfw.BinaryDir(s))
}

func TestLinkModule_MissingObject(t *testing.T) {
	f := newFixture(t, linuxSettings())
	delete(f.existing, f.object("Core"))

	err := f.linkModule("Core")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrMissingObjects.Error())
	assert.False(t, f.state.Get("Core").BuiltSuccessfully)
}

func TestLinkModule_LinkFailure(t *testing.T) {
	f := newFixture(t, linuxSettings())
	f.toolchain.EXPECT().Link(gomock.Any(), gomock.Any()).
		Return(domain.CommandResult{Output: []byte("undefined reference"), ExitCode: 1}, errors.New("exit status 1"))

	err := f.linkModule("Core")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrLinkFailed.Error())
	assert.False(t, f.state.Get("Core").BuiltSuccessfully)
}

func TestLinkStandalone(t *testing.T) {
	s := linuxSettings()
	s.Type = domain.BuildStandalone
	s.StandaloneName = "Game"
	f := newFixture(t, s)
	objectRoot := filepath.Join("/out", "Object")
	for m := range f.graph.Modules() {
		f.existing[filepath.Join(objectRoot, m.Name, m.Name+".o")] = true
	}

	var req domain.LinkRequest
	f.toolchain.EXPECT().Link(gomock.Any(), gomock.Any()).DoAndReturn(capture(&req))
	f.logger.EXPECT().Info("Linking standalone Game.out")

	require.NoError(t, f.linker.LinkStandalone(context.Background(), f.graph, objectRoot, "/out", s))

	assert.Equal(t, domain.LinkStandalone, req.Kind)
	assert.Equal(t, filepath.Join("/out", "Game.out"), req.Output)
	assert.Equal(t, []string{
		filepath.Join(objectRoot, "App", "App.o"),
		filepath.Join(objectRoot, "Core", "Core.o"),
		filepath.Join(objectRoot, "UI", "UI.o"),
	}, req.Objects)
	assert.Empty(t, req.Modules)
	assert.Equal(t, objectRoot, req.LibraryDirs[0])
}

func TestArtifactPath(t *testing.T) {
	s := linuxSettings()
	l := domain.NewLayout("/work/Game/Modules", s)

	assert.Equal(t, filepath.Join("/work/Game/Binary", "libRyRuntime-Core.so"),
		linker.ArtifactPath(&domain.Module{Name: "Core"}, l, s))
}
