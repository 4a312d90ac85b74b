package codegen_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rybuild/internal/adapters/fs"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports/mocks"
	"go.trai.ch/rybuild/internal/engine/codegen"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

type fixture struct {
	graph     *domain.Graph
	module    *domain.Module
	settings  *domain.BuildSettings
	generator *mocks.MockGenerator
	logger    *mocks.MockLogger
	pipeline  *codegen.Pipeline
}

func newFixture(t *testing.T, headers ...string) *fixture {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Core")
	m := &domain.Module{Name: "Core", RootDir: root}
	writeFile(t, filepath.Join(m.SourceDir(), "Renderer.cpp"), "int x;\n")
	for _, h := range headers {
		writeFile(t, filepath.Join(m.IncludeDir(), h), "#pragma once\n")
	}

	g := domain.NewGraph()
	require.NoError(t, g.AddModule(m))

	ctrl := gomock.NewController(t)
	gen := mocks.NewMockGenerator(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	s := domain.DefaultSettings()
	s.Generator = "reflect"
	s.Jobs = 2

	return &fixture{
		graph:     g,
		module:    m,
		settings:  s,
		generator: gen,
		logger:    logger,
		pipeline:  codegen.NewPipeline(gen, fs.NewScanner(fs.NewWalker()), logger),
	}
}

func (f *fixture) run() error {
	return f.pipeline.Run(context.Background(), f.graph, []string{"Core"}, f.settings)
}

func (f *fixture) generated(name string) string {
	return filepath.Join(f.module.GeneratedDir(), name)
}

func emit(body string) func(context.Context, domain.GenerateRequest) (domain.CommandResult, error) {
	return func(_ context.Context, req domain.GenerateRequest) (domain.CommandResult, error) {
		return domain.CommandResult{}, os.WriteFile(req.Output, []byte(body), domain.FilePerm)
	}
}

func tmpFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	return matches
}

func TestRun_CommitsGeneratedHeaders(t *testing.T) {
	f := newFixture(t, "Renderer.h")

	f.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req domain.GenerateRequest) (domain.CommandResult, error) {
			assert.Equal(t, "reflect", req.Program)
			assert.Equal(t, filepath.Join(f.module.SourceDir(), "Renderer.cpp"), req.Source)
			assert.Equal(t, "Renderer.h", req.Header)
			assert.Equal(t, f.module.GeneratedDir(), filepath.Dir(req.Output))
			assert.Equal(t, []string{"COMPILE_MODULE_CORE"}, req.Defines)
			assert.Contains(t, req.IncludeDirs, f.module.IncludeDir())
			assert.Contains(t, req.IncludeDirs, f.module.GeneratedDir())
			return emit("// reflected\n")(ctx, req)
		})

	require.NoError(t, f.run())

	assert.Equal(t, string(codegen.ModuleHeader(f.module)), readFile(t, f.generated("CoreGen.h")))
	assert.Equal(t, "#include \"CoreGen.h\"\n// reflected\n", readFile(t, f.generated("Renderer.gen.h")))
	assert.Empty(t, tmpFiles(t, f.module.GeneratedDir()))
}

func TestRun_HeaderOnlyUsesHeaderAsSource(t *testing.T) {
	f := newFixture(t, "Types.h")

	f.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req domain.GenerateRequest) (domain.CommandResult, error) {
			assert.Equal(t, filepath.Join(f.module.IncludeDir(), "Types.h"), req.Source)
			return emit("// types\n")(ctx, req)
		})

	require.NoError(t, f.run())
}

func TestRun_RollbackKeepsPreviousHeader(t *testing.T) {
	f := newFixture(t, "Renderer.h", "Types.h")

	previous := "#include \"CoreGen.h\"\n// previous\n"
	writeFile(t, f.generated("Renderer.gen.h"), previous)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(f.generated("Renderer.gen.h"), past, past))

	f.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req domain.GenerateRequest) (domain.CommandResult, error) {
			if req.Header == "Renderer.h" {
				// Partial output followed by a crash.
				_ = os.WriteFile(req.Output, []byte("// trunc"), domain.FilePerm)
				return domain.CommandResult{Output: []byte("parse error"), ExitCode: 1}, errors.New("exit status 1")
			}
			return emit("// types\n")(ctx, req)
		}).Times(2)
	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	err := f.run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCodeGenFailed.Error())

	assert.Equal(t, previous, readFile(t, f.generated("Renderer.gen.h")))
	assert.Equal(t, "#include \"CoreGen.h\"\n// types\n", readFile(t, f.generated("Types.gen.h")))
	assert.Empty(t, tmpFiles(t, f.module.GeneratedDir()))
}

func TestRun_MissingOutputLeavesStub(t *testing.T) {
	f := newFixture(t, "Renderer.h")

	f.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(domain.CommandResult{}, nil)
	f.logger.EXPECT().Error(gomock.Any())

	err := f.run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCodeGenFailed.Error())
	assert.Equal(t, codegen.Stub, readFile(t, f.generated("Renderer.gen.h")))
}

func TestRun_UpToDateSkipsGenerator(t *testing.T) {
	f := newFixture(t, "Renderer.h")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(f.module.IncludeDir(), "Renderer.h"), past, past))
	writeFile(t, f.generated("Renderer.gen.h"), "// current\n")

	require.NoError(t, f.run())
	assert.Equal(t, "// current\n", readFile(t, f.generated("Renderer.gen.h")))
}

func TestRun_FailedHeaderIsRetried(t *testing.T) {
	f := newFixture(t, "Renderer.h")

	f.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).
		Return(domain.CommandResult{ExitCode: 1}, errors.New("exit status 1")).
		Times(2)
	f.logger.EXPECT().Error(gomock.Any()).Times(2)

	for range 2 {
		err := f.run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrCodeGenFailed.Error())
	}
	assert.Equal(t, codegen.Stub, readFile(t, f.generated("Renderer.gen.h")))
}

func TestRun_NoGeneratorWritesBaseHeaderAndStubs(t *testing.T) {
	f := newFixture(t, "Renderer.h")
	f.settings.Generator = ""

	require.NoError(t, f.run())

	assert.FileExists(t, f.generated("CoreGen.h"))
	assert.Equal(t, codegen.Stub, readFile(t, f.generated("Renderer.gen.h")))
}

func TestRun_StubsRegenerateOnceGeneratorIsSet(t *testing.T) {
	f := newFixture(t, "Renderer.h")
	f.settings.Generator = ""
	require.NoError(t, f.run())

	f.settings.Generator = "reflect"
	f.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(emit("// reflected\n"))
	require.NoError(t, f.run())

	assert.Equal(t, "#include \"CoreGen.h\"\n// reflected\n", readFile(t, f.generated("Renderer.gen.h")))
}

func TestRun_UnknownModule(t *testing.T) {
	f := newFixture(t)

	err := f.pipeline.Run(context.Background(), f.graph, []string{"Ghost"}, f.settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrModuleNotFound.Error())
}

func TestModuleHeader(t *testing.T) {
	out := string(codegen.ModuleHeader(&domain.Module{Name: "Core"}))

	assert.True(t, strings.HasPrefix(out, "#pragma once\n"))
	assert.Contains(t, out, "#elif defined(COMPILE_MODULE_CORE)")
	assert.Contains(t, out, "#define CORE_MODULE __declspec(dllexport)")
	assert.Contains(t, out, `#define CORE_MODULE __attribute__((visibility("default")))`)
}
