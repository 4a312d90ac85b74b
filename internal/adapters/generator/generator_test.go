package generator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rybuild/internal/adapters/generator"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestArgs(t *testing.T) {
	args := generator.Args(domain.GenerateRequest{
		Source:      "/m/UI/Source/Button.cpp",
		Header:      "/m/UI/Include/Button.h",
		Output:      "/m/UI/Intermediate/Generated/Button.gen.h",
		IncludeDirs: []string{"/m/UI/Include", "/m/Core/Include"},
		Defines:     []string{"COMPILE_MODULE_UI"},
	})

	assert.Equal(t, []string{
		"/m/UI/Source/Button.cpp",
		"/m/UI/Include/Button.h",
		"/m/UI/Intermediate/Generated/Button.gen.h",
		"-Include=/m/UI/Include",
		"-Include=/m/Core/Include",
		"-Define=COMPILE_MODULE_UI",
	}, args)
}

func TestGenerate(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	req := domain.GenerateRequest{Program: "rygen", Source: "a.cpp", Header: "a.h", Output: "a.gen.h"}
	executor.EXPECT().
		Run(gomock.Any(), domain.Command{Program: "rygen", Args: []string{"a.cpp", "a.h", "a.gen.h"}}).
		Return(domain.CommandResult{ExitCode: 2}, errors.New("exit status 2"))

	res, err := generator.New(executor).Generate(t.Context(), req)
	require.Error(t, err)
	assert.Equal(t, 2, res.ExitCode)
}

func TestGenerate_NoProgram(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	_, err := generator.New(executor).Generate(t.Context(), domain.GenerateRequest{})
	require.ErrorIs(t, err, domain.ErrCodeGenFailed)
}
