package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rybuild/internal/adapters/fs"
	"go.trai.ch/rybuild/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "x")
	writeFile(t, filepath.Join(root, "Intermediate", "a.o"), "x")
	writeFile(t, filepath.Join(root, "Source", "a.cpp"), "x")
	writeFile(t, filepath.Join(root, "Core.module"), "{}")

	files := slices.Collect(fs.NewWalker().WalkFiles(root, []string{"Intermediate"}))
	slices.Sort(files)

	assert.Equal(t, []string{
		filepath.Join(root, "Core.module"),
		filepath.Join(root, "Source", "a.cpp"),
	}, files)
}

func TestWalker_MissingRoot(t *testing.T) {
	files := slices.Collect(fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "missing"), nil))
	assert.Empty(t, files)
}

func TestScanner_ModuleFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Source", "b.cpp"), "")
	writeFile(t, filepath.Join(root, "Source", "sub", "a.c"), "")
	writeFile(t, filepath.Join(root, "Source", "inline.hpp"), "")
	writeFile(t, filepath.Join(root, "Source", "notes.txt"), "")
	writeFile(t, filepath.Join(root, "Include", "b.h"), "")
	writeFile(t, filepath.Join(root, "Include", "detail", "only.h"), "")
	writeFile(t, filepath.Join(root, "Include", "inline.hpp"), "")
	writeFile(t, filepath.Join(root, "Source", "Detail.h"), "")

	m := &domain.Module{Name: "Core", RootDir: root}
	files, err := fs.NewScanner(fs.NewWalker()).ModuleFiles(m)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "Source", "b.cpp"),
		filepath.Join(root, "Source", "inline.hpp"),
		filepath.Join(root, "Source", "sub", "a.c"),
	}, files.Sources)
	assert.Equal(t, []string{
		filepath.Join(root, "Include", "b.h"),
		filepath.Join(root, "Include", "detail", "only.h"),
		filepath.Join(root, "Include", "inline.hpp"),
		filepath.Join(root, "Source", "Detail.h"),
	}, files.Headers)
}

func TestScanner_ModuleFiles_NoDirectories(t *testing.T) {
	m := &domain.Module{Name: "Empty", RootDir: t.TempDir()}
	files, err := fs.NewScanner(fs.NewWalker()).ModuleFiles(m)
	require.NoError(t, err)
	assert.Empty(t, files.Sources)
	assert.Empty(t, files.Headers)
}

func TestScanner_ModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.o")
	s := fs.NewScanner(fs.NewWalker())

	_, ok, err := s.ModTime(path)
	require.NoError(t, err)
	assert.False(t, ok)

	writeFile(t, path, "")
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	got, ok, err := s.ModTime(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, stamp.Equal(got))
}

func TestHasher_ComputeFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.h")
	writeFile(t, path, "#pragma once\n")

	got, err := fs.NewHasher().ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("#pragma once\n"), got)

	_, err = fs.NewHasher().ComputeFileHash(path + ".missing")
	assert.Error(t, err)
}

func TestHasher_Fingerprint(t *testing.T) {
	h := fs.NewHasher()
	settings := domain.DefaultSettings()
	base := func() *domain.Module {
		return &domain.Module{
			Name:         "UI",
			Type:         domain.ModuleRuntime,
			Dependencies: []string{"Core"},
			Macros:       []string{"UI_API"},
		}
	}

	fp := h.Fingerprint(base(), settings)
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, h.Fingerprint(base(), settings), "fingerprint must be deterministic")

	changedMacros := base()
	changedMacros.Macros = append(changedMacros.Macros, "EXTRA")
	assert.NotEqual(t, fp, h.Fingerprint(changedMacros, settings))

	// Moving a value between fields must change the fingerprint.
	moved := base()
	moved.Dependencies = nil
	moved.Macros = []string{"Core", "UI_API"}
	assert.NotEqual(t, fp, h.Fingerprint(moved, settings))

	shipping := *settings
	shipping.Config = domain.ConfigShipping
	assert.NotEqual(t, fp, h.Fingerprint(base(), &shipping))
}

func TestScanner_ListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "libglfw.so"), "")
	writeFile(t, filepath.Join(dir, "glfw.a"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), domain.DirPerm))

	s := fs.NewScanner(fs.NewWalker())

	names, err := s.ListFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"glfw.a", "libglfw.so"}, names)

	names, err = s.ListFiles(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
