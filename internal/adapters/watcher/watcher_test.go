package watcher_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rybuild/internal/adapters/watcher"
	"go.trai.ch/rybuild/internal/core/ports"
)

func TestWatchRecursively_SkipsOutputs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{
		"UI/Source",
		"UI/Intermediate/Generated",
		"Binary",
		".git/objects",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o750))
	}

	dirs := slices.Collect(watcher.WatchRecursively(root))

	assert.Equal(t, []string{
		root,
		filepath.Join(root, "UI"),
		filepath.Join(root, "UI", "Source"),
	}, dirs)
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Core", "Source")
	require.NoError(t, os.MkdirAll(src, 0o750))

	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context(), root))

	file := filepath.Join(src, "Object.cpp")
	require.NoError(t, os.WriteFile(file, []byte("int x;"), 0o600))

	found := make(chan ports.WatchEvent, 1)
	go func() {
		for ev := range w.Events() {
			if ev.Path == file {
				found <- ev
				return
			}
		}
	}()

	select {
	case ev := <-found:
		assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for watch event")
	}

	require.NoError(t, w.Stop())
}
