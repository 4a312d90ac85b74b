package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rybuild/internal/adapters/cas"
	"go.trai.ch/rybuild/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Intermediate", "rybuild_state.json")
	store := cas.NewStore()

	info := domain.BuildInfo{
		Module:      "Core",
		Artifact:    "libRyRuntime-Core.so",
		Fingerprint: "abc",
		RunID:       "run-1",
		Timestamp:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Put(path, info))

	got, err := store.Get(path, "Core")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info, *got)

	missing, err := store.Get(path, "UI")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, cas.NewStore().Put(path, domain.BuildInfo{Module: "Core", Fingerprint: "1"}))
	require.NoError(t, cas.NewStore().Put(path, domain.BuildInfo{Module: "UI", Fingerprint: "2"}))

	store := cas.NewStore()
	core, err := store.Get(path, "Core")
	require.NoError(t, err)
	require.NotNil(t, core)
	assert.Equal(t, "1", core.Fingerprint)

	ui, err := store.Get(path, "UI")
	require.NoError(t, err)
	require.NotNil(t, ui)
	assert.Equal(t, "2", ui.Fingerprint)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := cas.NewStore().Get(path, "Core")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrStoreReadFailed.Error())
}

func TestStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	got, err := cas.NewStore().Get(path, "Core")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := cas.NewStore()
	require.NoError(t, store.Put(path, domain.BuildInfo{Module: "Core"}))

	require.NoError(t, os.Remove(path))
	store.Reset(path)

	got, err := store.Get(path, "Core")
	require.NoError(t, err)
	assert.Nil(t, got)
}
