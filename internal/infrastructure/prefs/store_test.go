package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "prefs.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDarkModeAbsentByDefault(t *testing.T) {
	store := openTestStore(t)

	enabled, found, err := store.DarkMode()
	require.NoError(t, err)
	assert.False(t, found, "fresh store has no flag, caller falls back to its default")
	assert.False(t, enabled)
}

func TestDarkModePersistsAcrossToggles(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetDarkMode(true))
	enabled, found, err := store.DarkMode()
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, enabled)

	require.NoError(t, store.SetDarkMode(false))
	enabled, found, err = store.DarkMode()
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, enabled)
}

func TestDarkModeSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	store, err := Open(path, "")
	require.NoError(t, err)
	require.NoError(t, store.SetDarkMode(true))
	require.NoError(t, store.Close())

	reopened, err := Open(path, "")
	require.NoError(t, err)
	defer reopened.Close()

	enabled, found, err := reopened.DarkMode()
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, enabled)
}

func TestHealthy(t *testing.T) {
	store := openTestStore(t)
	assert.True(t, store.Healthy())

	var nilStore *Store
	assert.False(t, nilStore.Healthy())
}
