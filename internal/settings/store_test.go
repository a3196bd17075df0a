package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveMergesIntoExisting(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(map[string]any{"theme": "dark", "windowWidth": 1280}))
	require.NoError(t, store.Save(map[string]any{"theme": "light"}))

	// a partial save keeps unrelated keys
	reloaded, err := NewStore(dir)
	require.NoError(t, err)
	all := reloaded.All()
	assert.Equal(t, "light", all["theme"])
	assert.EqualValues(t, 1280, all["windowWidth"])
}

func TestMissingConfigFileIsEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, store.All())
	assert.Empty(t, store.DisabledFields())
}

func TestBrokenConfigFileErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o644))

	_, err := NewStore(dir)
	assert.Error(t, err)
}

func TestDisabledFieldsParsesStringList(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(map[string]any{
		"disabledFields": []any{"cover", "notes", 42},
	}))

	got := store.DisabledFields()
	assert.True(t, got["cover"])
	assert.True(t, got["notes"])
	assert.Len(t, got, 2, "non-string entries are ignored")
}
