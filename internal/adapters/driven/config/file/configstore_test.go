package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".yuque-export", "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("auth.cookie", "a=b"))
	require.NoError(t, store.Set("listing.page_size", int64(20)))
	require.NoError(t, store.Set("export.include_title", false))
	require.NoError(t, store.Set("http.requests_per_second", 2.5))

	assert.Equal(t, "a=b", store.GetString("auth.cookie"))
	assert.Equal(t, 20, store.GetInt("listing.page_size"))
	assert.False(t, store.GetBool("export.include_title"))
	assert.Equal(t, "", store.GetString("listing.page_size"))
	assert.Equal(t, 0, store.GetInt("auth.cookie"))

	_, ok := store.Get("missing.key")
	assert.False(t, ok)
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("listing.page_size", int64(20)))
	require.NoError(t, store.Set("listing.result_cap", int64(500)))
	require.NoError(t, store.Set("auth.cookie", "a=b"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[listing]")
	assert.Contains(t, string(raw), "page_size = 20")
	assert.Contains(t, string(raw), "[auth]")
}

func TestConfigStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("listing.page_size", int64(20)))
	require.NoError(t, store.Set("export.timezone", "UTC"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 20, reopened.GetInt("listing.page_size"))
	assert.Equal(t, "UTC", reopened.GetString("export.timezone"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := "[upstream]\nbase_url = \"https://yuque.example.com\"\n\n[details]\nconcurrency = 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, "https://yuque.example.com", store.GetString("upstream.base_url"))
	assert.Equal(t, 3, store.GetInt("details.concurrency"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("auth.cookie", "secret=1"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_Load_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_SetConflictRollsBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("listing.page_size", int64(20)))

	err = store.Set("listing", "scalar")

	assert.Error(t, err)
	_, ok := store.Get("listing")
	assert.False(t, ok)
	assert.Equal(t, 20, store.GetInt("listing.page_size"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("listing.page_size", int64(10))
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("listing.page_size")
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, store.GetInt("listing.page_size"))
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{"a.b": 1, "a.c": "x", "d": true})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": 1, "c": "x"}, "d": true}, nested)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c": "x", "d": true}, flattenMap(nested, ""))
}
