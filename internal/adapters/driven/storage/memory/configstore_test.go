package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("listing.page_size", int64(50)))
	require.NoError(t, store.Set("listing.page_size", int64(20)))

	val, ok := store.Get("listing.page_size")
	assert.True(t, ok)
	assert.Equal(t, int64(20), val)
	assert.Equal(t, 2, store.Saves())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStoreWith(map[string]any{
		"s":     "text",
		"i":     7,
		"i64":   int64(8),
		"f":     9.0,
		"b":     true,
		"slice": []any{"a", 1, "b"},
	})

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"string", store.GetString("s"), "text"},
		{"string wrong type", store.GetString("i"), ""},
		{"int", store.GetInt("i"), 7},
		{"int64", store.GetInt("i64"), 8},
		{"float", store.GetInt("f"), 9},
		{"int missing", store.GetInt("missing"), 0},
		{"bool", store.GetBool("b"), true},
		{"bool wrong type", store.GetBool("s"), false},
		{"slice", store.GetStringSlice("slice"), []string{"a", "b"}},
		{"slice missing", store.GetStringSlice("missing"), []string(nil)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.got)
		})
	}
}

func TestConfigStore_Path(t *testing.T) {
	store := NewConfigStore()
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Load())
	assert.NoError(t, store.Save())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("k", "v")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("k")
		}()
	}
	wg.Wait()
	assert.Equal(t, "v", store.GetString("k"))
}
