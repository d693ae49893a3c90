package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yuque-export/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{
		KeyBaseURL:           "https://yuque.example.com",
		KeyHTTPTimeout:       int64(5),
		KeyRequestsPerSecond: int64(2),
		KeyCookie:            "a=b",
		KeyPageSize:          int64(20),
		KeyResultCap:         int64(100),
		KeyPageDelay:         int64(0),
		KeyConcurrency:       int64(3),
		KeyChunkDelay:        int64(250),
		KeyIncludeTitle:      false,
		KeyTimezone:          "Asia/Shanghai",
		KeyOutputDir:         "/tmp/out",
	})

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, "https://yuque.example.com", settings.Upstream.BaseURL)
	assert.Equal(t, 5*time.Second, settings.Upstream.Timeout)
	assert.Equal(t, 2.0, settings.Upstream.RequestsPerSecond)
	assert.Equal(t, "a=b", settings.Auth.Cookie)
	assert.True(t, settings.Auth.IsConfigured())
	assert.Equal(t, 20, settings.Listing.PageSize)
	assert.Equal(t, 100, settings.Listing.ResultCap)
	assert.Equal(t, time.Duration(0), settings.Listing.PageDelay)
	assert.Equal(t, 3, settings.Details.Concurrency)
	assert.Equal(t, 250*time.Millisecond, settings.Details.ChunkDelay)
	assert.False(t, settings.Export.Format.IncludeTitle)
	assert.True(t, settings.Export.Format.IncludeTime)
	assert.Equal(t, "Asia/Shanghai", settings.Export.Timezone)
	assert.Equal(t, "/tmp/out", settings.Export.OutputDir)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{
		KeyPageSize:          int64(-5),
		KeyConcurrency:       "many",
		KeyRequestsPerSecond: -1.0,
		KeyListingTimeout:    int64(0),
	})
	defaults := domain.DefaultSettings()

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, defaults.Listing.PageSize, settings.Listing.PageSize)
	assert.Equal(t, defaults.Details.Concurrency, settings.Details.Concurrency)
	assert.Equal(t, defaults.Upstream.RequestsPerSecond, settings.Upstream.RequestsPerSecond)
	assert.Equal(t, defaults.Listing.Timeout, settings.Listing.Timeout)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		expected any
	}{
		{"int", KeyPageSize, "25", int64(25)},
		{"zero delay allowed", KeyPageDelay, "0", int64(0)},
		{"float", KeyRequestsPerSecond, "2.5", 2.5},
		{"bool", KeyIncludeTags, "false", false},
		{"url trimmed", KeyBaseURL, "https://www.yuque.com/", "https://www.yuque.com"},
		{"timezone", KeyTimezone, "UTC", "UTC"},
		{"string", KeyOutputDir, " /tmp/x ", "/tmp/x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			require.NoError(t, service.Set(tc.key, tc.value))

			got, ok := store.Get(tc.key)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "listing.unknown", "1"},
		{"not an int", KeyPageSize, "ten"},
		{"zero page size", KeyPageSize, "0"},
		{"negative delay", KeyChunkDelay, "-1"},
		{"not a bool", KeyIncludeTitle, "maybe"},
		{"bad scheme", KeyBaseURL, "ftp://example.com"},
		{"bad timezone", KeyTimezone, "Mars/Olympus"},
		{"zero rate", KeyRequestsPerSecond, "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewConfigStore()

			err := NewSettingsService(store).Set(tc.key, tc.value)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, ok := store.Get(tc.key)
			assert.False(t, ok)
		})
	}
}

func TestSettingsService_SetCookie(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetCookie("  _yuque_session=abc; ctoken=xyz \n"))
	assert.Equal(t, "_yuque_session=abc; ctoken=xyz", store.GetString(KeyCookie))

	assert.ErrorIs(t, service.SetCookie(" ; "), domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()

	assert.Len(t, keys, len(keyKinds))
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, KeyCookie)
}
