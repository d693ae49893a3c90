package services

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyBaseURL           = "upstream.base_url"
	KeyUserAgent         = "upstream.user_agent"
	KeyHTTPTimeout       = "http.timeout_seconds"
	KeyRequestsPerSecond = "http.requests_per_second"
	KeyCookie            = "auth.cookie"
	KeyCookieFile        = "auth.cookie_file"
	KeyPageSize          = "listing.page_size"
	KeyResultCap         = "listing.result_cap"
	KeyListingTimeout    = "listing.timeout_seconds"
	KeyPageDelay         = "listing.page_delay_ms"
	KeyConcurrency       = "details.concurrency"
	KeyChunkDelay        = "details.chunk_delay_ms"
	KeyTagFallbackCap    = "tags.fallback_result_cap"
	KeyTagFallbackTime   = "tags.fallback_timeout_seconds"
	KeyOutputDir         = "export.output_dir"
	KeyIncludeTitle      = "export.include_title"
	KeyIncludeTime       = "export.include_time"
	KeyIncludeTags       = "export.include_tags"
	KeyTimezone          = "export.timezone"
	KeyDataDir           = "store.data_dir"
)

type keyKind int

const (
	kindString keyKind = iota
	kindPositiveInt
	kindNonNegativeInt
	kindPositiveFloat
	kindBool
	kindURL
	kindTimezone
)

var keyKinds = map[string]keyKind{
	KeyBaseURL:           kindURL,
	KeyUserAgent:         kindString,
	KeyHTTPTimeout:       kindPositiveInt,
	KeyRequestsPerSecond: kindPositiveFloat,
	KeyCookie:            kindString,
	KeyCookieFile:        kindString,
	KeyPageSize:          kindPositiveInt,
	KeyResultCap:         kindPositiveInt,
	KeyListingTimeout:    kindPositiveInt,
	KeyPageDelay:         kindNonNegativeInt,
	KeyConcurrency:       kindPositiveInt,
	KeyChunkDelay:        kindNonNegativeInt,
	KeyTagFallbackCap:    kindPositiveInt,
	KeyTagFallbackTime:   kindPositiveInt,
	KeyOutputDir:         kindString,
	KeyIncludeTitle:      kindBool,
	KeyIncludeTime:       kindBool,
	KeyIncludeTags:       kindBool,
	KeyTimezone:          kindTimezone,
	KeyDataDir:           kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing, mistyped and
// non-positive values fall back to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		Upstream: domain.UpstreamSettings{
			BaseURL:           s.getString(KeyBaseURL, d.Upstream.BaseURL),
			UserAgent:         s.getString(KeyUserAgent, d.Upstream.UserAgent),
			Timeout:           s.getSeconds(KeyHTTPTimeout, d.Upstream.Timeout),
			RequestsPerSecond: s.getFloat(KeyRequestsPerSecond, d.Upstream.RequestsPerSecond),
		},
		Auth: domain.AuthSettings{
			Cookie:     s.configStore.GetString(KeyCookie),
			CookieFile: s.configStore.GetString(KeyCookieFile),
		},
		Listing: domain.ListingSettings{
			PageSize:  s.getInt(KeyPageSize, d.Listing.PageSize),
			ResultCap: s.getInt(KeyResultCap, d.Listing.ResultCap),
			Timeout:   s.getSeconds(KeyListingTimeout, d.Listing.Timeout),
			PageDelay: s.getMillis(KeyPageDelay, d.Listing.PageDelay),
		},
		Details: domain.DetailSettings{
			Concurrency: s.getInt(KeyConcurrency, d.Details.Concurrency),
			ChunkDelay:  s.getMillis(KeyChunkDelay, d.Details.ChunkDelay),
		},
		Tags: domain.TagSettings{
			FallbackResultCap: s.getInt(KeyTagFallbackCap, d.Tags.FallbackResultCap),
			FallbackTimeout:   s.getSeconds(KeyTagFallbackTime, d.Tags.FallbackTimeout),
		},
		Export: domain.ExportSettings{
			OutputDir: s.configStore.GetString(KeyOutputDir),
			Format: domain.FormatOptions{
				IncludeTitle: s.getBool(KeyIncludeTitle, d.Export.Format.IncludeTitle),
				IncludeTime:  s.getBool(KeyIncludeTime, d.Export.Format.IncludeTime),
				IncludeTags:  s.getBool(KeyIncludeTags, d.Export.Format.IncludeTags),
			},
			Timezone: s.configStore.GetString(KeyTimezone),
		},
		Store: domain.StoreSettings{
			DataDir: s.configStore.GetString(KeyDataDir),
		},
	}

	return settings, nil
}

// SetCookie stores the raw session Cookie header.
func (s *SettingsService) SetCookie(cookie string) error {
	cookie = strings.TrimSpace(cookie)
	if len(domain.ParseCookieHeader(cookie)) == 0 {
		return fmt.Errorf("%w: cookie header has no name=value pairs", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(KeyCookie, cookie); err != nil {
		return fmt.Errorf("save %s: %w", KeyCookie, err)
	}
	return nil
}

// Set validates value for key and stores it with the key's type.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	typed, err := parseValue(kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every supported configuration key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func parseValue(kind keyKind, value string) (any, error) {
	switch kind {
	case kindPositiveInt, kindNonNegativeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", value)
		}
		if n < 0 || (kind == kindPositiveInt && n == 0) {
			return nil, fmt.Errorf("%d is out of range", n)
		}
		return int64(n), nil
	case kindPositiveFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("%q is not a positive number", value)
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", value)
		}
		return b, nil
	case kindURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%q is not an http(s) URL", value)
		}
		return strings.TrimRight(value, "/"), nil
	case kindTimezone:
		if value == "" {
			return value, nil
		}
		if _, err := time.LoadLocation(value); err != nil {
			return nil, fmt.Errorf("unknown timezone %q", value)
		}
		return value, nil
	default:
		return value, nil
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	raw, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	// TOML keeps whole numbers as int64
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	}
	if f <= 0 {
		return defaultVal
	}
	return f
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

// getMillis allows zero to disable a pause.
func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Millisecond
}
