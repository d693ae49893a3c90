package domain

import "time"

// DefaultBaseURL is the upstream service origin.
const DefaultBaseURL = "https://www.yuque.com"

// UpstreamSettings configures how the service is reached.
type UpstreamSettings struct {
	// BaseURL is the service origin; note links are built under it.
	BaseURL string

	// UserAgent is sent on every request.
	UserAgent string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// RequestsPerSecond is the proactive client-side throttle.
	RequestsPerSecond float64
}

// AuthSettings points at the session credentials.
type AuthSettings struct {
	// Cookie is a raw Cookie header value copied from a logged-in browser.
	Cookie string

	// CookieFile is a Netscape cookies.txt export.
	CookieFile string
}

// IsConfigured reports whether any credential source is set.
func (a AuthSettings) IsConfigured() bool {
	return a.Cookie != "" || a.CookieFile != ""
}

// ListingSettings tunes pagination. The upstream API is undocumented, so
// these are configuration rather than constants.
type ListingSettings struct {
	PageSize  int
	ResultCap int
	Timeout   time.Duration
	PageDelay time.Duration
}

// DetailSettings tunes body fetching.
type DetailSettings struct {
	Concurrency int
	ChunkDelay  time.Duration
}

// TagSettings tunes the note-derived tag fallback.
type TagSettings struct {
	FallbackResultCap int
	FallbackTimeout   time.Duration
}

// ExportSettings controls the export document and destination.
type ExportSettings struct {
	OutputDir string
	Format    FormatOptions

	// Timezone is an IANA name; empty means the local zone.
	Timezone string
}

// Location resolves Timezone, falling back to time.Local.
func (e ExportSettings) Location() *time.Location {
	if e.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// StoreSettings locates persistent data.
type StoreSettings struct {
	DataDir string
}

// Settings is the complete application configuration.
type Settings struct {
	Upstream UpstreamSettings
	Auth     AuthSettings
	Listing  ListingSettings
	Details  DetailSettings
	Tags     TagSettings
	Export   ExportSettings
	Store    StoreSettings
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Upstream: UpstreamSettings{
			BaseURL:           DefaultBaseURL,
			UserAgent:         "yuque-export",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 10,
		},
		Listing: ListingSettings{
			PageSize:  50,
			ResultCap: 1000,
			Timeout:   30 * time.Second,
			PageDelay: 50 * time.Millisecond,
		},
		Details: DetailSettings{
			Concurrency: 5,
			ChunkDelay:  100 * time.Millisecond,
		},
		Tags: TagSettings{
			FallbackResultCap: 200,
			FallbackTimeout:   10 * time.Second,
		},
		Export: ExportSettings{
			Format: DefaultFormatOptions(),
		},
	}
}
