package yuque

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is the default proactive throttle.
	DefaultRequestsPerSecond = 10.0
)

// Config holds the connection settings for the upstream service.
type Config struct {
	// BaseURL is the service origin, e.g. https://www.yuque.com.
	BaseURL string

	// UserAgent is sent on every request.
	UserAgent string

	// Timeout bounds one request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero means DefaultRequestsPerSecond.
	RequestsPerSecond float64

	// HTTPClient overrides the client used for requests (tests).
	HTTPClient *http.Client
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.UpstreamSettings) Config {
	return Config{
		BaseURL:           s.BaseURL,
		UserAgent:         s.UserAgent,
		Timeout:           s.Timeout,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// parseBaseURL validates the configured origin.
func (c Config) parseBaseURL() (*url.URL, error) {
	raw := strings.TrimSpace(c.BaseURL)
	if raw == "" {
		raw = domain.DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %w", domain.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: base url %q must be http or https", domain.ErrInvalidInput, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q has no host", domain.ErrInvalidInput, raw)
	}
	return u, nil
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c Config) requestsPerSecond() float64 {
	if c.RequestsPerSecond <= 0 {
		return DefaultRequestsPerSecond
	}
	return c.RequestsPerSecond
}

func (c Config) userAgent() string {
	if c.UserAgent == "" {
		return "yuque-export"
	}
	return c.UserAgent
}
