package yuque

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
	"github.com/custodia-labs/yuque-export/internal/logger"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// Client performs authenticated GETs against the upstream API.
type Client struct {
	http        *http.Client
	credentials driven.CredentialSource
	rateLimiter *RateLimiter
	endpoints   Endpoints
	userAgent   string
}

// NewClient creates a client for cfg using creds for session cookies.
func NewClient(cfg Config, creds driven.CredentialSource) (*Client, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: credential source is required", domain.ErrInvalidInput)
	}
	base, err := cfg.parseBaseURL()
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout()}
	}

	return &Client{
		http:        httpClient,
		credentials: creds,
		rateLimiter: NewRateLimiter(cfg.requestsPerSecond()),
		endpoints:   NewEndpoints(base),
		userAgent:   cfg.userAgent(),
	}, nil
}

// Endpoints returns the URL builder for this client's origin.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// Get fetches rawURL and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, rawURL string, out any) error {
	raw, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.ParseError{Input: rawURL, Err: err}
	}
	return nil
}

// Fetch performs one authenticated GET and returns the JSON body.
// Non-2xx responses become *domain.TransportError carrying status and
// body; bodies that are not JSON become *domain.ParseError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (json.RawMessage, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: url %q: %w", domain.ErrInvalidInput, rawURL, err)
	}

	creds, err := c.credentials.Credentials(ctx, u.Hostname())
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &domain.TransportError{URL: rawURL, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrInvalidInput, err)
	}
	c.setHeaders(req, creds)

	logger.Debug("GET %s", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.TransportError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.rateLimiter.UpdateFromResponse(resp)
		return nil, domain.NewHTTPError(rawURL, resp.StatusCode, string(body))
	}

	if !json.Valid(body) {
		if looksLikeHTML(body) {
			// The service answers expired sessions with its login page.
			return nil, &domain.ParseError{Input: rawURL, Err: ErrLoginRequired}
		}
		return nil, &domain.ParseError{Input: rawURL, Err: errors.New("response is not valid JSON")}
	}
	return json.RawMessage(body), nil
}

func looksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}

func (c *Client) setHeaders(req *http.Request, creds domain.CredentialSet) {
	req.Header.Set("Cookie", creds.CookieHeader())
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", c.endpoints.Referer())
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
}
