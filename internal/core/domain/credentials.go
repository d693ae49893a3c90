package domain

import (
	"strings"
	"time"
)

// Cookie is one session cookie for the upstream service.
type Cookie struct {
	Name   string
	Value  string
	Domain string

	// Expires is zero for session cookies.
	Expires time.Time
}

// Expired reports whether the cookie is past its expiry at now.
func (c Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && now.After(c.Expires)
}

// CredentialSet is the authentication material attached to every request.
type CredentialSet struct {
	Cookies []Cookie
}

// IsEmpty reports whether there is nothing to authenticate with.
func (c CredentialSet) IsEmpty() bool {
	return len(c.Cookies) == 0
}

// CookieHeader renders the cookies as a Cookie header value.
func (c CredentialSet) CookieHeader() string {
	parts := make([]string, 0, len(c.Cookies))
	for _, ck := range c.Cookies {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

// ParseCookieHeader splits a raw "a=b; c=d" header into cookies.
// Fragments without a name are ignored.
func ParseCookieHeader(header string) []Cookie {
	var cookies []Cookie
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies = append(cookies, Cookie{Name: name, Value: strings.TrimSpace(value)})
	}
	return cookies
}
