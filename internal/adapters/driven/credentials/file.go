package credentials

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
	"github.com/custodia-labs/yuque-export/internal/logger"
)

// Ensure FileSource implements the CredentialSource interface.
var _ driven.CredentialSource = (*FileSource)(nil)

// httpOnlyPrefix marks HttpOnly cookies in browser exports.
const httpOnlyPrefix = "#HttpOnly_"

// fileCookie is one cookies.txt entry.
type fileCookie struct {
	domain.Cookie
	includeSubdomains bool
}

// FileSource reads cookies from a Netscape cookies.txt file, as exported
// by browser extensions and curl. The file is re-read when it changes.
type FileSource struct {
	path string
	now  func() time.Time

	mu      sync.Mutex
	modTime time.Time
	cookies []fileCookie
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, now: time.Now}
}

// Credentials returns the unexpired cookies whose domain matches host.
func (s *FileSource) Credentials(_ context.Context, host string) (domain.CredentialSet, error) {
	cookies, err := s.load()
	if err != nil {
		return domain.CredentialSet{}, err
	}

	host = strings.ToLower(host)
	now := s.now()
	var set domain.CredentialSet
	for _, c := range cookies {
		if c.Expired(now) || !domainMatches(host, c.Domain, c.includeSubdomains) {
			continue
		}
		set.Cookies = append(set.Cookies, c.Cookie)
	}

	if set.IsEmpty() {
		return set, fmt.Errorf("%w: no unexpired cookies for %s in %s", domain.ErrAuthRequired, host, s.path)
	}
	return set, nil
}

func (s *FileSource) load() ([]fileCookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: cookie file: %w", domain.ErrAuthRequired, err)
	}
	if s.cookies != nil && info.ModTime().Equal(s.modTime) {
		return s.cookies, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: cookie file: %w", domain.ErrAuthRequired, err)
	}
	defer f.Close()

	cookies, err := parseCookieFile(f)
	if err != nil {
		return nil, fmt.Errorf("%w: cookie file %s: %w", domain.ErrInvalidInput, s.path, err)
	}
	logger.Debug("Loaded %d cookies from %s", len(cookies), s.path)

	s.cookies = cookies
	s.modTime = info.ModTime()
	return cookies, nil
}

// parseCookieFile reads tab-separated lines:
// domain, include-subdomains, path, secure, expiry (unix seconds), name, value.
// Malformed lines are skipped.
func parseCookieFile(r io.Reader) ([]fileCookie, error) {
	cookies := []fileCookie{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		line = strings.TrimPrefix(line, httpOnlyPrefix)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}

		c := fileCookie{
			Cookie: domain.Cookie{
				Domain: strings.ToLower(fields[0]),
				Name:   fields[5],
				Value:  fields[6],
			},
			includeSubdomains: strings.EqualFold(fields[1], "TRUE"),
		}
		if c.Name == "" {
			continue
		}
		if expiry, err := strconv.ParseInt(fields[4], 10, 64); err == nil && expiry > 0 {
			c.Expires = time.Unix(expiry, 0)
		}
		cookies = append(cookies, c)
	}
	return cookies, scanner.Err()
}

// domainMatches applies cookie-jar domain rules: a leading dot or the
// include-subdomains flag lets the cookie match subdomains.
func domainMatches(host, cookieDomain string, includeSubdomains bool) bool {
	if strings.HasPrefix(cookieDomain, ".") {
		includeSubdomains = true
		cookieDomain = cookieDomain[1:]
	}
	if host == cookieDomain {
		return true
	}
	return includeSubdomains && strings.HasSuffix(host, "."+cookieDomain)
}
