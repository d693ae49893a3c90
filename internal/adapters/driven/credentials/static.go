package credentials

import (
	"context"
	"fmt"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
)

// Ensure StaticSource implements the CredentialSource interface.
var _ driven.CredentialSource = (*StaticSource)(nil)

// StaticSource serves cookies parsed from a raw Cookie header.
// The cookies apply to every host.
type StaticSource struct {
	cookies []domain.Cookie
}

// NewStaticSource creates a source from a header like "a=b; c=d".
func NewStaticSource(header string) *StaticSource {
	return &StaticSource{cookies: domain.ParseCookieHeader(header)}
}

// Credentials returns the configured cookies, or domain.ErrAuthRequired
// when the header held none.
func (s *StaticSource) Credentials(_ context.Context, host string) (domain.CredentialSet, error) {
	if len(s.cookies) == 0 {
		return domain.CredentialSet{}, fmt.Errorf("%w: no cookie configured for %s", domain.ErrAuthRequired, host)
	}
	return domain.CredentialSet{Cookies: append([]domain.Cookie(nil), s.cookies...)}, nil
}
