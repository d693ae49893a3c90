package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
)

// Ensure Chain implements the CredentialSource interface.
var _ driven.CredentialSource = (Chain)(nil)

// Chain tries each source in order and returns the first non-empty set.
type Chain []driven.CredentialSource

// Credentials returns the first source's cookies that are available.
func (c Chain) Credentials(ctx context.Context, host string) (domain.CredentialSet, error) {
	var errs []error
	for _, src := range c {
		set, err := src.Credentials(ctx, host)
		if err == nil && !set.IsEmpty() {
			return set, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return domain.CredentialSet{}, fmt.Errorf("%w: no credential source configured", domain.ErrAuthRequired)
	}
	return domain.CredentialSet{}, errors.Join(errs...)
}

// FromSettings builds the credential chain for the configured auth
// settings. The configured cookie header wins over the cookie file.
func FromSettings(auth domain.AuthSettings) Chain {
	var chain Chain
	if auth.Cookie != "" {
		chain = append(chain, NewStaticSource(auth.Cookie))
	}
	if auth.CookieFile != "" {
		chain = append(chain, NewFileSource(auth.CookieFile))
	}
	return chain
}
