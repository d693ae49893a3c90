package driven

import (
	"context"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// CredentialSource supplies session credentials scoped to a domain,
// the way a browser cookie jar answers for one host.
type CredentialSource interface {
	// Credentials returns the cookies valid for host.
	// Returns domain.ErrAuthRequired when none are available.
	Credentials(ctx context.Context, host string) (domain.CredentialSet, error)
}
