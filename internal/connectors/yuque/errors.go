package yuque

import (
	"errors"
	"net/http"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// ErrLoginRequired indicates the session cookies were rejected.
var ErrLoginRequired = errors.New("yuque: session expired or not logged in")

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return domain.StatusCode(err) == http.StatusNotFound
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return domain.StatusCode(err) == http.StatusTooManyRequests
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	code := domain.StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden || errors.Is(err, ErrLoginRequired)
}
