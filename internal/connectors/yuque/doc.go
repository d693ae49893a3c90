// Package yuque implements the upstream note source for the Yuque notes
// service, using its authenticated internal web API.
//
// # Architecture
//
// The connector follows the driven port pattern defined in [driven.NoteSource].
// It comprises the following components:
//
//   - Client: the authenticated fetcher. One GET per call, session cookies
//     attached, JSON decoded, failures typed. It never retries.
//   - RateLimiter: proactive token bucket plus Retry-After feedback
//   - Endpoints: URL construction for the list, detail and tag endpoints
//   - Source: maps wire records to domain notes
//
// # Authentication
//
// The internal API accepts the same session cookies a logged-in browser
// sends. They are supplied by a [driven.CredentialSource], usually a raw
// Cookie header saved with "yuque-export login" or a cookies.txt export.
//
// # Pagination
//
// The list endpoint takes limit/offset. A page shorter than limit is taken
// to mean the end of data; callers own that policy (see services.NoteLister).
package yuque
