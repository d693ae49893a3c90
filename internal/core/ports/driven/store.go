package driven

import "context"

// Keys used in the PersistentStore.
const (
	// KeyLatestExport holds the JSON-encoded domain.ExportDocument of the last run.
	KeyLatestExport = "export.latest"

	// KeySearchCache holds the JSON-encoded domain.SearchCache of the last search.
	KeySearchCache = "search.cache"
)

// PersistentStore is a small key-value store that outlives a run.
type PersistentStore interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
