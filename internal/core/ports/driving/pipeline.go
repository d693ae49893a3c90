package driving

import (
	"context"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// Pipeline runs the scrape, filter, convert and export steps.
// Every call emits exactly one terminal event on the notification channel,
// whether it succeeds or fails.
type Pipeline interface {
	// RunSearch lists, filters, fetches and converts notes, then persists
	// the assembled document and the filtered-note cache.
	RunSearch(ctx context.Context, criteria domain.FilterCriteria, format domain.FormatOptions) (*domain.SearchSummary, error)

	// RunExport writes the document for criteria through the file exporter,
	// reusing the cached search when its criteria match.
	RunExport(ctx context.Context, criteria domain.FilterCriteria, format domain.FormatOptions) (*domain.ExportSummary, error)

	// ListTags returns the user's tag names, sorted.
	ListTags(ctx context.Context) ([]string, error)

	// LatestExport returns the persisted document of the last run.
	// Returns domain.ErrNotFound when nothing has been persisted.
	LatestExport(ctx context.Context) (*domain.ExportDocument, error)
}
