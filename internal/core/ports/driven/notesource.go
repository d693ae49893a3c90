package driven

import (
	"context"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// NoteSource is the upstream note service.
// Implementations perform exactly one request per call and never retry.
type NoteSource interface {
	// ListNotes returns one page of note summaries starting at offset.
	ListNotes(ctx context.Context, offset, limit int) ([]domain.Note, error)

	// GetNoteBody returns the body representations of a single note.
	GetNoteBody(ctx context.Context, id domain.NoteID) (domain.NoteBody, error)

	// ListTags returns every tag defined by the user.
	ListTags(ctx context.Context) ([]domain.Tag, error)
}
