package yuque

import (
	"context"
	"fmt"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.NoteSource = (*Source)(nil)

// Source reads notes, bodies and tags through a Client.
type Source struct {
	client *Client
}

// NewSource creates a note source backed by client.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// ListNotes returns one page of note summaries, one per wire record.
// Records are not dropped here so the page length stays meaningful.
func (s *Source) ListNotes(ctx context.Context, offset, limit int) ([]domain.Note, error) {
	var resp listResponse
	if err := s.client.Get(ctx, s.client.Endpoints().ListNotes(offset, limit), &resp); err != nil {
		return nil, fmt.Errorf("list notes offset=%d: %w", offset, err)
	}

	notes := make([]domain.Note, 0, len(resp.Notes))
	for _, rec := range resp.Notes {
		notes = append(notes, rec.toDomain())
	}
	return notes, nil
}

// GetNoteBody returns a note's body representations.
func (s *Source) GetNoteBody(ctx context.Context, id domain.NoteID) (domain.NoteBody, error) {
	var resp detailResponse
	if err := s.client.Get(ctx, s.client.Endpoints().NoteDetail(id), &resp); err != nil {
		return domain.NoteBody{}, fmt.Errorf("get note %s: %w", id, err)
	}
	if resp.Content == nil {
		return domain.NoteBody{}, &domain.ParseError{Input: "note " + string(id), Err: fmt.Errorf("response has no content")}
	}
	return resp.Content.toDomain(), nil
}

// ListTags returns the user's tags.
func (s *Source) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var resp tagsResponse
	if err := s.client.Get(ctx, s.client.Endpoints().Tags(), &resp); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	tags := make([]domain.Tag, 0, len(resp.Data))
	for _, t := range resp.Data {
		if t.Name != "" {
			tags = append(tags, domain.Tag{Name: t.Name})
		}
	}
	return tags, nil
}
