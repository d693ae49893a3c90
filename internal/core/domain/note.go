package domain

import (
	"strings"
	"time"
)

// NoteID identifies a note upstream. The service sends numeric IDs,
// but they are treated as opaque strings everywhere in the core.
type NoteID string

// Tag is a note label. Names are compared exactly and case-sensitively.
type Tag struct {
	Name string `json:"name"`
}

// Collection is the book a note belongs to. It is only needed to
// rebuild the note's public URL.
type Collection struct {
	Slug       string `json:"slug"`
	OwnerLogin string `json:"owner_login"`
}

// Note is a note summary from one page of list results.
// It is immutable once listed.
type Note struct {
	ID    NoteID `json:"id"`
	Slug  string `json:"slug,omitempty"`
	Title string `json:"title,omitempty"`

	CreatedAt        time.Time `json:"created_at"`
	ContentUpdatedAt time.Time `json:"content_updated_at"`
	PublishedAt      time.Time `json:"published_at"`

	Tags     []Tag  `json:"tags,omitempty"`
	Abstract string `json:"abstract,omitempty"`

	// Collection is nil when the list endpoint did not include the book.
	Collection *Collection `json:"collection,omitempty"`
}

// untitled is shown for notes without a title.
const untitled = "Untitled"

// EffectiveDate is the date used for filtering and ordering.
// Precedence: content update time, creation time, publish time.
func (n Note) EffectiveDate() time.Time {
	switch {
	case !n.ContentUpdatedAt.IsZero():
		return n.ContentUpdatedAt
	case !n.CreatedAt.IsZero():
		return n.CreatedAt
	default:
		return n.PublishedAt
	}
}

// HasTags reports whether the note carries at least one tag.
func (n Note) HasTags() bool {
	return len(n.Tags) > 0
}

// TagNames returns the note's tag names in upstream order.
func (n Note) TagNames() []string {
	names := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		names = append(names, t.Name)
	}
	return names
}

// DisplayTitle returns the title, or a placeholder for untitled notes.
func (n Note) DisplayTitle() string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	return untitled
}

// URL returns the note's web address under baseURL, or "" when the
// containing collection is unknown.
func (n Note) URL(baseURL string) string {
	if n.Collection == nil || n.Collection.Slug == "" || n.Collection.OwnerLogin == "" || n.Slug == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + n.Collection.OwnerLogin + "/" + n.Collection.Slug + "/" + n.Slug
}

// NoteBody holds the body representations returned by the detail endpoint.
type NoteBody struct {
	HTML     string `json:"html,omitempty"`
	Body     string `json:"body,omitempty"`
	Abstract string `json:"abstract,omitempty"`
}

// Source returns the preferred non-empty representation: HTML, then the
// plain body, then the abstract.
func (b NoteBody) Source() string {
	switch {
	case b.HTML != "":
		return b.HTML
	case b.Body != "":
		return b.Body
	default:
		return b.Abstract
	}
}

// DetailResult is the outcome of fetching one note's body.
type DetailResult struct {
	Body NoteBody
	Err  error
}

// RenderedNote is a filtered note paired with its converted text.
type RenderedNote struct {
	Note Note   `json:"note"`
	Text string `json:"text"`

	// Degraded is set when the detail fetch failed and Text came from the abstract.
	Degraded bool `json:"degraded,omitempty"`
}
