package yuque

import (
	"net/url"
	"strconv"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// API paths of the internal note endpoints.
const (
	pathListNotes  = "/api/modules/note/notes/NoteController/index"
	pathNoteDetail = "/api/modules/note/notes/NoteController/show"
	pathTags       = "/api/modules/note/tags/TagController/index"
	pathReferer    = "/dashboard/notes"
)

// Endpoints builds request URLs under a base origin.
type Endpoints struct {
	base *url.URL
}

// NewEndpoints creates endpoints rooted at base.
func NewEndpoints(base *url.URL) Endpoints {
	return Endpoints{base: base}
}

func (e Endpoints) build(path string, query url.Values) string {
	u := *e.base
	u.Path = path
	u.RawQuery = query.Encode()
	return u.String()
}

// ListNotes is one page of all non-deleted notes ordered by content update.
func (e Endpoints) ListNotes(offset, limit int) string {
	q := url.Values{}
	q.Set("filter_type", "all")
	q.Set("status", "0")
	q.Set("merge_dynamic_data", "0")
	q.Set("order", "content_updated_at")
	q.Set("with_pinned_notes", "true")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return e.build(pathListNotes, q)
}

// NoteDetail is the full body of one note.
func (e Endpoints) NoteDetail(id domain.NoteID) string {
	q := url.Values{}
	q.Set("id", string(id))
	q.Set("merge_dynamic_data", "0")
	return e.build(pathNoteDetail, q)
}

// Tags lists the user's tags.
func (e Endpoints) Tags() string {
	return e.build(pathTags, url.Values{})
}

// Referer is the page the requests claim to come from.
func (e Endpoints) Referer() string {
	return e.build(pathReferer, url.Values{})
}
