package yuque

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// flexibleID accepts both numeric and string IDs.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// flexibleTime accepts RFC 3339 strings, unix milliseconds, "" and null.
// Unparseable values decode to the zero time.
type flexibleTime time.Time

func (f *flexibleTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = flexibleTime(time.Time{})
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if t, ok := parseTimestamp(s); ok {
			*f = flexibleTime(t)
		}
		return nil
	}
	if ms, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*f = flexibleTime(time.UnixMilli(ms))
	}
	return nil
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type tagRecord struct {
	Name string `json:"name"`
}

type userRecord struct {
	Login string `json:"login"`
}

type bookRecord struct {
	Slug string      `json:"slug"`
	User *userRecord `json:"user"`
}

type contentRecord struct {
	HTML     string `json:"html"`
	Body     string `json:"body"`
	Abstract string `json:"abstract"`
}

type noteRecord struct {
	ID               flexibleID     `json:"id"`
	Slug             string         `json:"slug"`
	Title            string         `json:"title"`
	CreatedAt        flexibleTime   `json:"created_at"`
	ContentUpdatedAt flexibleTime   `json:"content_updated_at"`
	PublishedAt      flexibleTime   `json:"published_at"`
	Tags             []tagRecord    `json:"tags"`
	Content          *contentRecord `json:"content"`
	Book             *bookRecord    `json:"book"`
}

type listResponse struct {
	Notes []noteRecord `json:"notes"`
}

type detailResponse struct {
	Content *contentRecord `json:"content"`
}

type tagsResponse struct {
	Data []tagRecord `json:"data"`
}

// toDomain converts a wire record into a domain note.
func (r noteRecord) toDomain() domain.Note {
	note := domain.Note{
		ID:               domain.NoteID(r.ID),
		Slug:             r.Slug,
		Title:            r.Title,
		CreatedAt:        time.Time(r.CreatedAt),
		ContentUpdatedAt: time.Time(r.ContentUpdatedAt),
		PublishedAt:      time.Time(r.PublishedAt),
	}

	for _, t := range r.Tags {
		if t.Name == "" {
			continue
		}
		note.Tags = append(note.Tags, domain.Tag{Name: t.Name})
	}

	if r.Content != nil {
		note.Abstract = r.Content.Abstract
	}

	if r.Book != nil && r.Book.Slug != "" && r.Book.User != nil && r.Book.User.Login != "" {
		note.Collection = &domain.Collection{Slug: r.Book.Slug, OwnerLogin: r.Book.User.Login}
	}

	return note
}

func (c *contentRecord) toDomain() domain.NoteBody {
	if c == nil {
		return domain.NoteBody{}
	}
	return domain.NoteBody{HTML: c.HTML, Body: c.Body, Abstract: c.Abstract}
}
