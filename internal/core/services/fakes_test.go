package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
)

var errUpstream = errors.New("upstream unavailable")

// fakeSource implements driven.NoteSource for testing.
type fakeSource struct {
	mu sync.Mutex

	pages    [][]domain.Note
	pageErrs map[int]error

	bodies    map[domain.NoteID]domain.NoteBody
	bodyErrs  map[domain.NoteID]error
	bodyDelay time.Duration

	tags    []domain.Tag
	tagsErr error

	listOffsets []int
	bodyCalls   map[domain.NoteID]int
	inFlight    int
	maxInFlight int
}

var _ driven.NoteSource = (*fakeSource)(nil)

func newFakeSource(pages ...[]domain.Note) *fakeSource {
	return &fakeSource{
		pages:     pages,
		pageErrs:  make(map[int]error),
		bodies:    make(map[domain.NoteID]domain.NoteBody),
		bodyErrs:  make(map[domain.NoteID]error),
		bodyCalls: make(map[domain.NoteID]int),
	}
}

func (f *fakeSource) ListNotes(_ context.Context, offset, limit int) ([]domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listOffsets = append(f.listOffsets, offset)
	idx := offset / limit
	if err := f.pageErrs[idx]; err != nil {
		return nil, err
	}
	if idx >= len(f.pages) {
		return nil, nil
	}
	return f.pages[idx], nil
}

func (f *fakeSource) GetNoteBody(ctx context.Context, id domain.NoteID) (domain.NoteBody, error) {
	f.mu.Lock()
	f.bodyCalls[id]++
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.bodyDelay > 0 {
		select {
		case <-time.After(f.bodyDelay):
		case <-ctx.Done():
			return domain.NoteBody{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.bodyErrs[id]; err != nil {
		return domain.NoteBody{}, err
	}
	if body, ok := f.bodies[id]; ok {
		return body, nil
	}
	return domain.NoteBody{HTML: "<p>body of " + string(id) + "</p>"}, nil
}

func (f *fakeSource) ListTags(_ context.Context) ([]domain.Tag, error) {
	return f.tags, f.tagsErr
}

func (f *fakeSource) offsets() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.listOffsets...)
}

// makeNotes builds n notes with IDs prefix-from .. prefix-(from+n-1),
// updated one day apart starting 2024-01-01.
func makeNotes(prefix string, from, n int) []domain.Note {
	notes := make([]domain.Note, 0, n)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := from; i < from+n; i++ {
		notes = append(notes, domain.Note{
			ID:               domain.NoteID(fmt.Sprintf("%s-%d", prefix, i)),
			Title:            fmt.Sprintf("Note %d", i),
			ContentUpdatedAt: base.AddDate(0, 0, i),
		})
	}
	return notes
}

func day(s string) *time.Time {
	t, err := domain.ParseDate(s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// recordingNotifier implements driven.NotificationChannel for testing.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingNotifier) Send(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) terminal() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, e := range r.events {
		if e.Terminal() {
			out = append(out, e)
		}
	}
	return out
}

// fakeExporter implements driven.FileExporter for testing.
type fakeExporter struct {
	saved    map[string]string
	err      error
	location string
}

func (f *fakeExporter) Save(_ context.Context, data []byte, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.saved == nil {
		f.saved = make(map[string]string)
	}
	f.saved[filename] = string(data)
	return f.location + filename, nil
}

// passthroughConverter implements driven.Converter for testing.
type passthroughConverter struct{}

func (passthroughConverter) Convert(s string) string { return s }
