package services

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

const (
	filenamePrefix    = "yuque-notes"
	filenameExtension = ".txt"
	filenameTimestamp = "2006-01-02T15-04-05"
	blockSeparator    = "\n\n---\n\n"
)

// ExportAssembler renders filtered notes into one text document.
type ExportAssembler struct {
	baseURL  string
	location *time.Location
	now      func() time.Time
}

// NewExportAssembler creates an assembler that links notes under baseURL
// and renders dates in loc (time.Local when nil).
func NewExportAssembler(baseURL string, loc *time.Location) *ExportAssembler {
	if baseURL == "" {
		baseURL = domain.DefaultBaseURL
	}
	if loc == nil {
		loc = time.Local
	}
	return &ExportAssembler{baseURL: baseURL, location: loc, now: time.Now}
}

// Build assembles the document and names it for criteria.
func (a *ExportAssembler) Build(
	notes []domain.RenderedNote,
	criteria domain.FilterCriteria,
	opts domain.FormatOptions,
) domain.ExportDocument {
	at := a.now()
	return domain.ExportDocument{
		ID:        uuid.NewString(),
		Content:   a.Assemble(notes, opts),
		Filename:  a.Filename(criteria, at),
		NoteCount: len(notes),
		Criteria:  criteria,
		Format:    opts,
		CreatedAt: at,
	}
}

// Assemble concatenates one block per note in the given order and trims
// the result.
func (a *ExportAssembler) Assemble(notes []domain.RenderedNote, opts domain.FormatOptions) string {
	var b strings.Builder
	for _, n := range notes {
		a.writeBlock(&b, n, opts)
	}
	return strings.TrimSpace(b.String())
}

func (a *ExportAssembler) writeBlock(b *strings.Builder, n domain.RenderedNote, opts domain.FormatOptions) {
	headers := 0
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
		headers++
	}

	if opts.IncludeTitle {
		line("## " + n.Note.DisplayTitle())
	}
	if opts.IncludeTime {
		line("Updated: " + a.formatDate(n.Note.EffectiveDate()))
	}
	if opts.IncludeTags {
		line("Tags: " + tagLine(n.Note))
	}
	if url := n.Note.URL(a.baseURL); url != "" {
		line("Link: " + url)
	}
	if headers > 0 {
		b.WriteByte('\n')
	}

	b.WriteString(strings.TrimRightFunc(n.Text, unicode.IsSpace))
	b.WriteString(blockSeparator)
}

func (a *ExportAssembler) formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.In(a.location).Format(domain.DateLayout)
}

func tagLine(n domain.Note) string {
	if !n.HasTags() {
		return domain.NoTagLabel
	}
	return strings.Join(n.TagNames(), ", ")
}

// Filename derives the export name from the assembly time and criteria:
// yuque-notes_<timestamp>[_tags(a,b)][_dates(start~end)].txt
func (a *ExportAssembler) Filename(criteria domain.FilterCriteria, at time.Time) string {
	var b strings.Builder
	b.WriteString(filenamePrefix)
	b.WriteByte('_')
	b.WriteString(at.In(a.location).Format(filenameTimestamp))

	if criteria.HasTags() {
		labels := make([]string, 0, len(criteria.Tags))
		for _, t := range criteria.Tags {
			if clean := sanitiseFilenamePart(domain.TagLabel(t)); clean != "" {
				labels = append(labels, clean)
			}
		}
		if len(labels) > 0 {
			b.WriteString("_tags(" + strings.Join(labels, ",") + ")")
		}
	}

	if criteria.HasDates() {
		dated := criteria
		if dated.Location == nil {
			dated.Location = a.location
		}
		start, end := dated.DayString(criteria.Start), dated.DayString(criteria.End)
		if start == "" {
			start = "begin"
		}
		if end == "" {
			end = "now"
		}
		b.WriteString("_dates(" + start + "~" + end + ")")
	}

	b.WriteString(filenameExtension)
	return b.String()
}

// sanitiseFilenamePart drops path separators, characters reserved on
// common filesystems, and control characters.
func sanitiseFilenamePart(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
