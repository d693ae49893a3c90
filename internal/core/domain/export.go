package domain

import "time"

// ExportDocument is the assembled text of one run plus its derived filename.
// It is persisted until the next run overwrites it.
type ExportDocument struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Filename  string         `json:"filename"`
	NoteCount int            `json:"note_count"`
	Criteria  FilterCriteria `json:"criteria"`
	Format    FormatOptions  `json:"format"`
	CreatedAt time.Time      `json:"created_at"`
}

// IsEmpty reports whether the document has no content to export.
func (d *ExportDocument) IsEmpty() bool {
	return d == nil || d.Content == ""
}

// SearchCache is the filtered, converted note set of the latest search.
// Exports with the same criteria re-assemble from it without refetching.
type SearchCache struct {
	RunID     string         `json:"run_id"`
	Criteria  FilterCriteria `json:"criteria"`
	Notes     []RenderedNote `json:"notes"`
	Summary   SearchSummary  `json:"summary"`
	CreatedAt time.Time      `json:"created_at"`
}

// StopReason records why listing ended.
type StopReason string

const (
	// StopExhausted means a short page signalled the end of data.
	StopExhausted StopReason = "exhausted"
	// StopCap means the result cap was reached.
	StopCap StopReason = "cap"
	// StopTimeout means the wall-clock budget ran out.
	StopTimeout StopReason = "timeout"
	// StopError means a page request failed.
	StopError StopReason = "error"
	// StopCancelled means the caller's context ended.
	StopCancelled StopReason = "cancelled"
)

// Partial reports whether listing ended before the data was exhausted.
func (r StopReason) Partial() bool {
	return r == StopTimeout || r == StopError || r == StopCancelled
}

// SearchSummary reports the totals of a search run.
type SearchSummary struct {
	RunID          string         `json:"run_id" yaml:"run_id"`
	TotalNotes     int            `json:"total_notes" yaml:"total_notes"`
	Matched        int            `json:"matched" yaml:"matched"`
	Saved          int            `json:"saved" yaml:"saved"`
	DetailFailures int            `json:"detail_failures" yaml:"detail_failures"`
	TagStats       map[string]int `json:"tag_stats,omitempty" yaml:"tag_stats,omitempty"`
	StopReason     StopReason     `json:"stop_reason" yaml:"stop_reason"`
	Criteria       FilterCriteria `json:"criteria" yaml:"-"`
}

// ExportSummary reports the outcome of an export run.
type ExportSummary struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	Filename  string `json:"filename" yaml:"filename"`
	Location  string `json:"location" yaml:"location"`
	NoteCount int    `json:"note_count" yaml:"note_count"`
	Reused    bool   `json:"reused_cache" yaml:"reused_cache"`
}
