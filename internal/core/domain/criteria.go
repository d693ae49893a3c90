package domain

import (
	"fmt"
	"slices"
	"time"
)

// NoTagSentinel is the selection value meaning "notes with zero tags".
// The NUL byte guarantees it never equals a real tag name.
const NoTagSentinel = "\x00no-tag"

// NoTagLabel is the human label for NoTagSentinel.
const NoTagLabel = "No tag"

// DateLayout is the calendar-day layout accepted for filter dates.
const DateLayout = "2006-01-02"

// TagLabel renders a selected tag name for people.
func TagLabel(name string) string {
	if name == NoTagSentinel {
		return NoTagLabel
	}
	return name
}

// FilterCriteria is the tag and date selection for one run.
// Start and End are calendar days; only their date in Location matters.
type FilterCriteria struct {
	Tags  []string   `json:"tags,omitempty"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`

	// Location resolves day boundaries. Nil means time.Local.
	Location *time.Location `json:"-"`
}

// ParseDate parses a YYYY-MM-DD day in loc. An empty string yields nil.
func ParseDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return &t, nil
}

// HasTags reports whether a tag selection is active.
func (c FilterCriteria) HasTags() bool {
	return len(c.Tags) > 0
}

// HasDates reports whether either date bound is set.
func (c FilterCriteria) HasDates() bool {
	return c.Start != nil || c.End != nil
}

// WantsNoTag reports whether the no-tag sentinel is selected.
func (c FilterCriteria) WantsNoTag() bool {
	return slices.Contains(c.Tags, NoTagSentinel)
}

// RealTags returns the selected tag names without the sentinel.
func (c FilterCriteria) RealTags() []string {
	out := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		if t != NoTagSentinel {
			out = append(out, t)
		}
	}
	return out
}

func (c FilterCriteria) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

// Bounds returns the inclusive instant range selected by the dates.
// from is 00:00:00 of Start, to is 23:59:59.999 of End; a missing bound
// is returned as the zero time.
func (c FilterCriteria) Bounds() (from, to time.Time) {
	loc := c.location()
	if c.Start != nil {
		s := c.Start.In(loc)
		from = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
	}
	if c.End != nil {
		e := c.End.In(loc)
		to = time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	}
	return from, to
}

// Inverted reports whether both bounds are set and Start falls after End.
func (c FilterCriteria) Inverted() bool {
	from, to := c.Bounds()
	return !from.IsZero() && !to.IsZero() && from.After(to)
}

// DayString formats a bound as YYYY-MM-DD, or "" when unset.
func (c FilterCriteria) DayString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(c.location()).Format(DateLayout)
}

// Equal reports whether two criteria select the same notes.
func (c FilterCriteria) Equal(o FilterCriteria) bool {
	if !slices.Equal(sortedCopy(c.Tags), sortedCopy(o.Tags)) {
		return false
	}
	return c.DayString(c.Start) == o.DayString(o.Start) && c.DayString(c.End) == o.DayString(o.End)
}

func sortedCopy(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

// FormatOptions controls the per-note header lines of an export.
type FormatOptions struct {
	IncludeTitle bool `json:"include_title"`
	IncludeTime  bool `json:"include_time"`
	IncludeTags  bool `json:"include_tags"`
}

// DefaultFormatOptions includes every header line.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{IncludeTitle: true, IncludeTime: true, IncludeTags: true}
}
