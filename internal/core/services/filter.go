package services

import (
	"sort"
	"time"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// FilterResult is the matched subset and the per-tag match counts.
// TagCounts is keyed by tag name, with domain.NoTagSentinel for untagged notes.
type FilterResult struct {
	Notes     []domain.Note
	TagCounts map[string]int
}

// NoteFilter applies tag and date predicates to listed notes.
type NoteFilter struct{}

// Filter returns the notes matching criteria, most recently updated first.
// Tags match if any real selected tag is present OR the no-tag sentinel is
// selected and the note has no tags. Dates bound the note's effective date
// inclusively by calendar day. A note must satisfy both dimensions.
// An inverted date range matches nothing.
func (NoteFilter) Filter(notes []domain.Note, criteria domain.FilterCriteria) FilterResult {
	counts := make(map[string]int)
	wanted := make(map[string]struct{})
	for _, t := range criteria.RealTags() {
		wanted[t] = struct{}{}
		counts[t] = 0
	}
	wantsNoTag := criteria.WantsNoTag()
	if wantsNoTag {
		counts[domain.NoTagSentinel] = 0
	}

	matched := []domain.Note{}
	if criteria.Inverted() {
		return FilterResult{Notes: matched, TagCounts: counts}
	}
	from, to := criteria.Bounds()

	for _, note := range notes {
		if criteria.HasTags() && !matchesTags(note, wanted, wantsNoTag) {
			continue
		}
		if criteria.HasDates() && !withinBounds(note.EffectiveDate(), from, to) {
			continue
		}
		matched = append(matched, note)

		if !note.HasTags() {
			if wantsNoTag {
				counts[domain.NoTagSentinel]++
			}
			continue
		}
		counted := make(map[string]struct{}, len(note.Tags))
		for _, tag := range note.Tags {
			if _, ok := wanted[tag.Name]; !ok {
				continue
			}
			if _, done := counted[tag.Name]; done {
				continue
			}
			counted[tag.Name] = struct{}{}
			counts[tag.Name]++
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].EffectiveDate().After(matched[j].EffectiveDate())
	})

	return FilterResult{Notes: matched, TagCounts: counts}
}

func matchesTags(note domain.Note, wanted map[string]struct{}, wantsNoTag bool) bool {
	if !note.HasTags() {
		return wantsNoTag
	}
	for _, tag := range note.Tags {
		if _, ok := wanted[tag.Name]; ok {
			return true
		}
	}
	return false
}

// withinBounds treats an undated note as outside any active range.
func withinBounds(date, from, to time.Time) bool {
	if date.IsZero() {
		return false
	}
	if !from.IsZero() && date.Before(from) {
		return false
	}
	if !to.IsZero() && date.After(to) {
		return false
	}
	return true
}
