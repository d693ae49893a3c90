package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// CriteriaInput is the raw tag and date selection typed by a user.
type CriteriaInput struct {
	Tags     []string
	TagGlobs []string
	NoTag    bool

	// Since and Until are YYYY-MM-DD days; empty means unbounded.
	Since string
	Until string
}

// TagLister returns the available tag names.
type TagLister interface {
	ListTags(ctx context.Context) ([]string, error)
}

// BuildCriteria validates in and turns it into filter criteria in loc.
// Globs are expanded against the names returned by tags, which is only
// called when globs are present. A glob matching no tag is rejected, as is
// Since after Until. Tag names are kept exactly as typed.
func BuildCriteria(ctx context.Context, in CriteriaInput, loc *time.Location, tags TagLister) (domain.FilterCriteria, error) {
	if loc == nil {
		loc = time.Local
	}
	criteria := domain.FilterCriteria{Location: loc}

	start, err := domain.ParseDate(strings.TrimSpace(in.Since), loc)
	if err != nil {
		return criteria, err
	}
	end, err := domain.ParseDate(strings.TrimSpace(in.Until), loc)
	if err != nil {
		return criteria, err
	}
	criteria.Start, criteria.End = start, end
	if criteria.Inverted() {
		return criteria, fmt.Errorf("%w: since %s is after until %s", domain.ErrInvalidInput, in.Since, in.Until)
	}

	var selected []string
	for _, t := range in.Tags {
		if strings.TrimSpace(t) != "" {
			selected = append(selected, t)
		}
	}
	if len(in.TagGlobs) > 0 {
		if tags == nil {
			return criteria, fmt.Errorf("%w: tag globs need a tag source", domain.ErrInvalidInput)
		}
		available, err := tags.ListTags(ctx)
		if err != nil {
			return criteria, fmt.Errorf("list tags for globs: %w", err)
		}
		for _, pattern := range in.TagGlobs {
			expanded, err := ResolveTagPatterns([]string{pattern}, available)
			if err != nil {
				return criteria, err
			}
			if len(expanded) == 0 {
				return criteria, fmt.Errorf("%w: tag pattern %q matched no tags", domain.ErrInvalidInput, pattern)
			}
			selected = append(selected, expanded...)
		}
	}
	if in.NoTag {
		selected = append(selected, domain.NoTagSentinel)
	}
	if len(selected) > 0 {
		criteria.Tags = uniqueInOrder(selected)
	}
	return criteria, nil
}

func uniqueInOrder(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
