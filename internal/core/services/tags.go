package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
	"github.com/custodia-labs/yuque-export/internal/logger"
)

// TagService lists the user's tag names.
type TagService struct {
	source   driven.NoteSource
	lister   *NoteLister
	fallback ListOptions
}

// NewTagService creates a tag service. When the tags endpoint fails, tag
// names are collected from a listing bounded by fallback.
func NewTagService(source driven.NoteSource, lister *NoteLister, fallback ListOptions) *TagService {
	return &TagService{source: source, lister: lister, fallback: fallback}
}

// ListTags returns sorted, de-duplicated tag names.
func (s *TagService) ListTags(ctx context.Context) ([]string, error) {
	tags, err := s.source.ListTags(ctx)
	if err == nil {
		names := make([]string, 0, len(tags))
		for _, t := range tags {
			names = append(names, t.Name)
		}
		return sortedUnique(names), nil
	}

	logger.Warn("Tags endpoint failed, deriving tags from notes: %v", err)
	result := s.lister.List(ctx, s.fallback)
	if len(result.Notes) == 0 && result.StopReason == domain.StopError {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	var names []string
	for _, n := range result.Notes {
		names = append(names, n.TagNames()...)
	}
	return sortedUnique(names), nil
}

func sortedUnique(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ResolveTagPatterns expands glob patterns (doublestar syntax) against the
// available tag names. Plain names and the no-tag sentinel pass through
// unchanged. Order of first appearance is kept and duplicates dropped.
func ResolveTagPatterns(patterns, available []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, p := range patterns {
		if p == domain.NoTagSentinel || !strings.ContainsAny(p, "*?[{") {
			add(p)
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: tag pattern %q", domain.ErrInvalidInput, p)
		}
		for _, name := range available {
			if ok, _ := doublestar.Match(p, name); ok {
				add(name)
			}
		}
	}
	return out, nil
}
