package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

type fakeTagLister struct {
	names []string
	err   error
	calls int
}

func (f *fakeTagLister) ListTags(context.Context) ([]string, error) {
	f.calls++
	return f.names, f.err
}

func TestBuildCriteria(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input selects everything", func(t *testing.T) {
		c, err := BuildCriteria(ctx, CriteriaInput{}, time.UTC, nil)

		require.NoError(t, err)
		assert.False(t, c.HasTags())
		assert.False(t, c.HasDates())
		assert.Equal(t, time.UTC, c.Location)
	})

	t.Run("dates parse in location", func(t *testing.T) {
		c, err := BuildCriteria(ctx, CriteriaInput{Since: "2024-01-01", Until: "2024-01-31"}, time.UTC, nil)

		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", c.DayString(c.Start))
		assert.Equal(t, "2024-01-31", c.DayString(c.End))
	})

	t.Run("same day is allowed", func(t *testing.T) {
		_, err := BuildCriteria(ctx, CriteriaInput{Since: "2024-01-05", Until: "2024-01-05"}, time.UTC, nil)
		assert.NoError(t, err)
	})

	t.Run("since after until is rejected", func(t *testing.T) {
		_, err := BuildCriteria(ctx, CriteriaInput{Since: "2024-02-01", Until: "2024-01-01"}, time.UTC, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("bad date is rejected", func(t *testing.T) {
		_, err := BuildCriteria(ctx, CriteriaInput{Since: "01/02/2024"}, time.UTC, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("tags are kept exactly and deduplicated with no-tag last", func(t *testing.T) {
		lister := &fakeTagLister{}
		c, err := BuildCriteria(ctx, CriteriaInput{Tags: []string{" Project ", "", "  ", "Project", "home", "Project"}, NoTag: true}, time.UTC, lister)

		require.NoError(t, err)
		assert.Equal(t, []string{" Project ", "Project", "home", domain.NoTagSentinel}, c.Tags)
		assert.Zero(t, lister.calls, "tags are only listed for globs")
	})

	t.Run("globs expand against listed tags", func(t *testing.T) {
		lister := &fakeTagLister{names: []string{"work", "work/2024", "home"}}
		c, err := BuildCriteria(ctx, CriteriaInput{Tags: []string{"home"}, TagGlobs: []string{"work*"}}, time.UTC, lister)

		require.NoError(t, err)
		assert.Equal(t, []string{"home", "work"}, c.Tags)
		assert.Equal(t, 1, lister.calls)
	})

	t.Run("glob matching no tag is rejected", func(t *testing.T) {
		lister := &fakeTagLister{names: []string{"home", "reading"}}
		c, err := BuildCriteria(ctx, CriteriaInput{TagGlobs: []string{"work/*"}}, time.UTC, lister)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.ErrorContains(t, err, `"work/*"`)
		assert.False(t, c.HasTags())
	})

	t.Run("each glob must match something", func(t *testing.T) {
		lister := &fakeTagLister{names: []string{"home", "reading"}}
		_, err := BuildCriteria(ctx, CriteriaInput{TagGlobs: []string{"h*", "work*"}, NoTag: true}, time.UTC, lister)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.ErrorContains(t, err, `"work*"`)
	})

	t.Run("glob listing failure", func(t *testing.T) {
		lister := &fakeTagLister{err: errors.New("offline")}
		_, err := BuildCriteria(ctx, CriteriaInput{TagGlobs: []string{"w*"}}, time.UTC, lister)
		assert.ErrorContains(t, err, "offline")
	})

	t.Run("globs without a lister", func(t *testing.T) {
		_, err := BuildCriteria(ctx, CriteriaInput{TagGlobs: []string{"w*"}}, time.UTC, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
