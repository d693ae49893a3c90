package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string, loc *time.Location) *time.Time {
	t.Helper()
	d, err := ParseDate(s, loc)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate("2024-01-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *d)

	_, err = ParseDate("2024-13-01", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFilterCriteria_Bounds(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	c := FilterCriteria{
		Start:    mustDate(t, "2024-01-01", shanghai),
		End:      mustDate(t, "2024-01-31", shanghai),
		Location: shanghai,
	}

	from, to := c.Bounds()

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, shanghai), from)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, int(999*time.Millisecond), shanghai), to)
	assert.False(t, c.Inverted())
}

func TestFilterCriteria_OpenBounds(t *testing.T) {
	c := FilterCriteria{End: mustDate(t, "2024-01-31", time.UTC), Location: time.UTC}

	from, to := c.Bounds()

	assert.True(t, from.IsZero())
	assert.False(t, to.IsZero())
	assert.True(t, c.HasDates())
	assert.False(t, c.Inverted())
}

func TestFilterCriteria_Inverted(t *testing.T) {
	c := FilterCriteria{
		Start:    mustDate(t, "2024-02-01", time.UTC),
		End:      mustDate(t, "2024-01-31", time.UTC),
		Location: time.UTC,
	}

	assert.True(t, c.Inverted())
}

func TestFilterCriteria_Tags(t *testing.T) {
	c := FilterCriteria{Tags: []string{"Project", NoTagSentinel}}

	assert.True(t, c.HasTags())
	assert.True(t, c.WantsNoTag())
	assert.Equal(t, []string{"Project"}, c.RealTags())
	assert.Equal(t, "No tag", TagLabel(NoTagSentinel))
	assert.Equal(t, "Project", TagLabel("Project"))
}

func TestFilterCriteria_Equal(t *testing.T) {
	jan := mustDate(t, "2024-01-01", time.UTC)
	janLater := jan.Add(5 * time.Hour)

	tests := []struct {
		name string
		a, b FilterCriteria
		want bool
	}{
		{"empty", FilterCriteria{}, FilterCriteria{}, true},
		{"tag order ignored", FilterCriteria{Tags: []string{"a", "b"}}, FilterCriteria{Tags: []string{"b", "a", "a"}}, true},
		{"different tags", FilterCriteria{Tags: []string{"a"}}, FilterCriteria{Tags: []string{"b"}}, false},
		{"same day", FilterCriteria{Start: jan, Location: time.UTC}, FilterCriteria{Start: &janLater, Location: time.UTC}, true},
		{"missing bound", FilterCriteria{Start: jan, Location: time.UTC}, FilterCriteria{Location: time.UTC}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}
