package pipeline

import (
	"testing"
	"time"

	"vacancyradar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedFilter(now time.Time) *RecencyFilter {
	return &RecencyFilter{now: func() time.Time { return now }}
}

func postingAt(id, postedAt string) models.Posting {
	return models.Posting{ID: id, PostedAt: postedAt}
}

func TestFilterRecentHorizonBoundary(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	filter := fixedFilter(now)

	postings := []models.Posting{
		postingAt("inside", "2024-01-07T00:00:00Z"),
		postingAt("outside", "2024-01-06T00:00:00Z"),
		postingAt("malformed", "вчера"),
		postingAt("missing", ""),
	}

	got := filter.FilterRecent(postings, 3)

	require.Len(t, got, 1)
	assert.Equal(t, "inside", got[0].ID)
}

func TestFilterRecentPreservesOrder(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	filter := fixedFilter(now)

	postings := []models.Posting{
		postingAt("b", "2024-01-08T00:00:00Z"),
		postingAt("a", "2024-01-09T00:00:00Z"),
		postingAt("c", "2024-01-07T12:00:00Z"),
	}

	got := filter.FilterRecent(postings, 30)

	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestFilterRecentZeroHorizon(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	filter := fixedFilter(now)

	postings := []models.Posting{
		postingAt("at-now", "2024-01-10T00:00:00Z"),
		postingAt("just-before", "2024-01-09T23:59:59Z"),
	}

	got := filter.FilterRecent(postings, 0)

	require.Len(t, got, 1)
	assert.Equal(t, "at-now", got[0].ID)
}

func TestFilterRecentMonotonicInHorizon(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	filter := fixedFilter(now)

	postings := []models.Posting{
		postingAt("1", "2024-01-09T00:00:00Z"),
		postingAt("2", "2024-01-05T00:00:00Z"),
		postingAt("3", "2023-12-20T00:00:00Z"),
		postingAt("4", "bad-date"),
	}

	previous := 0
	for _, horizon := range []int{0, 1, 3, 7, 30, 365} {
		got := filter.FilterRecent(postings, horizon)
		assert.GreaterOrEqual(t, len(got), previous, "horizon %d shrank the result", horizon)
		previous = len(got)
	}
}

func TestFilterRecentAcceptsOffsetTimestamps(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	filter := fixedFilter(now)

	postings := []models.Posting{
		postingAt("with-colon", "2024-01-09T12:00:00+03:00"),
		postingAt("hh-style", "2024-01-09T12:00:00+0300"),
	}

	got := filter.FilterRecent(postings, 3)
	assert.Len(t, got, 2)
}
