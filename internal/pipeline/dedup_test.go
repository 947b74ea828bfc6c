package pipeline

import (
	"strings"
	"testing"

	"vacancyradar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func ids(postings []models.Posting) []string {
	out := make([]string, 0, len(postings))
	for _, p := range postings {
		out = append(out, p.ID)
	}
	return out
}

func TestDeduplicateDropsKnownAndRepeatedIDs(t *testing.T) {
	dedup := NewDeduplicator(nil)

	batch := []models.Posting{
		{ID: "1", Title: "A", Company: "X", PostedAt: "2024-01-03T00:00:00Z"},
		{ID: "2", Title: "B", Company: "Y", PostedAt: "2024-01-02T00:00:00Z"},
		{ID: "1", Title: "A copy", Company: "X", PostedAt: "2024-01-01T00:00:00Z"},
	}
	known := map[string]struct{}{"2": {}}

	got := dedup.Deduplicate(batch, known)

	assert.Equal(t, []string{"1"}, ids(got))
}

func TestDeduplicateCrossLocationRepost(t *testing.T) {
	dedup := NewDeduplicator(nil)
	desc := strings.Repeat("A", 150)

	batch := []models.Posting{
		{
			ID: "1", Title: "Backend Dev", Company: "Acme", Location: "Moscow",
			Description: desc, SalaryFrom: floatPtr(100), SalaryCurrency: "RUB",
			PostedAt: "2024-01-05T00:00:00Z",
		},
		{
			ID: "2", Title: "Backend Dev", Company: "Acme", Location: "SPB",
			Description: desc, SalaryFrom: floatPtr(100), SalaryCurrency: "RUB",
			PostedAt: "2024-01-04T00:00:00Z",
		},
	}

	got := dedup.Deduplicate(batch, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID, "the more recent posting wins")
}

func TestDeduplicateSalaryDifferenceKeepsBoth(t *testing.T) {
	dedup := NewDeduplicator(nil)
	desc := strings.Repeat("A", 150)

	batch := []models.Posting{
		{
			ID: "1", Title: "Backend Dev", Company: "Acme", Location: "Moscow",
			Description: desc, SalaryFrom: floatPtr(100), SalaryCurrency: "RUB",
			PostedAt: "2024-01-05T00:00:00Z",
		},
		{
			ID: "2", Title: "Backend Dev", Company: "Acme", Location: "SPB",
			Description: desc, SalaryFrom: floatPtr(200), SalaryCurrency: "RUB",
			PostedAt: "2024-01-04T00:00:00Z",
		},
	}

	got := dedup.Deduplicate(batch, nil)
	assert.Len(t, got, 2)
}

func TestDeduplicateCompanyExceptionIgnoresSalary(t *testing.T) {
	dedup := NewDeduplicator([]string{"skypro"})
	desc := strings.Repeat("B", 150)

	batch := []models.Posting{
		{
			ID: "1", Title: "Tutor", Company: "Skypro LLC", Location: "Moscow",
			Description: desc, SalaryFrom: floatPtr(100),
			PostedAt: "2024-01-05T00:00:00Z",
		},
		{
			ID: "2", Title: "Tutor", Company: "Skypro LLC", Location: "SPB",
			Description: desc, SalaryFrom: floatPtr(500),
			PostedAt: "2024-01-04T00:00:00Z",
		},
	}

	got := dedup.Deduplicate(batch, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestDeduplicateFullSignatureMatch(t *testing.T) {
	dedup := NewDeduplicator(nil)

	batch := []models.Posting{
		{
			ID: "1", Title: " Backend Dev ", Company: "ACME", Location: "Moscow",
			Description: "first", PostedAt: "2024-01-05T00:00:00Z",
		},
		{
			ID: "2", Title: "backend dev", Company: "acme", Location: "moscow",
			Description: "entirely different text", PostedAt: "2024-01-04T00:00:00Z",
		},
	}

	got := dedup.Deduplicate(batch, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestDeduplicateEmptyDescriptionNeverContentDup(t *testing.T) {
	dedup := NewDeduplicator(nil)

	batch := []models.Posting{
		{ID: "1", Title: "Dev", Company: "Acme", Location: "Moscow", PostedAt: "2024-01-05T00:00:00Z"},
		{ID: "2", Title: "Dev", Company: "Acme", Location: "SPB", PostedAt: "2024-01-04T00:00:00Z"},
	}

	got := dedup.Deduplicate(batch, nil)
	assert.Len(t, got, 2)
}

func TestDeduplicateAgainstKnownContent(t *testing.T) {
	dedup := NewDeduplicator(nil)
	desc := strings.Repeat("c", 150)

	known := map[string]models.PartialRecord{
		"stored": {
			Title:       "backend dev",
			Company:     "acme",
			Location:    "moscow",
			Description: desc,
			SalaryFrom:  floatPtr(100),
		},
	}

	batch := []models.Posting{
		// Same full signature as the stored record.
		{
			ID: "10", Title: "Backend Dev", Company: "Acme", Location: "Moscow",
			Description: "anything", PostedAt: "2024-01-05T00:00:00Z",
		},
		// Same base, new location, matching description and salary.
		{
			ID: "11", Title: "Backend Dev", Company: "Acme", Location: "SPB",
			Description: strings.ToUpper(desc), SalaryFrom: floatPtr(100),
			PostedAt: "2024-01-04T00:00:00Z",
		},
		// Same base, but salary differs and no exception applies.
		{
			ID: "12", Title: "Backend Dev", Company: "Acme", Location: "Kazan",
			Description: desc, SalaryFrom: floatPtr(999),
			PostedAt: "2024-01-03T00:00:00Z",
		},
	}

	got := dedup.DeduplicateAgainst(batch, nil, known)

	assert.Equal(t, []string{"12"}, ids(got))
}

func TestDeduplicateOutputMostRecentFirst(t *testing.T) {
	dedup := NewDeduplicator(nil)

	batch := []models.Posting{
		{ID: "old", Title: "A", Company: "X", PostedAt: "2024-01-01T00:00:00Z"},
		{ID: "new", Title: "B", Company: "Y", PostedAt: "2024-01-09T00:00:00Z"},
		{ID: "mid", Title: "C", Company: "Z", PostedAt: "2024-01-05T00:00:00Z"},
	}

	got := dedup.Deduplicate(batch, nil)

	assert.Equal(t, []string{"new", "mid", "old"}, ids(got))
}

func TestDeduplicateEmptyBatch(t *testing.T) {
	dedup := NewDeduplicator([]string{"skypro"})
	assert.Empty(t, dedup.Deduplicate(nil, map[string]struct{}{"1": {}}))
}
