package pipeline

import (
	"time"

	"vacancyradar/internal/models"
)

// RecencyFilter retains postings published within a horizon of days before
// now. The clock is a field so tests can pin it.
type RecencyFilter struct {
	now func() time.Time
}

func NewRecencyFilter() *RecencyFilter {
	return &RecencyFilter{now: time.Now}
}

// FilterRecent keeps postings whose publication timestamp parses and falls
// at or after now minus horizonDays, preserving input order. Postings with
// missing or malformed timestamps are excluded, not errored.
func (f *RecencyFilter) FilterRecent(postings []models.Posting, horizonDays int) []models.Posting {
	cutoff := f.now().UTC().AddDate(0, 0, -horizonDays)

	recent := make([]models.Posting, 0, len(postings))
	for _, posting := range postings {
		postedAt, ok := models.ParsePostedAt(posting.PostedAt)
		if !ok {
			continue
		}
		if !postedAt.Before(cutoff) {
			recent = append(recent, posting)
		}
	}
	return recent
}
