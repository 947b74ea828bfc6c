package models

import (
	"time"
)

// Level is an experience level assigned by the classifier.
type Level string

const (
	LevelJunior Level = "junior"
	LevelMiddle Level = "middle"
	LevelSenior Level = "senior"
)

// Posting is one job advertisement flowing through the pipeline. PostedAt
// keeps the raw source value: it may be malformed and the pipeline parses
// it fallibly where a real time is needed.
type Posting struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	SalaryFrom      *float64  `json:"salary_from,omitempty"`
	SalaryTo        *float64  `json:"salary_to,omitempty"`
	SalaryCurrency  string    `json:"salary_currency,omitempty"`
	ApplyURL        string    `json:"apply_url,omitempty"`
	PostedAt        string    `json:"posted_at,omitempty"`
	ProcessedAt     time.Time `json:"processed_at"`
	ExperienceLevel Level     `json:"experience_level,omitempty"`
}

// Valid reports whether the posting carries every field the store requires.
// Invalid postings are dropped at the sink, not stored.
func (p *Posting) Valid() bool {
	return p.ID != "" && p.Title != "" && p.Company != "" && p.Description != ""
}

// PartialRecord is the slice of a stored posting the store exposes for
// content-similarity matching. Title, company and location come back
// lowercased and trimmed.
type PartialRecord struct {
	Title          string
	Company        string
	Location       string
	Description    string
	SalaryFrom     *float64
	SalaryTo       *float64
	SalaryCurrency string
}

var postedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// ParsePostedAt parses an ISO-8601 timestamp, accepting both the trailing-Z
// UTC convention and numeric offsets without a colon (the HH.ru form).
// The ok result is false for empty or malformed values.
func ParsePostedAt(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range postedAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
