package models

import (
	"encoding/json"
	"time"
)

// Vacancy mirrors the HH.ru vacancy payload, both the search item and the
// detail response.
type Vacancy struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Employer     Ref     `json:"employer"`
	Area         Ref     `json:"area"`
	Salary       *Salary `json:"salary"`
	PublishedAt  string  `json:"published_at"`
	AlternateURL string  `json:"alternate_url"`
}

type Ref struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type Salary struct {
	From     *float64 `json:"from"`
	To       *float64 `json:"to"`
	Currency string   `json:"currency"`
}

func (v Vacancy) MarshalBinary() ([]byte, error) {
	return json.Marshal(v)
}

func (v *Vacancy) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, v)
}

// ToPosting converts the wire record into the pipeline's posting shape.
// The publication timestamp is re-rendered as UTC RFC 3339; when the source
// value does not parse, the current instant substitutes for it.
func (v *Vacancy) ToPosting(now time.Time) Posting {
	postedAt := now.UTC().Format(time.RFC3339)
	if t, ok := ParsePostedAt(v.PublishedAt); ok {
		postedAt = t.UTC().Format(time.RFC3339)
	}

	p := Posting{
		ID:          v.ID,
		Title:       v.Name,
		Company:     v.Employer.Name,
		Location:    v.Area.Name,
		Description: v.Description,
		ApplyURL:    v.AlternateURL,
		PostedAt:    postedAt,
		ProcessedAt: now.UTC(),
	}
	if v.Salary != nil {
		p.SalaryFrom = v.Salary.From
		p.SalaryTo = v.Salary.To
		p.SalaryCurrency = v.Salary.Currency
	}
	return p
}
