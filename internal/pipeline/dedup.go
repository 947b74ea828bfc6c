package pipeline

import (
	"sort"
	"strings"

	"vacancyradar/internal/models"
)

// descriptionWindow is how many characters of the description's head and
// tail participate in the similarity comparison.
const descriptionWindow = 100

// Deduplicator partitions a batch into genuinely new postings and
// duplicates of records already seen, by identifier first and content
// similarity second. It performs no I/O and holds no state across calls.
type Deduplicator struct {
	companyExceptions []string
}

// NewDeduplicator builds an engine. companyExceptions lists lowercase
// company-name substrings whose reposts collapse on description similarity
// alone, without requiring a salary match.
func NewDeduplicator(companyExceptions []string) *Deduplicator {
	return &Deduplicator{companyExceptions: companyExceptions}
}

// dupeRef is the slice of an accepted posting later candidates are
// compared against.
type dupeRef struct {
	description    string
	salaryFrom     *float64
	salaryTo       *float64
	salaryCurrency string
}

// Deduplicate runs both passes against a set of known identifiers only.
func (d *Deduplicator) Deduplicate(batch []models.Posting, knownIDs map[string]struct{}) []models.Posting {
	return d.DeduplicateAgainst(batch, knownIDs, nil)
}

// DeduplicateAgainst additionally seeds the content pass with partial
// records of already-stored postings, so a repost of stored content under a
// fresh id is caught too. Output order is most-recent-first; callers must
// not assume input order survives.
func (d *Deduplicator) DeduplicateAgainst(batch []models.Posting, knownIDs map[string]struct{}, knownContent map[string]models.PartialRecord) []models.Posting {
	if len(batch) == 0 {
		return nil
	}

	// Pass 1: identifier dedup, against known ids and within the batch.
	seenIDs := make(map[string]struct{}, len(knownIDs)+len(batch))
	for id := range knownIDs {
		seenIDs[id] = struct{}{}
	}

	unique := make([]models.Posting, 0, len(batch))
	for _, posting := range batch {
		if _, dup := seenIDs[posting.ID]; dup {
			continue
		}
		seenIDs[posting.ID] = struct{}{}
		unique = append(unique, posting)
	}

	// Most recent first. Comparing the raw strings keeps malformed dates
	// from aborting the pass; they just sort imprecisely.
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].PostedAt > unique[j].PostedAt
	})

	// Pass 2: content-similarity dedup over the id-unique list.
	seenFull := make(map[string]struct{})
	latestByBase := make(map[string]dupeRef)

	for _, record := range knownContent {
		base := record.Company + "-" + record.Title
		seenFull[base+"-"+record.Location] = struct{}{}
		latestByBase[base] = dupeRef{
			description:    strings.ToLower(record.Description),
			salaryFrom:     record.SalaryFrom,
			salaryTo:       record.SalaryTo,
			salaryCurrency: record.SalaryCurrency,
		}
	}

	accepted := make([]models.Posting, 0, len(unique))
	for _, posting := range unique {
		base := sigPart(posting.Company) + "-" + sigPart(posting.Title)
		full := base + "-" + sigPart(posting.Location)

		if _, dup := seenFull[full]; dup {
			continue
		}
		if prior, ok := latestByBase[base]; ok && d.isDuplicateOf(posting, prior) {
			continue
		}

		accepted = append(accepted, posting)
		seenFull[full] = struct{}{}
		latestByBase[base] = dupeRef{
			description:    strings.ToLower(posting.Description),
			salaryFrom:     posting.SalaryFrom,
			salaryTo:       posting.SalaryTo,
			salaryCurrency: posting.SalaryCurrency,
		}
	}

	return accepted
}

// isDuplicateOf decides whether posting is a cross-location repost of an
// already-accepted posting with the same base signature: the descriptions
// must match on their first or last descriptionWindow characters, and the
// salary triple must match exactly unless the company is on the exception
// list.
func (d *Deduplicator) isDuplicateOf(posting models.Posting, prior dupeRef) bool {
	desc := strings.ToLower(posting.Description)
	if desc == "" || prior.description == "" {
		return false
	}

	similar := firstN(desc, descriptionWindow) == firstN(prior.description, descriptionWindow) ||
		lastN(desc, descriptionWindow) == lastN(prior.description, descriptionWindow)
	if !similar {
		return false
	}

	salaryMatches := floatPtrEqual(posting.SalaryFrom, prior.salaryFrom) &&
		floatPtrEqual(posting.SalaryTo, prior.salaryTo) &&
		posting.SalaryCurrency == prior.salaryCurrency
	if salaryMatches {
		return true
	}

	company := sigPart(posting.Company)
	for _, exception := range d.companyExceptions {
		if strings.Contains(company, exception) {
			return true
		}
	}
	return false
}

func sigPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func firstN(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func lastN(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
