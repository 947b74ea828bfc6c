package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"vacancyradar/internal/models"
)

// Keywords holds the per-level keyword lists the classifier scores against.
// Members are matched as lowercase substrings of the description.
type Keywords struct {
	Junior []string
	Middle []string
	Senior []string
}

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|год|года|лет)(?:\s+(?:of\s+experience|опыта))?`),
	regexp.MustCompile(`(?i)опыт\s+(?:работы\s+)?(\d+)\+?\s*(?:год|года|лет)`),
}

// Classifier assigns an experience level from free-text heuristics. It is
// pure: same description, same label, regardless of keyword list order.
type Classifier struct {
	keywords Keywords
}

func NewClassifier(keywords Keywords) *Classifier {
	return &Classifier{keywords: keywords}
}

// Classify scores the description against each level's keyword set, counting
// each keyword at most once, then folds in an explicit years-of-experience
// mention when one is found. Senior wins only on strict dominance over both
// other levels, middle on strict dominance over junior, junior otherwise.
func (c *Classifier) Classify(description string) models.Level {
	desc := strings.ToLower(description)

	junior := countPresent(desc, c.keywords.Junior)
	middle := countPresent(desc, c.keywords.Middle)
	senior := countPresent(desc, c.keywords.Senior)

	switch years := ParseExperienceYears(description); {
	case years == 0:
	case years <= 2:
		junior += 2
	case years <= 5:
		middle += 2
	default:
		senior += 2
	}

	switch {
	case senior > middle && senior > junior:
		return models.LevelSenior
	case middle > junior:
		return models.LevelMiddle
	default:
		return models.LevelJunior
	}
}

// ParseExperienceYears extracts an explicit years-of-experience integer from
// the text. First pattern match wins; 0 means no mention was found.
func ParseExperienceYears(text string) int {
	for _, pattern := range yearsPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			if years, err := strconv.Atoi(match[1]); err == nil {
				return years
			}
		}
	}
	return 0
}

func countPresent(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}
