package pipeline

import (
	"testing"

	"vacancyradar/internal/models"

	"github.com/stretchr/testify/assert"
)

func testKeywords() Keywords {
	return Keywords{
		Junior: []string{"junior", "стажер", "без опыта"},
		Middle: []string{"middle", "опытный", "3-5 лет"},
		Senior: []string{"senior", "lead", "архитектор"},
	}
}

func TestClassify(t *testing.T) {
	classifier := NewClassifier(testKeywords())

	tests := []struct {
		name        string
		description string
		expected    models.Level
	}{
		{
			name:        "empty description defaults to junior",
			description: "",
			expected:    models.LevelJunior,
		},
		{
			name:        "junior keywords only",
			description: "ищем junior разработчика, можно без опыта",
			expected:    models.LevelJunior,
		},
		{
			name:        "middle strictly dominates junior",
			description: "нужен middle, опытный разработчик",
			expected:    models.LevelMiddle,
		},
		{
			name:        "senior strictly dominates both",
			description: "senior инженер, возможен рост до lead или архитектор",
			expected:    models.LevelSenior,
		},
		{
			name:        "tie between junior and middle resolves to junior",
			description: "junior или middle",
			expected:    models.LevelJunior,
		},
		{
			name:        "senior tied with middle resolves to middle",
			description: "senior middle",
			expected:    models.LevelMiddle,
		},
		{
			name:        "explicit six years outweighs keyword silence",
			description: "требуется опыт работы 6 лет",
			expected:    models.LevelSenior,
		},
		{
			name:        "one year of experience leans junior",
			description: "достаточно 1 год опыта",
			expected:    models.LevelJunior,
		},
		{
			name:        "four years leans middle",
			description: "4 years of experience required",
			expected:    models.LevelMiddle,
		},
		{
			name:        "keyword repetition counts once",
			description: "middle middle middle junior без опыта",
			expected:    models.LevelJunior,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.description))
		})
	}
}

func TestClassifyStableUnderKeywordReordering(t *testing.T) {
	reordered := Keywords{
		Junior: []string{"без опыта", "junior", "стажер"},
		Middle: []string{"3-5 лет", "middle", "опытный"},
		Senior: []string{"архитектор", "senior", "lead"},
	}

	descriptions := []string{
		"senior lead архитектор",
		"junior без опыта",
		"опытный middle, опыт работы 4 года",
	}

	a := NewClassifier(testKeywords())
	b := NewClassifier(reordered)
	for _, description := range descriptions {
		assert.Equal(t, a.Classify(description), b.Classify(description))
	}
}

func TestParseExperienceYears(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"опыт работы 3 года", 3},
		{"опыт 5 лет", 5},
		{"нужен 1 год опыта", 1},
		{"6+ years of experience", 6},
		{"2 years", 2},
		{"без указания стажа", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseExperienceYears(tt.text), "text: %q", tt.text)
	}
}
