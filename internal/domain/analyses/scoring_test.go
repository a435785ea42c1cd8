package analyses

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreStaysWithinBounds(t *testing.T) {
	inputs := []string{
		"",
		"plain text with no keywords at all, long enough to pass the length check",
		strings.Repeat("breach leak violation illegal unauthorized ", 10),
		strings.Repeat("gdpr privacy consent data protection secure confidential ", 10),
		"breach of data leak",
		"GDPR privacy consent",
	}

	var sc Scorer
	for _, text := range inputs {
		got := sc.Score(text)
		assert.GreaterOrEqual(t, got.OverallScore, 0.0, "input %q", text)
		assert.LessOrEqual(t, got.OverallScore, 100.0, "input %q", text)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	const text = "this confidential report covers a privacy breach"

	var sc Scorer
	first := sc.Score(text)
	second := sc.Score(text)

	assert.Equal(t, first, second, "identical text must yield an identical score")
}

func TestScoreSingleComplianceKeyword(t *testing.T) {
	// One compliance keyword, no risk keywords, long enough to skip the
	// short-text flag.
	got := Scorer{}.Score("this message mentions privacy considerations")

	assert.Equal(t, 75.0, got.OverallScore)
	assert.Equal(t, RiskMedium, got.RiskLevel)
	assert.Equal(t, []string{"low compliance score requiring review"}, got.Flags)
}

func TestScoreRiskKeywords(t *testing.T) {
	got := Scorer{}.Score("breach of data leak")

	assert.Equal(t, 40.0, got.OverallScore)
	assert.Equal(t, RiskHigh, got.RiskLevel)
	// Risk flags come first in keyword scan order, then the short-text flag
	// (19 chars), then the low-score flag.
	assert.Equal(t, []string{
		"risk keyword detected: leak",
		"risk keyword detected: breach",
		"text too short for proper analysis",
		"low compliance score requiring review",
	}, got.Flags)
}

func TestScoreEmptyText(t *testing.T) {
	// Empty text is valid input: base score minus nothing, plus the
	// short-text flag.
	got := Scorer{}.Score("")

	assert.Equal(t, 70.0, got.OverallScore)
	assert.Equal(t, RiskMedium, got.RiskLevel)
	assert.Equal(t, []string{
		"text too short for proper analysis",
		"low compliance score requiring review",
	}, got.Flags)
}

func TestScoreClampsAtZero(t *testing.T) {
	got := Scorer{}.Score(strings.Repeat("unauthorized breach violation ", 5))

	assert.Equal(t, 0.0, got.OverallScore)
	assert.Equal(t, RiskHigh, got.RiskLevel)
}

func TestScoreClampsAtHundred(t *testing.T) {
	got := Scorer{}.Score("gdpr privacy consent data protection secure confidential gdpr privacy")

	assert.Equal(t, 100.0, got.OverallScore)
	assert.Equal(t, RiskLow, got.RiskLevel)
	assert.Empty(t, got.Flags, "a perfect long text raises no flags")
}

func TestScoreRiskLevelThresholds(t *testing.T) {
	tests := []struct {
		name string
		text string
		want RiskLevel
	}{
		{"two compliance keywords reach low risk", "secure handling with explicit consent from every user", RiskLow},
		{"no keywords is medium risk", "a long enough text without any keyword in it", RiskMedium},
		{"two risk keywords drop to high risk", "the breach caused a data leak last week", RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scorer{}.Score(tt.text)
			assert.Equal(t, tt.want, got.RiskLevel, "score %.2f", got.OverallScore)
		})
	}
}

func TestScoreMatchPolicy(t *testing.T) {
	// Exactly 20 chars, so no short-text flag interferes.
	const text = "breach breach breach"
	require.Len(t, text, 20)

	t.Run("all occurrences compound", func(t *testing.T) {
		got := Scorer{Policy: MatchAllOccurrences}.Score(text)

		assert.Equal(t, 25.0, got.OverallScore)
		assert.Equal(t, RiskHigh, got.RiskLevel)
		assert.Equal(t, []string{
			"risk keyword detected: breach",
			"risk keyword detected: breach",
			"risk keyword detected: breach",
			"low compliance score requiring review",
		}, got.Flags)
	})

	t.Run("once per keyword caps repeats", func(t *testing.T) {
		got := Scorer{Policy: MatchOncePerKeyword}.Score(text)

		assert.Equal(t, 55.0, got.OverallScore)
		assert.Equal(t, RiskMedium, got.RiskLevel)
		assert.Equal(t, []string{
			"risk keyword detected: breach",
			"low compliance score requiring review",
		}, got.Flags)
	})
}

func TestScoreMatchingIsCaseInsensitive(t *testing.T) {
	upper := Scorer{}.Score("GDPR Privacy CONSENT handled with care")
	lower := Scorer{}.Score("gdpr privacy consent handled with care")

	assert.Equal(t, lower.OverallScore, upper.OverallScore)
}
