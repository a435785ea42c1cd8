package analyses

import (
	"strings"
	"unicode/utf8"
)

// MatchPolicy controls how repeated hits of the same keyword contribute to
// the score. The reference behavior for repeats was never pinned down, so
// the policy is configurable rather than fixed.
type MatchPolicy int

const (
	// MatchAllOccurrences counts every occurrence of a keyword.
	MatchAllOccurrences MatchPolicy = iota
	// MatchOncePerKeyword caps each keyword at one hit no matter how often
	// it repeats.
	MatchOncePerKeyword
)

const (
	baseScore       = 70.0
	complianceBonus = 5.0
	riskPenalty     = 15.0
	minTextLength   = 20
	reviewThreshold = 80.0
)

var complianceKeywords = []string{"gdpr", "privacy", "consent", "data protection", "secure", "confidential"}

var riskKeywords = []string{"leak", "breach", "unauthorized", "violation", "illegal"}

// Scorer computes compliance scores. The zero value counts all occurrences.
type Scorer struct {
	Policy MatchPolicy
}

// Score is pure and deterministic: identical text always yields an identical
// ComplianceScore. It never fails; empty text still produces a valid score.
func (sc Scorer) Score(text string) ComplianceScore {
	lower := strings.ToLower(text)

	score := baseScore
	var flags []string

	for _, kw := range complianceKeywords {
		score += complianceBonus * float64(sc.count(lower, kw))
	}
	for _, kw := range riskKeywords {
		n := sc.count(lower, kw)
		score -= riskPenalty * float64(n)
		for i := 0; i < n; i++ {
			flags = append(flags, "risk keyword detected: "+kw)
		}
	}

	// Clamp after all adjustments
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	if utf8.RuneCountInString(text) < minTextLength {
		flags = append(flags, "text too short for proper analysis")
	}
	if score < reviewThreshold {
		flags = append(flags, "low compliance score requiring review")
	}

	return ComplianceScore{
		OverallScore: score,
		RiskLevel:    riskLevelFor(score),
		Flags:        flags,
	}
}

func (sc Scorer) count(lower, keyword string) int {
	n := strings.Count(lower, keyword)
	if n > 1 && sc.Policy == MatchOncePerKeyword {
		return 1
	}
	return n
}

func riskLevelFor(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 50:
		return RiskMedium
	default:
		return RiskHigh
	}
}
