package prompt

import (
	"encoding/json"
	"fmt"

	domain "github.com/bryanwahyu/compliance-review/internal/domain/assist"
)

// GetSystemPrompt directs the model to draft reviewer notes from the
// structured score breakdown only.
func GetSystemPrompt() string {
	return `You are assisting a human compliance reviewer. You receive a JSON object describing the automated score of one submission: analysis_id, overall_score (0-100), risk_level (low|medium|high), flags (diagnostic reasons), and text_length.

Draft short reviewer notes (2-4 plain sentences, no markdown, no headings) that:
- restate what the score and flags indicate,
- point out what the reviewer should double-check before deciding,
- never recommend approve or reject; the decision belongs to the human.

Base the notes strictly on the JSON fields. Do not invent content of the submission.`
}

// GetUserPrompt builds a compact user message around the review context.
func GetUserPrompt(rc domain.ReviewContext) string {
	b, err := json.Marshal(rc)
	if err != nil {
		// ReviewContext is plain data; marshal cannot realistically fail,
		// but keep the prompt usable anyway.
		return fmt.Sprintf("Draft reviewer notes for analysis %s (score %.2f, risk %s).",
			rc.AnalysisID, rc.OverallScore, rc.RiskLevel)
	}
	return fmt.Sprintf("Draft reviewer notes for this score summary: %s", string(b))
}
