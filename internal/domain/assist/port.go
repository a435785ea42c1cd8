package assist

import "context"

// ReviewContext is the structured payload handed to the drafting client.
// Only the score breakdown travels; never the submitted text itself.
type ReviewContext struct {
	AnalysisID   string   `json:"analysis_id"`
	OverallScore float64  `json:"overall_score"`
	RiskLevel    string   `json:"risk_level"`
	Flags        []string `json:"flags"`
	TextLength   int      `json:"text_length"`
}

type Client interface {
	DraftNotes(ctx context.Context, rc ReviewContext) (string, error)
}
