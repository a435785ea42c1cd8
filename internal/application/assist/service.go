package assist

import (
	"context"
	"unicode/utf8"

	domanalyses "github.com/bryanwahyu/compliance-review/internal/domain/analyses"
	domain "github.com/bryanwahyu/compliance-review/internal/domain/assist"
)

// Service drafts suggested reviewer notes from an analysis' structured score.
type Service struct {
	client domain.Client
}

func NewService(client domain.Client) *Service {
	return &Service{client: client}
}

func (s *Service) DraftNotes(ctx context.Context, a *domanalyses.Analysis) (string, error) {
	rc := domain.ReviewContext{
		AnalysisID:   string(a.ID),
		OverallScore: a.Score.OverallScore,
		RiskLevel:    string(a.Score.RiskLevel),
		Flags:        a.Score.Flags,
		TextLength:   utf8.RuneCountInString(a.Text),
	}
	return s.client.DraftNotes(ctx, rc)
}
