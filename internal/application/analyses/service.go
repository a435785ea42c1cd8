package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	domain "github.com/bryanwahyu/compliance-review/internal/domain/analyses"
)

// Service implements use-cases for the analysis review lifecycle.
// Service is designed to be used concurrently and is thread-safe: all shared
// mutable state lives behind the Repository port.
type Service struct {
	Repo    domain.Repository
	Scorer  domain.Scorer
	Archive domain.ReportArchive // optional; nil disables report archiving
}

//
// ==== USE CASES ====
//

// Command to submit text for analysis
type SubmitCommand struct {
	Text string
}

type SubmitResult struct {
	ID        domain.AnalysisID      `json:"id"`
	Status    domain.Status          `json:"status"`
	Score     domain.ComplianceScore `json:"score"`
	CreatedAt time.Time              `json:"created_at"`
}

// Submit scores the text once and stores a new pending record. Scoring runs
// before the record is inserted, never under a store lock.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (SubmitResult, error) {
	score := s.Scorer.Score(cmd.Text)

	a, err := s.Repo.Create(ctx, cmd.Text, score)
	if err != nil {
		return SubmitResult{}, err
	}

	log.Printf("created analysis %s with score %.2f", a.ID, a.Score.OverallScore)

	return SubmitResult{
		ID:        a.ID,
		Status:    a.Status,
		Score:     a.Score,
		CreatedAt: a.CreatedAt,
	}, nil
}

// Get fetches 1 analysis by id
func (s *Service) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, id)
}

// ListPending returns all pending analyses, oldest first so reviewers work
// the queue in arrival order.
func (s *Service) ListPending(ctx context.Context) ([]*domain.Analysis, error) {
	list, err := s.Repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// ListReviews returns all analyses, optionally filtered by status, newest first.
func (s *Service) ListReviews(ctx context.Context, status *domain.Status) ([]*domain.Analysis, error) {
	list, err := s.Repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// Command for a reviewer decision
type DecideCommand struct {
	ID       domain.AnalysisID
	Decision string
	Notes    string
}

type DecideResult struct {
	ID         domain.AnalysisID `json:"id"`
	Status     domain.Status     `json:"status"`
	ReviewedAt time.Time         `json:"reviewed_at"`
}

// Decide applies a terminal verdict to a pending analysis. The repository
// transition is the single atomic check-and-set; NotFound and AlreadyReviewed
// surface unchanged.
func (s *Service) Decide(ctx context.Context, cmd DecideCommand) (DecideResult, error) {
	var next domain.Status
	switch domain.Decision(strings.ToLower(strings.TrimSpace(cmd.Decision))) {
	case domain.DecisionApprove:
		next = domain.StatusApproved
	case domain.DecisionReject:
		next = domain.StatusRejected
	default:
		return DecideResult{}, domain.ErrInvalidDecision
	}

	a, err := s.Repo.Transition(ctx, cmd.ID, next, cmd.Notes)
	if err != nil {
		return DecideResult{}, err
	}

	log.Printf("analysis %s has been %s by reviewer", a.ID, a.Status)

	if s.Archive != nil {
		// Archive in the background with its own context so the upload
		// survives the request; a failed archive never fails the decision.
		go s.archiveReview(a)
	}

	return DecideResult{ID: a.ID, Status: a.Status, ReviewedAt: *a.ReviewedAt}, nil
}

func (s *Service) archiveReview(a *domain.Analysis) {
	data, err := json.Marshal(a)
	if err != nil {
		log.Printf("archive review %s: marshal: %v", a.ID, err)
		return
	}
	key := fmt.Sprintf("reviews/%s/%s.json", a.Status, a.ID)
	if _, err := s.Archive.Put(context.Background(), key, data, "application/json"); err != nil {
		log.Printf("archive review %s: %v", a.ID, err)
	}
}

// Statistics aggregates counts and the mean score across all analyses.
func (s *Service) Statistics(ctx context.Context) (domain.Stats, error) {
	return s.Repo.Stats(ctx)
}
