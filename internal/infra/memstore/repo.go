package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/compliance-review/internal/domain/analyses"
)

// Clock is the subset of the application clock the store needs.
type Clock interface {
	Now() time.Time
}

// Repository keeps analyses in process memory. Every mutation funnels
// through Transition, which performs the status check-and-set inside the
// write lock: of N concurrent decisions on one id exactly one observes
// pending_review and wins, the rest observe the terminal status.
//
// Readers always receive clones, so no caller ever holds a reference into
// the mutable table and a record can never be observed mid-mutation.
type Repository struct {
	mu      sync.RWMutex
	records map[domain.AnalysisID]*domain.Analysis
	clock   Clock
}

func New(clock Clock) *Repository {
	return &Repository{
		records: make(map[domain.AnalysisID]*domain.Analysis),
		clock:   clock,
	}
}

// Create allocates a fresh id and stores a new pending record.
func (r *Repository) Create(ctx context.Context, text string, score domain.ComplianceScore) (*domain.Analysis, error) {
	a := &domain.Analysis{
		ID:        domain.AnalysisID(uuid.New().String()),
		Text:      text,
		Score:     score,
		Status:    domain.StatusPendingReview,
		CreatedAt: r.clock.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[a.ID] = a

	// Clone inside the lock: once the record is in the table a concurrent
	// Transition may already be mutating it.
	return a.Clone(), nil
}

// Get by ID
func (r *Repository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.records[id]
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	return a.Clone(), nil
}

// ListPending returns a snapshot of all pending records, order unspecified.
func (r *Repository) ListPending(ctx context.Context) ([]*domain.Analysis, error) {
	pending := domain.StatusPendingReview
	return r.List(ctx, &pending)
}

// List returns a snapshot of all records, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *domain.Status) ([]*domain.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Analysis, 0, len(r.records))
	for _, a := range r.records {
		if status != nil && a.Status != *status {
			continue
		}
		out = append(out, a.Clone())
	}
	return out, nil
}

// Transition atomically moves a pending record to a terminal status. The
// status/reviewed_at/notes update is applied as a single unit under the
// write lock; a record already in a terminal state is left untouched.
func (r *Repository) Transition(ctx context.Context, id domain.AnalysisID, next domain.Status, notes string) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.records[id]
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	if a.Status != domain.StatusPendingReview {
		return nil, &domain.AlreadyReviewedError{ID: id, Status: a.Status}
	}

	now := r.clock.Now().UTC()
	a.Status = next
	a.ReviewedAt = &now
	a.ReviewerNotes = notes

	return a.Clone(), nil
}

// Stats aggregates counts and the mean score from a consistent snapshot.
func (r *Repository) Stats(ctx context.Context) (domain.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var st domain.Stats
	var sum float64
	for _, a := range r.records {
		st.Total++
		sum += a.Score.OverallScore
		switch a.Status {
		case domain.StatusPendingReview:
			st.Pending++
		case domain.StatusApproved:
			st.Approved++
		case domain.StatusRejected:
			st.Rejected++
		}
	}
	if st.Total > 0 {
		st.AverageScore = sum / float64(st.Total)
	}
	return st, nil
}
