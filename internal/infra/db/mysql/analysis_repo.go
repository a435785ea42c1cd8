package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/compliance-review/internal/domain/analyses"
)

// Clock is the subset of the application clock the repository needs.
type Clock interface {
	Now() time.Time
}

// AnalysisRepository is the durable MySQL implementation of the analyses
// repository port. The exactly-once decision guarantee rides on the
// conditional UPDATE in Transition.
type AnalysisRepository struct {
	db    *sql.DB
	clock Clock
}

func NewAnalysisRepository(db *sql.DB, clock Clock) *AnalysisRepository {
	return &AnalysisRepository{db: db, clock: clock}
}

// Create inserts a new pending analysis record
func (r *AnalysisRepository) Create(ctx context.Context, text string, score domain.ComplianceScore) (*domain.Analysis, error) {
	const q = `
INSERT INTO compliance_analyses
(id, text, overall_score, risk_level, flags_json, status, created_at)
VALUES (?,?,?,?,?,?,?);
`
	a := &domain.Analysis{
		ID:        domain.AnalysisID(uuid.New().String()),
		Text:      text,
		Score:     score,
		Status:    domain.StatusPendingReview,
		CreatedAt: r.clock.Now().UTC(),
	}

	flags, err := flagsToJSON(score.Flags)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.Text, a.Score.OverallScore, a.Score.RiskLevel, flags, a.Status, a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Get by ID
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, text, overall_score, risk_level, flags_json, status, created_at, reviewed_at, reviewer_notes
FROM compliance_analyses
WHERE id=? LIMIT 1;
`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{ID: id}
	}
	return a, err
}

// ListPending returns all records still awaiting review
func (r *AnalysisRepository) ListPending(ctx context.Context) ([]*domain.Analysis, error) {
	pending := domain.StatusPendingReview
	return r.List(ctx, &pending)
}

// List returns all records, optionally filtered by exact status
func (r *AnalysisRepository) List(ctx context.Context, status *domain.Status) ([]*domain.Analysis, error) {
	query := `
SELECT id, text, overall_score, risk_level, flags_json, status, created_at, reviewed_at, reviewer_notes
FROM compliance_analyses`
	var args []any
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, *status)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Transition performs the atomic check-and-set: the UPDATE only fires while
// the row is still pending, so concurrent decisions race on RowsAffected.
func (r *AnalysisRepository) Transition(ctx context.Context, id domain.AnalysisID, next domain.Status, notes string) (*domain.Analysis, error) {
	const q = `
UPDATE compliance_analyses
SET status = ?, reviewed_at = ?, reviewer_notes = ?
WHERE id = ? AND status = ?;
`
	now := r.clock.Now().UTC()
	res, err := r.db.ExecContext(ctx, q, next, now, notes, id, domain.StatusPendingReview)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Lost the race or unknown id; a follow-up read tells which.
		cur, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &domain.AlreadyReviewedError{ID: id, Status: cur.Status}
	}
	return r.Get(ctx, id)
}

// Stats aggregates counts and the mean score in a single query
func (r *AnalysisRepository) Stats(ctx context.Context) (domain.Stats, error) {
	const q = `
SELECT COUNT(*) AS total,
       COALESCE(SUM(status = 'pending_review'),0) AS pending,
       COALESCE(SUM(status = 'approved'),0)       AS approved,
       COALESCE(SUM(status = 'rejected'),0)       AS rejected,
       COALESCE(AVG(overall_score),0)             AS average_score
FROM compliance_analyses;
`
	var st domain.Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(
		&st.Total, &st.Pending, &st.Approved, &st.Rejected, &st.AverageScore,
	); err != nil {
		return domain.Stats{}, err
	}
	return st, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var a domain.Analysis
	var flagsRaw string
	var reviewedAt sql.NullTime
	var notes sql.NullString
	if err := row.Scan(
		&a.ID, &a.Text, &a.Score.OverallScore, &a.Score.RiskLevel, &flagsRaw,
		&a.Status, &a.CreatedAt, &reviewedAt, &notes,
	); err != nil {
		return nil, err
	}
	flags, err := flagsFromJSON(flagsRaw)
	if err != nil {
		return nil, err
	}
	a.Score.Flags = flags
	if reviewedAt.Valid {
		t := reviewedAt.Time
		a.ReviewedAt = &t
	}
	if notes.Valid {
		a.ReviewerNotes = notes.String
	}
	return &a, nil
}
