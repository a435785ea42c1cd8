package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/compliance-review/internal/domain/analyses"
)

// Clock is the subset of the application clock the repository needs.
type Clock interface {
	Now() time.Time
}

// AnalysisRepository is the Postgres implementation of the analyses
// repository port, a drop-in replacement for the memory store.
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
VALUES ($1,$2,$3,$4,$5,$6,$7);`

	a := &domain.Analysis{
		ID:        domain.AnalysisID(uuid.New().String()),
		Text:      text,
		Score:     score,
		Status:    domain.StatusPendingReview,
		CreatedAt: r.clock.Now().UTC(),
	}

	flags := score.Flags
	if flags == nil {
		flags = []string{}
	}
	flagsRaw, err := json.Marshal(flags)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.Text, a.Score.OverallScore, a.Score.RiskLevel, string(flagsRaw), a.Status, a.CreatedAt,
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
WHERE id=$1
LIMIT 1;`
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
		query += " WHERE status = $1"
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

// Transition performs the atomic check-and-set via a conditional UPDATE.
func (r *AnalysisRepository) Transition(ctx context.Context, id domain.AnalysisID, next domain.Status, notes string) (*domain.Analysis, error) {
	const q = `
UPDATE compliance_analyses
SET status = $1, reviewed_at = $2, reviewer_notes = $3
WHERE id = $4 AND status = $5;`

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
       COALESCE(SUM(CASE WHEN status = 'pending_review' THEN 1 ELSE 0 END),0) AS pending,
       COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END),0)       AS approved,
       COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END),0)       AS rejected,
       COALESCE(AVG(overall_score),0)                                         AS average_score
FROM compliance_analyses;`

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
	if flagsRaw != "" {
		var flags []string
		if err := json.Unmarshal([]byte(flagsRaw), &flags); err != nil {
			return nil, err
		}
		if len(flags) > 0 {
			a.Score.Flags = flags
		}
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		a.ReviewedAt = &t
	}
	if notes.Valid {
		a.ReviewerNotes = notes.String
	}
	return &a, nil
}
