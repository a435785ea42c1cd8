package analyses

import (
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Status enum
type Status string

const (
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
)

// Terminal reports whether no further transition may leave the status.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseStatus validates an inbound status string
func ParseStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusPendingReview, StatusApproved, StatusRejected:
		return Status(v), nil
	}
	return "", ErrInvalidStatus
}

// Decision enum
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// RiskLevel enum, derived solely from the overall score
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ComplianceScore value object, immutable once computed
type ComplianceScore struct {
	OverallScore float64   `json:"overall_score"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Flags        []string  `json:"flags"`
}

// Aggregate Root: Analysis
type Analysis struct {
	ID            AnalysisID      `json:"id"`
	Text          string          `json:"text"`
	Score         ComplianceScore `json:"score"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	ReviewedAt    *time.Time      `json:"reviewed_at"`
	ReviewerNotes string          `json:"reviewer_notes,omitempty"`
}

// Clone returns a deep copy so callers never hold a reference into the store.
func (a *Analysis) Clone() *Analysis {
	c := *a
	if a.Score.Flags != nil {
		c.Score.Flags = append([]string(nil), a.Score.Flags...)
	}
	if a.ReviewedAt != nil {
		t := *a.ReviewedAt
		c.ReviewedAt = &t
	}
	return &c
}

// Stats aggregate counts over all analyses
type Stats struct {
	Total        int     `json:"total_analyses"`
	Pending      int     `json:"pending_review"`
	Approved     int     `json:"approved"`
	Rejected     int     `json:"rejected"`
	AverageScore float64 `json:"average_score"`
}
