package analyses

import "context"

// Repository port (interface for persistence of analyses).
//
// Transition is the critical operation: the status check-and-set must be
// indivisible with respect to other concurrent Transition calls on the same
// id, so exactly one of N concurrent decisions succeeds.
type Repository interface {
	Create(ctx context.Context, text string, score ComplianceScore) (*Analysis, error)
	Get(ctx context.Context, id AnalysisID) (*Analysis, error)
	ListPending(ctx context.Context) ([]*Analysis, error)
	List(ctx context.Context, status *Status) ([]*Analysis, error)
	Transition(ctx context.Context, id AnalysisID, next Status, notes string) (*Analysis, error)
	Stats(ctx context.Context) (Stats, error)
}

// ReportArchive port (interface for archiving reviewed-analysis reports)
type ReportArchive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
