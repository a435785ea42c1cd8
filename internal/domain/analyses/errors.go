package analyses

import (
	"errors"
	"fmt"
)

var (
	// ErrTextRequired indicates a submission without the required text field.
	ErrTextRequired = errors.New("text is required")
	// ErrNotFound indicates no analysis exists for the given id.
	ErrNotFound = errors.New("analysis not found")
	// ErrAlreadyReviewed indicates a transition attempt on a terminal record.
	ErrAlreadyReviewed = errors.New("analysis already reviewed")
	// ErrInvalidDecision indicates a decision outside approve/reject.
	ErrInvalidDecision = errors.New("decision must be either 'approve' or 'reject'")
	// ErrInvalidStatus indicates an unknown status filter value.
	ErrInvalidStatus = errors.New("invalid status")
)

// NotFoundError carries the id that was looked up.
type NotFoundError struct {
	ID AnalysisID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("analysis %s not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyReviewedError carries the current terminal status so the caller
// knows a retry is useless.
type AlreadyReviewedError struct {
	ID     AnalysisID
	Status Status
}

func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("analysis %s has already been reviewed. Status: %s", e.ID, e.Status)
}

func (e *AlreadyReviewedError) Unwrap() error { return ErrAlreadyReviewed }
