package stamp

import (
	"errors"
	"fmt"

	"farmstay-go/pkg/model"
)

var (
	// ErrNotFound means the review, farm or aggregate being asked about does not exist
	ErrNotFound = errors.New("not found")

	// ErrUnresolvedRegion means a farm's prefecture has no catalog code.
	// Synchronize reports it as a skip rather than returning it.
	ErrUnresolvedRegion = errors.New("unresolved region")

	// ErrStore wraps persistence failures; callers may retry
	ErrStore = errors.New("stamp store error")

	// ErrConsistencyViolation means a review already has a visit record even
	// though the idempotency check said it did not
	ErrConsistencyViolation = errors.New("stamp consistency violation")

	ErrInvalidLimit = errors.New("limit must be at least 1")
)

// ReasonUnmappedRegion is the skip reason for farms outside the catalog
const ReasonUnmappedRegion = "unmapped-region"

// Status classifies the result of synchronizing one review
type Status string

const (
	StatusApplied        Status = "applied"
	StatusAlreadyApplied Status = "already_applied"
	StatusSkipped        Status = "skipped"
	StatusFailed         Status = "failed"
)

// Outcome is the result of synchronizing one review
type Outcome struct {
	ReviewID  int
	Status    Status
	Reason    string
	Visit     *model.VisitRecord
	Aggregate *model.RegionAggregate
	Err       error
}

func applied(reviewID int, v *model.VisitRecord, a *model.RegionAggregate) Outcome {
	return Outcome{ReviewID: reviewID, Status: StatusApplied, Visit: v, Aggregate: a}
}

func alreadyApplied(reviewID int) Outcome {
	return Outcome{ReviewID: reviewID, Status: StatusAlreadyApplied}
}

func skipped(reviewID int, reason string) Outcome {
	return Outcome{ReviewID: reviewID, Status: StatusSkipped, Reason: reason}
}

func failed(reviewID int, err error) Outcome {
	return Outcome{ReviewID: reviewID, Status: StatusFailed, Err: err}
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
