package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes an estimation run can end in.
var (
	// ErrLocationNotFound means geocoding produced no usable match.
	ErrLocationNotFound = errors.New("location not found")

	// ErrIrradianceUnavailable means both the primary and the fallback
	// irradiance provider failed.
	ErrIrradianceUnavailable = errors.New("irradiance data unavailable")

	// ErrInvalidInput means a request parameter was outside its valid domain.
	ErrInvalidInput = errors.New("invalid input")
)

// FailureReason classifies a failed run for callers (UI, HTTP status mapping).
type FailureReason string

const (
	ReasonLocationNotFound      FailureReason = "location_not_found"
	ReasonIrradianceUnavailable FailureReason = "irradiance_unavailable"
	ReasonComputation           FailureReason = "computation_error"
)

// EstimationError is the single error type a pipeline run fails with. It
// carries the classified reason alongside the underlying cause.
type EstimationError struct {
	Reason FailureReason
	Err    error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *EstimationError) Unwrap() error { return e.Err }

// NewEstimationError wraps err with a failure classification.
func NewEstimationError(reason FailureReason, err error) *EstimationError {
	return &EstimationError{Reason: reason, Err: err}
}

// ReasonOf extracts the failure classification from err, defaulting to
// ReasonComputation for errors that were never classified.
func ReasonOf(err error) FailureReason {
	var ee *EstimationError
	if errors.As(err, &ee) {
		return ee.Reason
	}
	return ReasonComputation
}
