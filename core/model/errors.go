package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies failures for error markers and batch outcomes.
type ErrorKind string

const (
	ErrorKindDataUnavailable ErrorKind = "data_unavailable"
	ErrorKindComputation     ErrorKind = "computation_error"
	ErrorKindTimeout         ErrorKind = "timeout"
	ErrorKindCache           ErrorKind = "cache_error"
	ErrorKindConfiguration   ErrorKind = "configuration_error"
)

// Sentinel errors for the taxonomy. Wrap them with fmt.Errorf("...: %w", ...)
// so Classify can recover the kind through the chain.
var (
	ErrDataUnavailable = errors.New("historical data unavailable")
	ErrTimeout         = errors.New("deadline exceeded")
	ErrCacheCorrupt    = errors.New("corrupted cache entry")
	ErrConfiguration   = errors.New("invalid configuration")
)

// ComputationError reports an internal fault inside a prediction module.
type ComputationError struct {
	Module string
	Err    error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Module, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// Classify maps an error to its kind. Unrecognized errors are treated as
// computation faults.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrConfiguration):
		return ErrorKindConfiguration
	case errors.Is(err, ErrDataUnavailable):
		return ErrorKindDataUnavailable
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindTimeout
	case errors.Is(err, ErrCacheCorrupt):
		return ErrorKindCache
	default:
		return ErrorKindComputation
	}
}

// ErrorMarker is the embeddable failure record used in dashboard components
// and batch outcomes.
type ErrorMarker struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewErrorMarker builds a marker from an error, classifying it on the way.
func NewErrorMarker(err error, at time.Time) *ErrorMarker {
	return &ErrorMarker{Kind: Classify(err), Message: err.Error(), OccurredAt: at}
}
