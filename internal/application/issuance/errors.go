package issuance

import (
	"errors"
	"fmt"

	"certify-backend/internal/pkg/validation"
)

var (
	ErrInvalidBatch   = errors.New("invalid issuance batch")
	ErrIssuanceFailed = errors.New("certificate issuance failed")
)

// RowError collects the problems of one participant row. Row is 1-based.
type RowError struct {
	Row    int                     `json:"row"`
	Errors []validation.FieldError `json:"errors"`
}

// ValidationError reports every problem found in a batch, not just the first.
type ValidationError struct {
	Batch []validation.FieldError `json:"batch,omitempty"`
	Rows  []RowError              `json:"rows,omitempty"`
}

func (e *ValidationError) Error() string {
	n := len(e.Batch)
	for _, r := range e.Rows {
		n += len(r.Errors)
	}
	return fmt.Sprintf("%s: %d problem(s)", ErrInvalidBatch.Error(), n)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidBatch
}

func (e *ValidationError) empty() bool {
	return len(e.Batch) == 0 && len(e.Rows) == 0
}

// IssuanceFailedError means every commit attempt hit an id collision. Retrying the
// whole batch is safe: ids are generated afresh on each call.
type IssuanceFailedError struct {
	Attempts int
	Err      error
}

func (e *IssuanceFailedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrIssuanceFailed.Error(), e.Attempts, e.Err)
}

func (e *IssuanceFailedError) Unwrap() error {
	return e.Err
}

func (e *IssuanceFailedError) Is(target error) bool {
	return target == ErrIssuanceFailed
}
