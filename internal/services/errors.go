package services

import (
	"errors"
	"fmt"

	"voltbay/internal/domain"
)

var (
	ErrSubmissionNotFound = errors.New("used product submission not found")
	// ErrPersistence marks a review transaction that could not commit; the
	// wrapped message carries the store diagnostics.
	ErrPersistence = errors.New("could not commit review transaction")
)

// StateError reports a workflow invoked on a submission that is no longer
// pending. The message names the status the caller actually found.
type StateError struct {
	Current domain.SubmissionStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("submission is not pending (current status: %s)", e.Current)
}
