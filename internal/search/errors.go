package search

import (
	"errors"
	"fmt"
)

var ErrInvalidQuery = errors.New("query must not be empty")

// MatchingError reports a failure while matching a single document.
type MatchingError struct {
	Document string
	Cause    error
}

func (e *MatchingError) Error() string {
	return fmt.Sprintf("matching document %q: %v", e.Document, e.Cause)
}

func (e *MatchingError) Unwrap() error {
	return e.Cause
}
