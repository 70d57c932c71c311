package helper

import (
	"errors"
	"fmt"
)

// Error wraps an underlying error with the operation that failed
type Error struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("error in %s", e.Op)
	}
	return fmt.Sprintf("error in %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new operation-wrapped error
func NewError(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// ErrDuplicateCommit is returned by graph ingestion when a commit hash is
// re-ingested and the graph was built with a reject-duplicates policy.
var ErrDuplicateCommit = errors.New("commit already ingested")

// ErrRetrievalTimeout marks a vector search that exceeded its deadline.
// The fusion layer recovers from it by degrading to graph-only results.
var ErrRetrievalTimeout = errors.New("vector retrieval timed out")

// FusionError is returned when no retrieval path could execute for a
// query: the graph had nothing to dispatch and the vector search failed.
type FusionError struct {
	GraphErr  error
	VectorErr error
}

// Error implements the error interface
func (e *FusionError) Error() string {
	return fmt.Sprintf("all retrieval paths failed (graph: %v, vector: %v)", e.GraphErr, e.VectorErr)
}

// Unwrap returns the vector error, which is usually the actionable one
func (e *FusionError) Unwrap() error {
	return e.VectorErr
}
