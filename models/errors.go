package models

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrStoreFailure   = errors.New("store failure")
)

// MalformedInputError reports that the uploaded table could not be parsed.
// Nothing has been written to the store when it is returned.
type MalformedInputError struct {
	Line int
	Err  error
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// StoreFailureError reports a chunk the store refused. Persisted counts the
// rows written by earlier chunks; those stay committed.
type StoreFailureError struct {
	Chunk     int
	Size      int
	Persisted int
	Err       error
}

func (e *StoreFailureError) Error() string {
	return fmt.Sprintf("store failure on chunk %d (%d rows, %d already persisted): %v",
		e.Chunk, e.Size, e.Persisted, e.Err)
}

func (e *StoreFailureError) Unwrap() error { return e.Err }

func (e *StoreFailureError) Is(target error) bool { return target == ErrStoreFailure }
