package errorvalues

import (
	"errors"
	"fmt"
)

var (
	ErrCompletionNotFound = errors.New("completion record doesn't exist")
	ErrCompletionExists   = errors.New("completion record for this day already exists")
	ErrGroupNotFound      = errors.New("group doesn't exist")
	ErrNotGroupMember     = errors.New("user is not a member of the group")
	ErrInvalidToken       = errors.New("invalid token")
	ErrBreakerOpen        = errors.New("circuit breaker is open")
)

// FetchError is returned when the completion store could not serve a read or
// an upsert. It is never replaced by an empty result.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}

// ValidationError reports malformed input such as a non-canonical date key.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
