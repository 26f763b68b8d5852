package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")

	// ErrInvalidJSON is returned when a posted body is not syntactically valid JSON.
	ErrInvalidJSON = fmt.Errorf("%w: invalid JSON body", ErrBadRequest)

	// ErrNoMatchingMock is returned for requests that match no registered rule.
	ErrNoMatchingMock = errors.New("no matching mock")

	// ErrNoUpstream is returned when a pass-through rule matches but nothing is configured
	// to forward to.
	ErrNoUpstream = errors.New("no pass-through upstream configured")
)

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}
