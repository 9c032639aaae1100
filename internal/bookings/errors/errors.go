package errors

import "errors"

var (
	// ErrNotFound indicates the booking does not exist
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidID indicates the booking id is malformed
	ErrInvalidID = errors.New("invalid booking id")

	// ErrInvalidStatus indicates the booking is not in a state that
	// permits the requested transition
	ErrInvalidStatus = errors.New("booking status does not permit this operation")
)
