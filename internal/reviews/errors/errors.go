package errors

import "errors"

var (
	// ErrDuplicate indicates the user already reviewed this package
	ErrDuplicate = errors.New("review already exists for this user and package")

	// ErrNotFound indicates the review does not exist
	ErrNotFound = errors.New("review not found")

	// ErrPackageNotFound indicates the reviewed package does not exist
	ErrPackageNotFound = errors.New("package not found")
)
