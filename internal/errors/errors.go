// Package errors provides the error taxonomy and builder used across the
// fleetrate codebase. Errors are created through the builder API and marked
// with one of the sentinel errors below so callers can classify failures
// without string matching.
package errors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors. Every error produced by this package is marked with
// exactly one of these.
var (
	// ErrValidation indicates a request or input failed validation
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a uniqueness conflict (e.g. duplicate route code)
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidOperation indicates an operation cannot be performed in the
	// current state (e.g. compiling a rate sheet with no routes)
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrDatabase indicates a persistence layer failure
	ErrDatabase = errors.New("database error")

	// ErrPermissionDenied indicates the caller is not allowed to perform the operation
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInternal indicates an unexpected internal failure
	ErrInternal = errors.New("internal error")

	// ErrSystem indicates a system level failure (I/O, environment)
	ErrSystem = errors.New("system error")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsNotFound returns true if the error is marked as a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation returns true if the error is marked as a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsAlreadyExists returns true if the error is marked as an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidOperation returns true if the error is marked as an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsDatabase returns true if the error is marked as a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}
