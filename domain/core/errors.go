package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrEmptyInput    = errors.New("no source rows")
	ErrMalformedRow  = errors.New("malformed source row")
	ErrMissingColumn = errors.New("required column missing")
	ErrUnknownMetric = errors.New("unknown metric")

	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// Source errors
	ErrUnsupportedSource = errors.New("unsupported data source")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewMalformedRowError(line int, reason string) error {
	return fmt.Errorf("%w at line %d: %s", ErrMalformedRow, line, reason)
}

func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, column)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrMalformedRow) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrUnknownMetric)
}
