package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedChain is returned when a chain has no provider network mapping
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrUnsupportedCategory is returned when a transfer carries an unknown category
	ErrUnsupportedCategory = errors.New("unsupported transfer category")

	// ErrUnknownGame is returned when a game id is not present in the registry
	ErrUnknownGame = errors.New("unknown game")

	// ErrDuplicateKeyBatch is returned when a batch contains the same natural key more than once
	ErrDuplicateKeyBatch = errors.New("duplicate key in batch")

	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")
)

// NormalizationError is returned when a provider record cannot be mapped to a canonical record.
// The offending record is skipped; the rest of the page is still processed.
type NormalizationError struct {
	Source Source
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize %s record: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("normalize %s record: %s", e.Source, e.Reason)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// NewNormalizationError creates a normalization error for the given source
func NewNormalizationError(source Source, reason string, err error) *NormalizationError {
	return &NormalizationError{Source: source, Reason: reason, Err: err}
}

// PersistenceError is a fatal storage failure. Watermarks are never advanced past it.
type PersistenceError struct {
	Entity EntityType
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s batch: %v", e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsNormalizationError reports whether err is a normalization error
func IsNormalizationError(err error) bool {
	var target *NormalizationError
	return errors.As(err, &target)
}

// IsPersistenceError reports whether err is a fatal persistence error
func IsPersistenceError(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
