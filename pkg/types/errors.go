package types

import (
	"errors"
	"fmt"
)

// Counter errors.
var (
	ErrOutOfRange       = errors.New("value out of range")
	ErrInvalidMode      = errors.New("invalid mode")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrStoreClosed      = errors.New("store is closed")
)

// OutOfRangeError reports a configuration value outside its bounds.
// It matches ErrOutOfRange with errors.Is.
type OutOfRangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Field, e.Min, e.Max, e.Value)
}

// Is reports whether target is ErrOutOfRange.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// checkRange returns an *OutOfRangeError when v is outside [lo, hi].
func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &OutOfRangeError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}
