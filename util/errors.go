package util

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrCapacityViolation = errors.New("capacity violation")
	ErrKeyNotFound       = errors.New("key not found")
	ErrPageTooLarge      = errors.New("page too large")
)

// IndexError is raised for caller contract violations against a node or an
// order policy. Err is always one of the sentinels above so callers can match
// with errors.Is.
type IndexError struct {
	Message string
	Err     error
}

func (e *IndexError) Error() string {
	return e.Message
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

func NewIndexOutOfRange(idx, keyCount int) *IndexError {
	return &IndexError{
		Message: fmt.Sprintf("index %d out of range for node with %d keys", idx, keyCount),
		Err:     ErrIndexOutOfRange,
	}
}

func NewInvalidOrder(order, min int) *IndexError {
	return &IndexError{
		Message: fmt.Sprintf("order must be at least %d, got %d", min, order),
		Err:     ErrInvalidOrder,
	}
}

func NewCapacityViolation(format string, args ...any) *IndexError {
	return &IndexError{
		Message: "capacity violation: " + fmt.Sprintf(format, args...),
		Err:     ErrCapacityViolation,
	}
}
