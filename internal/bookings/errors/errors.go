// Package errors defines sentinel errors shared between the bookings
// repository and service layers.
package errors

import "errors"

var (
	ErrNotFound     = errors.New("booking not found")
	ErrInvalidID    = errors.New("invalid booking id")
	ErrLockHeld     = errors.New("property lock already held")
	ErrLockNotFound = errors.New("property lock not found")
)
