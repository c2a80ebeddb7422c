// Package errors defines sentinel errors shared between the properties
// repository and service layers.
package errors

import "errors"

var (
	ErrNotFound  = errors.New("property not found")
	ErrInvalidID = errors.New("invalid property id")
)
