package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrCorruptData         = errors.New("corrupt data")
	ErrNoLocation          = errors.New("no location picked")
	ErrLocationUnavailable = errors.New("location unavailable")
)
