package core

import "errors"

var (
	// ErrNotReady is returned by operations that need loaded data while the
	// service is still loading.
	ErrNotReady = errors.New("service not ready: still loading from source")

	ErrUnknownField  = errors.New("unknown field")
	ErrNotEditable   = errors.New("field not editable")
	ErrInvalidNumber = errors.New("invalid number")

	// ErrInvalidPosition reports a row position that is not a non-negative
	// integer. A well-formed position past the last row is not an error.
	ErrInvalidPosition = errors.New("invalid row position")

	// ErrCorruptSnapshot reports a persisted snapshot that cannot be decoded
	// or does not line up with the fetched records.
	ErrCorruptSnapshot = errors.New("corrupt persisted snapshot")
)
