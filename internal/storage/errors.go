package storage

import "errors"

var (
	// ErrKeyNotFound is returned when a key or hash field does not exist.
	ErrKeyNotFound = errors.New("storage: key not found")

	// ErrWrongType is returned when an operation targets a key holding a
	// value of another type.
	ErrWrongType = errors.New("storage: operation against a key holding the wrong kind of value")
)
