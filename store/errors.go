package store

import "errors"

var (
	// ErrNotFound is returned when a record doesn't exist for the given key.
	ErrNotFound = errors.New("packer: record not found")

	// ErrConditionFailed is returned when an optimistic guard on a patch
	// didn't hold. Callers should re-read and retry a bounded number of times.
	ErrConditionFailed = errors.New("packer: conditional update failed")

	// ErrUnavailable is returned when the store kept failing transiently
	// after the configured retry budget was spent.
	ErrUnavailable = errors.New("packer: store unavailable")
)
