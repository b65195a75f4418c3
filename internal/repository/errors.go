package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStatusConflict is returned by guarded updates when the row's
	// status no longer matches the status the caller read. The caller
	// lost the race to a fresher writer.
	ErrStatusConflict = errors.New("status changed since read")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint.
	ErrDuplicate = errors.New("duplicate entity")
)
