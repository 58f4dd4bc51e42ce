package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrNotOwner is returned when records exist but none belong to the caller.
	ErrNotOwner = errors.New("record owned by another user")
)
