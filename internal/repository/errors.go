package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrForeignKeyViolation is returned when a referenced entity is missing
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrDuplicate is returned when an entity with the same ID already exists
	ErrDuplicate = errors.New("duplicate entity")
)
