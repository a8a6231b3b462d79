package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrInvalidStatus indicates an unknown project status.
	ErrInvalidStatus = errors.New("invalid project status")
	// ErrProjectExists indicates a project with the requested ID already exists.
	ErrProjectExists = errors.New("project already exists")
)
