package task

import "errors"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidInput    = errors.New("invalid task input")
	ErrInvalidStatus   = errors.New("invalid task status")
)
