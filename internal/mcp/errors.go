package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/tasktrack/internal/auth"
	"github.com/ganot/tasktrack/internal/domain/activity"
	"github.com/ganot/tasktrack/internal/domain/progress"
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// with no client-facing meaning.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	mapped := func(code, message, hint string) *APIError {
		return &APIError{Code: code, Message: message, RecoveryHint: hint, cause: err}
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, task.ErrProjectNotFound):
		return mapped("PROJECT_NOT_FOUND", "project not found", "Call list_projects to find a valid id")
	case errors.Is(err, task.ErrTaskNotFound):
		return mapped("TASK_NOT_FOUND", "task not found", "Call list_tasks or search_tasks to find a valid id")
	case errors.Is(err, project.ErrProjectExists):
		return mapped("PROJECT_EXISTS", "a project with this id already exists", "Omit id to generate one")
	case errors.Is(err, project.ErrInvalidStatus):
		return mapped("INVALID_STATUS", "invalid project status", "Use active, on_hold, completed or archived")
	case errors.Is(err, task.ErrInvalidStatus):
		return mapped("INVALID_STATUS", "invalid task status", "Use todo, in_progress or done")
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, progress.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return mapped("INVALID_INPUT", err.Error(), "Check required fields")
	case errors.Is(err, auth.ErrUnauthorized):
		return mapped("UNAUTHORIZED", "missing or invalid credentials", "Send a valid bearer token")
	default:
		return nil
	}
}

// toolError converts a service error into the error returned from a tool.
func toolError(op string, err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
