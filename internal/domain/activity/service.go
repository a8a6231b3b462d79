package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultListLimit caps activity listings when the caller gives no limit.
const DefaultListLimit = 50

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, tenantID string, entry *ActivityEntry) error {
	if entry == nil || strings.TrimSpace(entry.ProjectID) == "" || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, tenantID, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Log implements Recorder so other services can write through validation.
func (s *Service) Log(ctx context.Context, tenantID string, entry *ActivityEntry) error {
	return s.LogActivity(ctx, tenantID, entry)
}

// GetRecentActivity lists activity entries with filtering, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	return s.repo.List(ctx, tenantID, opts)
}

// Recorder is the write side of the activity log used by other domain services.
type Recorder interface {
	Log(ctx context.Context, tenantID string, entry *ActivityEntry) error
}

// Record writes an entry through rec and only logs failures; activity is
// best effort and never fails the mutation that produced it.
func Record(ctx context.Context, rec Recorder, logger *slog.Logger, tenantID string, entry *ActivityEntry) {
	if rec == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := rec.Log(ctx, tenantID, entry); err != nil && logger != nil {
		logger.Warn("failed to record activity", "type", entry.ActivityType, "project_id", entry.ProjectID, "error", err)
	}
}
