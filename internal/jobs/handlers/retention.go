// Package handlers implements the background job task handlers.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/arachnolog/broodkeeper/internal/jobs"
	"github.com/arachnolog/broodkeeper/internal/repository"
)

// RetentionHandler purges feeding, molt, and health records past the
// retention window.
type RetentionHandler struct {
	repo repository.AlertRepository
	log  *slog.Logger
}

// NewRetentionHandler builds a handler over the alert repository.
func NewRetentionHandler(repo repository.AlertRepository, log *slog.Logger) *RetentionHandler {
	return &RetentionHandler{
		repo: repo,
		log:  log,
	}
}

// ProcessTask deletes records older than the payload's retention window.
func (h *RetentionHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload jobs.PurgeRecordsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		if h.log != nil {
			h.log.ErrorContext(ctx, "record purge: failed to decode payload",
				slog.String("task_type", t.Type()),
				slog.Any("error", err),
			)
		}
		return err
	}

	if payload.RetentionDays <= 0 {
		if h.log != nil {
			h.log.WarnContext(ctx, "record purge: non-positive retention, skipping",
				slog.Int("retention_days", payload.RetentionDays),
			)
		}
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -payload.RetentionDays)

	purged, err := h.repo.PurgeRecordsOlderThan(ctx, cutoff)
	if err != nil {
		if h.log != nil {
			h.log.ErrorContext(ctx, "record purge failed", slog.Any("error", err))
		}
		return err
	}

	if h.log != nil {
		h.log.InfoContext(ctx, "record purge complete",
			slog.Time("cutoff", cutoff),
			slog.Int64("rows", purged),
		)
	}

	return nil
}
