// Package jobs runs background maintenance work on an asynq queue.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TaskTypePurgeRecords = "records:purge"
)

const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// PurgeRecordsPayload tells the purge handler how much history to keep.
type PurgeRecordsPayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewPurgeRecordsTask builds the periodic record-retention task.
func NewPurgeRecordsTask(retentionDays int) (*asynq.Task, error) {
	payload, err := json.Marshal(PurgeRecordsPayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypePurgeRecords, payload, asynq.Queue(QueueLow)), nil
}
