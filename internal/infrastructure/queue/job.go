package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

type JobType string

const (
	// JobProcess runs the full ingestion pipeline for an asset.
	JobProcess JobType = "process"
	// JobReprocess re-runs the pipeline after a trim edit; the pipeline
	// cuts the source to the trim window first.
	JobReprocess JobType = "reprocess"
	// JobPurge removes an asset's archived copies after deletion.
	JobPurge JobType = "purge"
)

type Job struct {
	AssetID string  `json:"asset_id"`
	Type    JobType `json:"type"`
	// SourceKey is only set on purge jobs: the asset record is already
	// gone by the time the job runs, so the source location travels with
	// the job.
	SourceKey  string    `json:"source_key,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func SerializeJob(job Job) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("could not serialize job: %w", err)
	}
	return string(data), nil
}

func DeserializeJob(data string) (*Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("could not deserialize job: %w", err)
	}
	return &job, nil
}
