package pipelineerrors

import "time"

// PipelineError represents a persisted pipeline-level failure: a submission
// that could not produce a verdict at all (for example, undecodable image
// bytes). Per-analyzer failures are not recorded here; those degrade to
// neutral scores inside the pipeline.
type PipelineError struct {
	ID           int64     `json:"id"`
	TenantID     string    `json:"tenant_id"`
	SubmissionID string    `json:"submission_id"`
	Stage        string    `json:"stage,omitempty"` // decode | persist | export
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}
