package pipelineerrors

import "context"

// Repository defines persistence for pipeline failures
type Repository interface {
	Save(ctx context.Context, e *PipelineError) error
	ListBySubmission(ctx context.Context, tenant string, submissionID string, limit int) ([]*PipelineError, error)
}
