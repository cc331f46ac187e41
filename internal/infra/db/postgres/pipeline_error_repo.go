package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/fotoproof/fotoproof/internal/domain/pipelineerrors"
)

type PipelineErrorRepository struct {
	db *sql.DB
}

func NewPipelineErrorRepository(db *sql.DB) *PipelineErrorRepository {
	return &PipelineErrorRepository{db: db}
}

func (r *PipelineErrorRepository) Save(ctx context.Context, e *domain.PipelineError) error {
	const q = `
INSERT INTO pipeline_errors
  (tenant_id, submission_id, stage, message, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	tenant := stringOrDash(e.TenantID)
	submission := stringOrDash(e.SubmissionID)
	stage := stringOrDash(e.Stage)
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, tenant, submission, stage, msg, created)
	return err
}

func (r *PipelineErrorRepository) ListBySubmission(ctx context.Context, tenant string, submissionID string, limit int) ([]*domain.PipelineError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, submission_id, stage, message, created_at
FROM pipeline_errors
WHERE tenant_id = $1 AND submission_id = $2
ORDER BY created_at DESC, id DESC
LIMIT $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, submissionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.PipelineError
	for rows.Next() {
		var e domain.PipelineError
		var created time.Time
		if err := rows.Scan(&e.ID, &e.TenantID, &e.SubmissionID, &e.Stage, &e.Message, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = created
		out = append(out, &e)
	}
	return out, rows.Err()
}
