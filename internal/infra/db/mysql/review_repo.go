package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/fotoproof/fotoproof/internal/domain/review"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Save inserts a review record
func (r *ReviewRepository) Save(ctx context.Context, rev *domain.Review) error {
	const q = `
INSERT INTO authenticity_reviews
  (id, tenant_id, submission_id, result_json, created_at)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  tenant_id=VALUES(tenant_id), submission_id=VALUES(submission_id), result_json=VALUES(result_json);
`
	tenant := stringOrDash(rev.TenantID)
	result := rev.Result
	if strings.TrimSpace(result) == "" {
		// result_json column requires valid JSON; use empty object
		result = "{}"
	}
	createdAt := rev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, rev.ID, tenant, rev.SubmissionID, result, createdAt)
	return err
}

// Paginate returns a page of reviews ordered by created_at desc
func (r *ReviewRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Review, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, submission_id, result_json, created_at
FROM authenticity_reviews
WHERE tenant_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Review
	for rows.Next() {
		var rev domain.Review
		var created time.Time
		if err := rows.Scan(&rev.ID, &rev.TenantID, &rev.SubmissionID, &rev.Result, &created); err != nil {
			return nil, err
		}
		rev.CreatedAt = created
		out = append(out, &rev)
	}
	return out, rows.Err()
}

// LatestBySubmission returns the latest review for a given submission
func (r *ReviewRepository) LatestBySubmission(ctx context.Context, tenant string, submissionID string) (*domain.Review, error) {
	const q = `
SELECT id, tenant_id, submission_id, result_json, created_at
FROM authenticity_reviews
WHERE tenant_id=? AND submission_id=?
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, submissionID)
	var rev domain.Review
	var created time.Time
	if err := row.Scan(&rev.ID, &rev.TenantID, &rev.SubmissionID, &rev.Result, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rev.CreatedAt = created
	return &rev, nil
}
