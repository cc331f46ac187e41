package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/fotoproof/fotoproof/internal/domain/analysis"
)

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Save insert/update Submission record
func (r *SubmissionRepository) Save(ctx context.Context, s *domain.Submission) error {
	const q = `
INSERT INTO photo_submissions
(id, tenant_id, submitted_at, filename, byte_size, content_hash,
 result, confidence, weighted_score, human_review, critical_flags,
 verdict_json, image_url, ela_image_url, duration_ms)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 result=VALUES(result), confidence=VALUES(confidence),
 weighted_score=VALUES(weighted_score), human_review=VALUES(human_review),
 critical_flags=VALUES(critical_flags), verdict_json=VALUES(verdict_json),
 image_url=VALUES(image_url), ela_image_url=VALUES(ela_image_url),
 duration_ms=VALUES(duration_ms);
`
	tenant := stringOrDash(s.TenantID)
	result := stringOrDash(s.Result)
	submitted := s.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}
	verdict := s.VerdictJSON
	if verdict == "" {
		verdict = "{}"
	}

	_, err := r.db.ExecContext(ctx, q,
		s.ID, tenant, submitted, s.Filename, s.ByteSize, s.ContentHash,
		result, s.Confidence, s.WeightedScore, s.RequiresHumanReview, s.CriticalFlags,
		verdict, s.ImageURL, s.ELAImageURL, s.DurationMS,
	)
	return err
}

// Get by ID + Tenant
func (r *SubmissionRepository) Get(ctx context.Context, tenant string, id domain.SubmissionID) (*domain.Submission, error) {
	const q = `
SELECT id, tenant_id, submitted_at, filename, byte_size, content_hash,
       result, confidence, weighted_score, human_review, critical_flags,
       verdict_json, image_url, ela_image_url, duration_ms
FROM photo_submissions
WHERE tenant_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	var s domain.Submission
	if err := row.Scan(
		&s.ID, &s.TenantID, &s.SubmittedAt, &s.Filename, &s.ByteSize, &s.ContentHash,
		&s.Result, &s.Confidence, &s.WeightedScore, &s.RequiresHumanReview, &s.CriticalFlags,
		&s.VerdictJSON, &s.ImageURL, &s.ELAImageURL, &s.DurationMS,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Latest submissions per tenant
func (r *SubmissionRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, submitted_at, filename, byte_size, content_hash,
       result, confidence, weighted_score, human_review, critical_flags,
       verdict_json, image_url, ela_image_url, duration_ms
FROM photo_submissions
WHERE tenant_id=? ORDER BY submitted_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Submission
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(
			&s.ID, &s.TenantID, &s.SubmittedAt, &s.Filename, &s.ByteSize, &s.ContentHash,
			&s.Result, &s.Confidence, &s.WeightedScore, &s.RequiresHumanReview, &s.CriticalFlags,
			&s.VerdictJSON, &s.ImageURL, &s.ELAImageURL, &s.DurationMS,
		); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Summary counts verdicts since N days
func (r *SubmissionRepository) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, int, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total,
       COALESCE(SUM(result = 'AUTHENTIC'),0)     AS authentic,
       COALESCE(SUM(result = 'SUSPICIOUS'),0)    AS suspicious,
       COALESCE(SUM(result = 'NON_AUTHENTIC'),0) AS non_authentic
FROM photo_submissions
WHERE tenant_id=? AND submitted_at >= ?;
`
	var t, a, s, n int
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&t, &a, &s, &n); err != nil {
		return 0, 0, 0, 0, err
	}
	return t, a, s, n, nil
}
