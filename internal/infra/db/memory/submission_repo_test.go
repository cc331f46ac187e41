package memory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/fotoproof/fotoproof/internal/domain/analysis"
)

func submission(id, tenant, result string, at time.Time) *domain.Submission {
	return &domain.Submission{
		ID:          domain.SubmissionID(id),
		TenantID:    tenant,
		Result:      result,
		SubmittedAt: at,
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := NewSubmissionRepository()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, submission("a", "acme", "AUTHENTIC", now)))

	got, err := repo.Get(ctx, "acme", "a")
	require.NoError(t, err)
	assert.Equal(t, "AUTHENTIC", got.Result)

	_, err = repo.Get(ctx, "acme", "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// tenant isolation
	_, err = repo.Get(ctx, "other", "a")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetReturnsCopy(t *testing.T) {
	repo := NewSubmissionRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, submission("a", "acme", "AUTHENTIC", time.Now())))

	got, err := repo.Get(ctx, "acme", "a")
	require.NoError(t, err)
	got.Result = "NON_AUTHENTIC"

	again, err := repo.Get(ctx, "acme", "a")
	require.NoError(t, err)
	assert.Equal(t, "AUTHENTIC", again.Result)
}

func TestLatestOrdersByTimeDesc(t *testing.T) {
	repo := NewSubmissionRepository()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, repo.Save(ctx, submission("old", "acme", "AUTHENTIC", base.Add(-2*time.Hour))))
	require.NoError(t, repo.Save(ctx, submission("new", "acme", "SUSPICIOUS", base)))
	require.NoError(t, repo.Save(ctx, submission("mid", "acme", "AUTHENTIC", base.Add(-time.Hour))))
	require.NoError(t, repo.Save(ctx, submission("x", "other", "AUTHENTIC", base)))

	list, err := repo.Latest(ctx, "acme", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.SubmissionID("new"), list[0].ID)
	assert.Equal(t, domain.SubmissionID("mid"), list[1].ID)
}

func TestSummaryCountsByResult(t *testing.T) {
	repo := NewSubmissionRepository()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, submission("a", "acme", "AUTHENTIC", now)))
	require.NoError(t, repo.Save(ctx, submission("b", "acme", "AUTHENTIC", now)))
	require.NoError(t, repo.Save(ctx, submission("c", "acme", "SUSPICIOUS", now)))
	require.NoError(t, repo.Save(ctx, submission("d", "acme", "NON_AUTHENTIC", now)))
	// outside the window
	require.NoError(t, repo.Save(ctx, submission("e", "acme", "AUTHENTIC", now.AddDate(0, 0, -30))))

	total, authentic, suspicious, nonAuthentic, err := repo.Summary(ctx, "acme", 7)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, authentic)
	assert.Equal(t, 1, suspicious)
	assert.Equal(t, 1, nonAuthentic)
}
