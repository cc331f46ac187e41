// Package memory provides an in-process submission store used when no
// database is configured (local development and tests).
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	domain "github.com/fotoproof/fotoproof/internal/domain/analysis"
)

type SubmissionRepository struct {
	mu   sync.RWMutex
	rows map[domain.SubmissionID]*domain.Submission
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{rows: make(map[domain.SubmissionID]*domain.Submission)}
}

func (r *SubmissionRepository) Save(_ context.Context, s *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}

func (r *SubmissionRepository) Get(_ context.Context, tenant string, id domain.SubmissionID) (*domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.rows[id]
	if !ok || s.TenantID != tenant {
		// mirror the SQL adapters so handlers map this to 404
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (r *SubmissionRepository) Latest(_ context.Context, tenant string, limit int) ([]*domain.Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Submission
	for _, s := range r.rows {
		if s.TenantID != tenant {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SubmissionRepository) Summary(_ context.Context, tenant string, sinceDays int) (int, int, int, int, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var total, authentic, suspicious, nonAuthentic int
	for _, s := range r.rows {
		if s.TenantID != tenant || s.SubmittedAt.Before(cut) {
			continue
		}
		total++
		switch s.Result {
		case "AUTHENTIC":
			authentic++
		case "SUSPICIOUS":
			suspicious++
		case "NON_AUTHENTIC":
			nonAuthentic++
		}
	}
	return total, authentic, suspicious, nonAuthentic, nil
}
