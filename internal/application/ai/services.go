package ai

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fotoproof/fotoproof/internal/domain/review"
)

type Service struct {
	client review.Client
	repo   review.Repository
}

func NewService(client review.Client, repo review.Repository) *Service {
	return &Service{client: client, repo: repo}
}

// ReviewAndStore asks the reviewer model to explain a verdict and persists
// the answer. The repo is optional; without it the explanation is returned
// but not stored.
func (s *Service) ReviewAndStore(ctx context.Context, tenant, submissionID, verdictJSON string) (*review.Review, error) {
	result, err := s.client.Review(ctx, verdictJSON)
	if err != nil {
		return nil, err
	}
	rev := &review.Review{
		ID:           review.ReviewID(uuid.New().String()),
		TenantID:     tenant,
		SubmissionID: submissionID,
		Result:       result,
		CreatedAt:    time.Now(),
	}
	if s.repo != nil {
		if err := s.repo.Save(ctx, rev); err != nil {
			return nil, err
		}
	}
	return rev, nil
}

// List returns a page of stored reviews
func (s *Service) List(ctx context.Context, tenant string, page, pageSize int) ([]*review.Review, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.Paginate(ctx, tenant, page, pageSize)
}

// LatestBySubmission returns the most recent review for one submission, or
// nil when none exists.
func (s *Service) LatestBySubmission(ctx context.Context, tenant, submissionID string) (*review.Review, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.LatestBySubmission(ctx, tenant, submissionID)
}
