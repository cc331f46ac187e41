package review

import (
	"context"
	"errors"
)

// Client calls the reviewer model with a verdict payload and returns its
// JSON explanation.
type Client interface {
	Review(ctx context.Context, payload string) (string, error)
}

// Repository port for persisting and querying reviews
type Repository interface {
	Save(ctx context.Context, r *Review) error
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Review, error)
	LatestBySubmission(ctx context.Context, tenant string, submissionID string) (*Review, error)
}

// ErrQuotaExceeded indicates the reviewer provider returned a quota/limit
// error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("reviewer quota exceeded")
