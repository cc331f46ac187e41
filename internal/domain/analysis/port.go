package analysis

import "context"

// Analyzer port: one concrete type per forensic signal. Analyze never
// returns an error; a failing analyzer degrades to its documented safe
// score with the failure recorded as an indicator, so a single analyzer
// can never block the decision.
type Analyzer interface {
	Name() Kind
	Analyze(ctx context.Context, img *Image) Record
}

// Repository port (interface for submission persistence)
type Repository interface {
	Save(ctx context.Context, s *Submission) error
	Get(ctx context.Context, tenant string, id SubmissionID) (*Submission, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Submission, error)
	// Summary counts verdicts since N days: total, authentic, suspicious, nonAuthentic.
	Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, int, error)
}

// ArtifactStore port (interface for uploaded originals, ELA renders and
// compliance reports)
type ArtifactStore interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
