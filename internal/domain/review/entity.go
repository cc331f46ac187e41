package review

import "time"

// ReviewID identifier type
type ReviewID string

// Review is a stored AI-written explanation of one verdict, produced for
// the human-review queue and kept for auditing and retrieval.
type Review struct {
	ID           ReviewID  `json:"id"`
	TenantID     string    `json:"tenant_id"`
	SubmissionID string    `json:"submission_id,omitempty"`
	Result       string    `json:"result"` // JSON string from the reviewer model
	CreatedAt    time.Time `json:"created_at"`
}
