package analysis

import (
	"time"

	"github.com/fotoproof/fotoproof/internal/domain/provenance"
)

// Kind identifies one analyzer. Aggregate results are keyed by it.
type Kind string

const (
	KindELA         Kind = "ela_analysis"
	KindMetadata    Kind = "metadata_analysis"
	KindCompression Kind = "compression_analysis"
	KindCopyMove    Kind = "copy_move_analysis"
	KindNoise       Kind = "noise_analysis"
	KindHistogram   Kind = "histogram_analysis"
	KindAI          Kind = "ai_analysis"
	KindProvenance  Kind = "provenance_analysis"
)

// Record is the self-contained output of one analyzer run. Score is always
// in [0,100], higher meaning more authentic-looking for that signal, and is
// always populated even when the analyzer degraded on an internal error.
type Record struct {
	Analyzer   Kind               `json:"analyzer"`
	Score      float64            `json:"score"`
	Confidence float64            `json:"confidence"`
	Detected   bool               `json:"detected"`
	Result     string             `json:"result,omitempty"`
	Indicators []string           `json:"indicators"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Error      string             `json:"error,omitempty"`

	// Artifact carries an optional rendered visualization (the amplified ELA
	// difference map) for upload; it is never serialized with the record.
	Artifact []byte `json:"-"`
}

// Aggregate bundles every analyzer record plus the provenance stamp for one
// submission. It lives only for the duration of the request and is the sole
// input to the decision engine.
type Aggregate struct {
	Records    map[Kind]Record   `json:"records"`
	Provenance provenance.Record `json:"provenance"`
}

func NewAggregate() *Aggregate {
	return &Aggregate{Records: make(map[Kind]Record)}
}

// Record returns the record for kind, or a zero-score record when the
// analyzer never reported (should not happen; the engine treats it as the
// weakest possible signal rather than failing).
func (a *Aggregate) Record(kind Kind) Record {
	if r, ok := a.Records[kind]; ok {
		return r
	}
	return Record{Analyzer: kind}
}

// SubmissionID identifier type
type SubmissionID string

// Submission is the persisted outcome of one analyzed photograph.
type Submission struct {
	ID                  SubmissionID `json:"id"`
	TenantID            string       `json:"tenant_id"`
	SubmittedAt         time.Time    `json:"submitted_at"`
	Filename            string       `json:"filename"`
	ByteSize            int64        `json:"byte_size"`
	ContentHash         string       `json:"content_hash"`
	Result              string       `json:"result"`
	Confidence          float64      `json:"confidence"`
	WeightedScore       float64      `json:"weighted_score"`
	RequiresHumanReview bool         `json:"requires_human_review"`
	CriticalFlags       string       `json:"critical_flags,omitempty"`
	VerdictJSON         string       `json:"verdict_json,omitempty"`
	ImageURL            string       `json:"image_url,omitempty"`
	ELAImageURL         string       `json:"ela_image_url,omitempty"`
	DurationMS          int64        `json:"duration_ms"`
}
