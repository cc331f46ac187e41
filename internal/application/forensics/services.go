package forensics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
	"github.com/fotoproof/fotoproof/internal/domain/decision"
	"github.com/fotoproof/fotoproof/internal/domain/pipelineerrors"
	"github.com/fotoproof/fotoproof/internal/domain/provenance"
	"github.com/fotoproof/fotoproof/internal/infra/imaging"
)

// Service implements the use-cases for photo authenticity analysis.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Analyzers []analysis.Analyzer
	Engine    *decision.Engine
	Repo      analysis.Repository
	Artifacts analysis.ArtifactStore
	Errors    pipelineerrors.Repository
	Clock     Clock
}

// Clock abstraction so the service is easy to test
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

//
// ==== USE CASES ====
//

// Command to analyze one uploaded photograph
type AnalyzeCommand struct {
	TenantID string
	Filename string
	Data     []byte
}

type AnalyzeResult struct {
	ID          string                            `json:"id"`
	Verdict     decision.Verdict                  `json:"verdict"`
	Analyses    map[analysis.Kind]analysis.Record `json:"analyses"`
	Provenance  provenance.Record                 `json:"provenance"`
	ImageURL    string                            `json:"image_url,omitempty"`
	ELAImageURL string                            `json:"ela_image_url,omitempty"`
	DurationMS  int64                             `json:"duration_ms"`
}

// Analyze decodes the upload, runs every analyzer, stamps provenance,
// decides and persists. Analyzer failures degrade to neutral records inside
// the analyzers themselves; only a pipeline-level failure (undecodable
// bytes, persistence) returns an error here.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (AnalyzeResult, error) {
	now := s.Clock.Now()
	id := uuid.New().String()

	img, err := imaging.Decode(cmd.Data)
	if err != nil {
		s.recordFailure(ctx, cmd.TenantID, id, "decode", err)
		return AnalyzeResult{ID: id}, fmt.Errorf("decode %s: %w", cmd.Filename, err)
	}

	agg := analysis.NewAggregate()
	var elaRender []byte
	for _, a := range s.Analyzers {
		rec := a.Analyze(ctx, img)
		if rec.Analyzer == analysis.KindELA && len(rec.Artifact) > 0 {
			elaRender = rec.Artifact
		}
		agg.Records[a.Name()] = rec
	}

	stamp, err := provenance.Stamp(cmd.Data, now)
	agg.Provenance = stamp
	provRec := analysis.Record{
		Analyzer:   analysis.KindProvenance,
		Score:      100,
		Confidence: 100,
		Result:     "Stamped",
		Indicators: []string{},
		Metrics:    map[string]float64{"byte_size": float64(stamp.ByteSize)},
	}
	if err != nil {
		provRec.Score = 0
		provRec.Confidence = 0
		provRec.Result = "Unknown"
		provRec.Error = err.Error()
	}
	agg.Records[analysis.KindProvenance] = provRec

	verdict, _ := s.Engine.Decide(agg)

	// uploads are best-effort; a missing artifact URL never blocks a verdict
	var imageURL, elaURL string
	if s.Artifacts != nil {
		key := fmt.Sprintf("%s/originals/%s-%s", cmd.TenantID, id, sanitizeKey(cmd.Filename))
		if url, uerr := s.Artifacts.UploadBytes(ctx, key, cmd.Data, contentTypeFor(img.Format)); uerr != nil {
			log.Printf("artifact upload failed tenant=%s id=%s: %v", cmd.TenantID, id, uerr)
		} else {
			imageURL = url
		}
		if len(elaRender) > 0 {
			key := fmt.Sprintf("%s/ela/%s.jpg", cmd.TenantID, id)
			if url, uerr := s.Artifacts.UploadBytes(ctx, key, elaRender, "image/jpeg"); uerr != nil {
				log.Printf("ela render upload failed tenant=%s id=%s: %v", cmd.TenantID, id, uerr)
			} else {
				elaURL = url
			}
		}
	}

	duration := s.Clock.Now().Sub(now).Milliseconds()

	verdictJSON, _ := json.Marshal(verdict)
	sub := &analysis.Submission{
		ID:                  analysis.SubmissionID(id),
		TenantID:            cmd.TenantID,
		SubmittedAt:         now,
		Filename:            cmd.Filename,
		ByteSize:            int64(len(cmd.Data)),
		ContentHash:         stamp.ContentHash,
		Result:              string(verdict.Result),
		Confidence:          verdict.Confidence,
		WeightedScore:       verdict.WeightedScore,
		RequiresHumanReview: verdict.RequiresHumanReview,
		CriticalFlags:       strings.Join(verdict.CriticalFlags, ","),
		VerdictJSON:         string(verdictJSON),
		ImageURL:            imageURL,
		ELAImageURL:         elaURL,
		DurationMS:          duration,
	}
	if err := s.Repo.Save(ctx, sub); err != nil {
		s.recordFailure(ctx, cmd.TenantID, id, "persist", err)
		return AnalyzeResult{ID: id}, fmt.Errorf("save submission %s: %w", id, err)
	}

	return AnalyzeResult{
		ID:          id,
		Verdict:     verdict,
		Analyses:    agg.Records,
		Provenance:  stamp,
		ImageURL:    imageURL,
		ELAImageURL: elaURL,
		DurationMS:  duration,
	}, nil
}

// Latest returns the N most recent submissions
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*analysis.Submission, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Get returns one submission by id
func (s *Service) Get(ctx context.Context, tenant string, id analysis.SubmissionID) (*analysis.Submission, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Summary recaps verdicts over the last N days
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (map[string]any, error) {
	total, authentic, suspicious, nonAuthentic, err := s.Repo.Summary(ctx, tenant, sinceDays)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_submissions": total,
		"authentic":         authentic,
		"suspicious":        suspicious,
		"non_authentic":     nonAuthentic,
		"since_days":        sinceDays,
	}, nil
}

// AuditTrail returns the in-memory decision history plus the standards the
// rule set encodes.
func (s *Service) AuditTrail() ([]decision.AuditEntry, []string) {
	return s.Engine.Trail().Entries(), decision.ComplianceStandards
}

// ExportCompliance renders the compliance report and uploads it as a JSON
// artifact. Export failures are surfaced; regulators must never receive a
// silent partial export.
func (s *Service) ExportCompliance(ctx context.Context, tenant string) (decision.ComplianceReport, string, error) {
	report := s.Engine.ComplianceReport()
	if s.Artifacts == nil {
		return report, "", nil
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return report, "", fmt.Errorf("marshal compliance report: %w", err)
	}
	key := fmt.Sprintf("%s/compliance/compliance_report_%s.json", tenant, report.GeneratedAt.UTC().Format("20060102T150405Z"))
	url, err := s.Artifacts.UploadBytes(ctx, key, data, "application/json")
	if err != nil {
		s.recordFailure(ctx, tenant, "", "export", err)
		return report, "", fmt.Errorf("upload compliance report: %w", err)
	}
	return report, url, nil
}

func (s *Service) recordFailure(ctx context.Context, tenant, submissionID, stage string, cause error) {
	if s.Errors == nil {
		return
	}
	e := &pipelineerrors.PipelineError{
		TenantID:     tenant,
		SubmissionID: submissionID,
		Stage:        stage,
		Message:      cause.Error(),
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Errors.Save(ctx, e); err != nil {
		log.Printf("pipeline error save failed tenant=%s stage=%s: %v", tenant, stage, err)
	}
}

func contentTypeFor(format string) string {
	switch format {
	case "png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// sanitizeKey strips path separators so a filename can be embedded in an
// object key.
func sanitizeKey(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "upload"
	}
	return name
}
