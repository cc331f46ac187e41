package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appai "github.com/fotoproof/fotoproof/internal/application/ai"
	appforensics "github.com/fotoproof/fotoproof/internal/application/forensics"
	domain "github.com/fotoproof/fotoproof/internal/domain/analysis"
	domreview "github.com/fotoproof/fotoproof/internal/domain/review"
	"github.com/fotoproof/fotoproof/internal/middleware"
)

type Router struct {
	forensicsSvc *appforensics.Service
	aiSvc        *appai.Service
}

func NewRouter(forensicsSvc *appforensics.Service, aiSvc *appai.Service, health http.HandlerFunc) http.Handler {
	r := &Router{forensicsSvc: forensicsSvc, aiSvc: aiSvc}
	mux := chi.NewRouter()

	if health == nil {
		health = middleware.LivenessHandler
	}
	mux.Get("/health", health)
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(middleware.RequireValidTenant)
		rt.Post("/images/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/submissions/latest", r.wrap(r.handleLatest))
		rt.Get("/submissions/{id}", r.wrap(r.handleGet))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Get("/compliance/audit-trail", r.wrap(r.handleAuditTrail))
		rt.Post("/compliance/export", r.wrap(r.handleComplianceExport))
		rt.Post("/ai/review", r.wrap(r.handleAIReview))
		rt.Get("/ai/review", r.wrap(r.handleAIReviewList))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks client-side validation failures for the wrapper.
type badRequestError struct{ err error }

func (b badRequestError) Error() string { return b.err.Error() }

func badRequest(err error) error { return badRequestError{err: err} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br badRequestError
			if errors.As(err, &br) {
				http.Error(w, br.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domreview.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/{tenant}/images/analyze
// multipart/form-data with an "image" file part. The analysis is
// synchronous: the verdict is final by the time the response is written.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return badRequest(err)
	}

	req.Body = http.MaxBytesReader(w, req.Body, middleware.MaxUploadBytes+4096)
	if err := req.ParseMultipartForm(middleware.MaxUploadBytes); err != nil {
		return badRequest(fmt.Errorf("parse multipart form: %w", err))
	}
	file, header, err := req.FormFile("image")
	if err != nil {
		return badRequest(fmt.Errorf(`missing "image" file part: %w`, err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := middleware.ValidateImageUpload(data); err != nil {
		return badRequest(err)
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	result, err := r.forensicsSvc.Analyze(req.Context(), appforensics.AnalyzeCommand{
		TenantID: tenant,
		Filename: middleware.SanitizeFilename(header.Filename),
		Data:     data,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.RecordVerdict(string(result.Verdict.Result))

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(result)
}

// GET /v1/{tenant}/submissions/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.forensicsSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/submissions/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	sub, err := r.forensicsSvc.Get(req.Context(), tenant, domain.SubmissionID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(sub)
}

// GET /v1/{tenant}/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	summary, err := r.forensicsSvc.Summary(req.Context(), tenant, middleware.ValidateDays(days))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}

// GET /v1/{tenant}/compliance/audit-trail
func (r *Router) handleAuditTrail(w http.ResponseWriter, req *http.Request) error {
	entries, standards := r.forensicsSvc.AuditTrail()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"total_decisions":      len(entries),
		"compliance_standards": standards,
		"audit_trail":          entries,
	})
}

// POST /v1/{tenant}/compliance/export
func (r *Router) handleComplianceExport(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return badRequest(err)
	}

	report, url, err := r.forensicsSvc.ExportCompliance(req.Context(), tenant)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"report":     report,
		"report_url": url,
	})
}

// POST /v1/{tenant}/ai/review
// Body: {"submission_id": "<id>"}
// The server fetches the stored verdict and asks the reviewer model to
// explain it for the human-review queue.
func (r *Router) handleAIReview(w http.ResponseWriter, req *http.Request) error {
	if r.aiSvc == nil {
		http.Error(w, "ai review not configured", http.StatusNotImplemented)
		return nil
	}
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		SubmissionID string `json:"submission_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateSubmissionID(body.SubmissionID); err != nil {
		return badRequest(err)
	}

	sub, err := r.forensicsSvc.Get(req.Context(), tenant, domain.SubmissionID(body.SubmissionID))
	if err != nil {
		return err
	}
	if sub == nil || sub.VerdictJSON == "" {
		return badRequest(fmt.Errorf("no verdict stored for submission_id: %s", body.SubmissionID))
	}

	rev, err := r.aiSvc.ReviewAndStore(req.Context(), tenant, body.SubmissionID, sub.VerdictJSON)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rev)
}

// GET /v1/{tenant}/ai/review?page=&page_size=
func (r *Router) handleAIReviewList(w http.ResponseWriter, req *http.Request) error {
	if r.aiSvc == nil {
		http.Error(w, "ai review not configured", http.StatusNotImplemented)
		return nil
	}
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.aiSvc.List(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
