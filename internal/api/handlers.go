package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"gapscan/internal/domain"
)

// AnalysisService runs gap analyses; implemented by the usecase pipeline.
type AnalysisService interface {
	RunFull(ctx context.Context, keyword, keywordsPath, targetURL string) (domain.GapAnalysisResult, error)
	RunGap(ctx context.Context, hierarchyPath, contentPath, keyword string) (domain.GapAnalysisResult, error)
}

// Handler holds API route handlers.
type Handler struct {
	svc    AnalysisService
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc AnalysisService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// AnalyzeRequest is the request body for POST /api/analyze. KeywordsFile
// must point to a CSV readable by the server process.
type AnalyzeRequest struct {
	Keyword      string `json:"keyword"`
	KeywordsFile string `json:"keywords_file"`
	TargetURL    string `json:"target_url"`
}

// Validate checks the analyze request.
func (r AnalyzeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Keyword, validation.Required),
		validation.Field(&r.KeywordsFile, validation.Required),
		validation.Field(&r.TargetURL, validation.Required, is.URL),
	)
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Analyze handles POST /api/analyze: runs the full pipeline and returns
// the final report.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := h.svc.RunFull(r.Context(), req.Keyword, req.KeywordsFile, req.TargetURL)
	if err != nil {
		h.logger.Error("analysis failed", "keyword", req.Keyword, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("analysis failed: "+err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GapRequest is the request body for POST /api/gap, resuming from saved
// artifacts.
type GapRequest struct {
	HierarchyFile string `json:"hierarchy_file"`
	ContentFile   string `json:"content_file"`
	Keyword       string `json:"keyword,omitempty"`
}

// Validate checks the gap request.
func (r GapRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HierarchyFile, validation.Required),
		validation.Field(&r.ContentFile, validation.Required),
	)
}

// Gap handles POST /api/gap: re-runs scoring against saved state.
func (h *Handler) Gap(w http.ResponseWriter, r *http.Request) {
	var req GapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := h.svc.RunGap(r.Context(), req.HierarchyFile, req.ContentFile, req.Keyword)
	if err != nil {
		h.logger.Error("gap analysis failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("analysis failed: "+err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, result)
}
