package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campushq/campus-records/internal/middleware"
	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

// ReportService is the slice of the report engine the handler needs.
type ReportService interface {
	CreateDefinition(ctx context.Context, sess models.Session, req models.CreateReportRequest) (*models.ReportDefinition, error)
	ListDefinitions(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.ReportDefinition], error)
	GetDefinition(ctx context.Context, sess models.Session, id uuid.UUID) (*models.ReportDefinition, error)
	Run(ctx context.Context, sess models.Session, defID uuid.UUID) (*models.ReportResult, error)
	ListResults(ctx context.Context, sess models.Session, defID uuid.UUID) ([]*models.ReportResult, error)
}

type ReportHandler struct {
	reports ReportService
}

func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

var reportFilters = map[string]string{
	"type": "type",
}

// List returns one page of report definitions.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	page, err := h.reports.ListDefinitions(r.Context(), sess, parseListOptions(r, reportFilters))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get returns one report definition.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	def, err := h.reports.GetDefinition(r.Context(), sess, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// Create persists a report definition with its schedule metadata.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	def, err := h.reports.CreateDefinition(r.Context(), sess, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, def)
}

// Run executes a definition once. The external scheduler calls this same
// endpoint at the configured cadence.
func (h *ReportHandler) Run(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	result, err := h.reports.Run(r.Context(), sess, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ListResults returns the generated artifacts for one definition.
func (h *ReportHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	results, err := h.reports.ListResults(r.Context(), sess, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
