package handlers

import (
	"context"
	"net/http"

	"github.com/campushq/campus-records/internal/middleware"
	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

// AuditReader is the read-only slice of the audit log exposed over HTTP.
// There is deliberately no mutation surface.
type AuditReader interface {
	List(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.AuditLogEntry], error)
	Stats(ctx context.Context, sess models.Session) (models.AuditStats, error)
}

type AuditHandler struct {
	audit AuditReader
}

func NewAuditHandler(audit AuditReader) *AuditHandler {
	return &AuditHandler{audit: audit}
}

var auditFilters = map[string]string{
	"action":      "action",
	"entity_type": "entity_type",
	"actor_id":    "actor_id",
}

// List returns audit entries for the tenant, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	page, err := h.audit.List(r.Context(), sess, parseListOptions(r, auditFilters))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Stats returns success/failure counts for the activity dashboard.
func (h *AuditHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	stats, err := h.audit.Stats(r.Context(), sess)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
