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

// PlanService is the slice of the plan service the handler needs.
type PlanService interface {
	Create(ctx context.Context, sess models.Session, req models.CreatePlanRequest) (*models.InterventionPlan, error)
	List(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.InterventionPlan], error)
	Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.InterventionPlan, error)
	Update(ctx context.Context, sess models.Session, id uuid.UUID, req models.UpdatePlanRequest) (*models.InterventionPlan, error)
	SetGoalStatus(ctx context.Context, sess models.Session, id uuid.UUID, goalIndex int, status models.GoalStatus) (*models.InterventionPlan, error)
}

type PlanHandler struct {
	plans PlanService
}

func NewPlanHandler(plans PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

var planFilters = map[string]string{
	"status":     "status",
	"priority":   "priority",
	"student_id": "student_id",
}

// planResponse adds the derived progress percentage to the wire shape.
type planResponse struct {
	*models.InterventionPlan
	Progress int `json:"progress"`
}

func toPlanResponse(p *models.InterventionPlan) planResponse {
	return planResponse{InterventionPlan: p, Progress: p.Progress()}
}

// List returns one page of plans with derived progress.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	page, err := h.plans.List(r.Context(), sess, parseListOptions(r, planFilters))
	if err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]planResponse, len(page.Items))
	for i, p := range page.Items {
		items[i] = toPlanResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"has_more": page.HasMore,
	})
}

// Get returns one plan with derived progress.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid plan ID", http.StatusBadRequest)
		return
	}

	plan, err := h.plans.Get(r.Context(), sess, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

// Create persists a new intervention plan.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	var req models.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.plans.Create(r.Context(), sess, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanResponse(plan))
}

// Update patches a plan.
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid plan ID", http.StatusBadRequest)
		return
	}

	var req models.UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.plans.Update(r.Context(), sess, id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

// SetGoalStatus updates one goal by index.
func (h *PlanHandler) SetGoalStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid plan ID", http.StatusBadRequest)
		return
	}

	var req struct {
		GoalIndex int               `json:"goal_index"`
		Status    models.GoalStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.plans.SetGoalStatus(r.Context(), sess, id, req.GoalIndex, req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}
