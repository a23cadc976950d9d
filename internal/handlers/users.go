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

// UserService is the slice of the user service the handler needs.
type UserService interface {
	Create(ctx context.Context, sess models.Session, principalID string, req models.CreateUserRequest) (*models.User, error)
	List(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.User], error)
	Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, sess models.Session, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error)
	SetStatus(ctx context.Context, sess models.Session, id uuid.UUID, status models.UserStatus) (*models.User, error)
}

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

var userFilters = map[string]string{
	"role":   "role",
	"status": "status",
}

// List returns one page of users in the acting tenant.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	page, err := h.users.List(r.Context(), sess, parseListOptions(r, userFilters))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get returns one user.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.users.Get(r.Context(), sess, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type createUserPayload struct {
	models.CreateUserRequest
	PrincipalID string `json:"principal_id"`
}

// Create provisions a user account.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	var payload createUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Create(r.Context(), sess, payload.PrincipalID, payload.CreateUserRequest)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Update patches a user account.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Update(r.Context(), sess, id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SetStatus transitions an account status; the only removal mechanism.
func (h *UserHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status models.UserStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.SetStatus(r.Context(), sess, id, req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
