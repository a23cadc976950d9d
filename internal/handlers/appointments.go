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

// AppointmentService is the slice of the appointment service the handler
// needs.
type AppointmentService interface {
	Request(ctx context.Context, sess models.Session, req models.CreateAppointmentRequest) (*models.Appointment, error)
	List(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.Appointment], error)
	Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.Appointment, error)
	SetStatus(ctx context.Context, sess models.Session, id uuid.UUID, to models.AppointmentStatus) (*models.Appointment, error)
}

type AppointmentHandler struct {
	appointments AppointmentService
}

func NewAppointmentHandler(appointments AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

var appointmentFilters = map[string]string{
	"status":      "status",
	"urgency":     "urgency",
	"student_id":  "student_id",
	"provider_id": "provider_id",
}

// List returns one page of appointments.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	page, err := h.appointments.List(r.Context(), sess, parseListOptions(r, appointmentFilters))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get returns one appointment.
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	appt, err := h.appointments.Get(r.Context(), sess, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Create requests a new appointment.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	var req models.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.appointments.Request(r.Context(), sess, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// SetStatus drives the appointment lifecycle.
func (h *AppointmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status models.AppointmentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.appointments.SetStatus(r.Context(), sess, id, req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}
