package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

// AppointmentService manages appointment requests and their lifecycle.
type AppointmentService struct {
	store *repository.Store[models.Appointment, *models.Appointment]
}

// NewAppointmentService creates an appointment service.
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{
		store: repository.NewStore[models.Appointment, *models.Appointment](db, "appointment"),
	}
}

// Request validates and creates an appointment in the requested state.
func (s *AppointmentService) Request(ctx context.Context, sess models.Session, req models.CreateAppointmentRequest) (*models.Appointment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	appt := &models.Appointment{
		TenantID:   sess.TenantID,
		StudentID:  req.StudentID,
		ProviderID: req.ProviderID,
		Reason:     req.Reason,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Status:     models.AppointmentRequested,
		Urgency:    urgency,
	}
	if err := s.store.Create(ctx, sess, appt, models.ActionAppointmentCreated, map[string]any{
		"student_id": appt.StudentID.String(),
		"urgency":    string(appt.Urgency),
	}); err != nil {
		return nil, err
	}
	return appt, nil
}

// List returns one page of appointments for the tenant.
func (s *AppointmentService) List(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.Appointment], error) {
	return s.store.List(ctx, sess, opts)
}

// Get fetches one appointment with tenant checking.
func (s *AppointmentService) Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.Appointment, error) {
	return s.store.Get(ctx, sess, id)
}

// SetStatus moves an appointment through its lifecycle. Illegal
// transitions fail validation; completed, cancelled and denied are
// terminal.
func (s *AppointmentService) SetStatus(ctx context.Context, sess models.Session, id uuid.UUID, to models.AppointmentStatus) (*models.Appointment, error) {
	return s.store.Update(ctx, sess, id, models.ActionAppointmentUpdated, func(a *models.Appointment) error {
		if !models.ValidAppointmentTransition(a.Status, to) {
			return repository.NewValidationError(repository.FieldError{
				Field:   "status",
				Message: string(a.Status) + " cannot transition to " + string(to),
			})
		}
		a.Status = to
		return nil
	})
}
