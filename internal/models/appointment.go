package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents where an appointment is in its lifecycle.
type AppointmentStatus string

const (
	AppointmentRequested AppointmentStatus = "requested"
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentDenied    AppointmentStatus = "denied"
)

// AppointmentUrgency ranks how quickly a requested appointment should be
// handled.
type AppointmentUrgency string

const (
	UrgencyLow    AppointmentUrgency = "low"
	UrgencyMedium AppointmentUrgency = "medium"
	UrgencyHigh   AppointmentUrgency = "high"
)

// Appointment is a time-boxed record linking a specialist or counselor to
// a student.
type Appointment struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	StudentID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"student_id"`
	ProviderID uuid.UUID          `gorm:"type:uuid;not null;index" json:"provider_id"`
	Reason     string             `gorm:"type:text" json:"reason"`
	StartsAt   time.Time          `json:"starts_at"`
	EndsAt     time.Time          `json:"ends_at"`
	Status     AppointmentStatus  `gorm:"type:varchar(20);not null;default:'requested';index" json:"status"`
	Urgency    AppointmentUrgency `gorm:"type:varchar(20);default:'medium'" json:"urgency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Appointment) TableName() string {
	return "appointments"
}

// BeforeCreate hook
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// GetID implements repository.Entity.
func (a *Appointment) GetID() uuid.UUID { return a.ID }

// GetTenantID implements repository.Entity.
func (a *Appointment) GetTenantID() uuid.UUID { return a.TenantID }

// GetCreatedAt implements repository.Entity.
func (a *Appointment) GetCreatedAt() time.Time { return a.CreatedAt }

// SearchFields returns the fields matched by free-text filtering.
func (a *Appointment) SearchFields() []string {
	return []string{a.Reason}
}

// appointmentTransitions enumerates the allowed status transitions.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentRequested: {AppointmentScheduled, AppointmentDenied, AppointmentCancelled},
	AppointmentScheduled: {AppointmentCompleted, AppointmentCancelled},
}

// ValidAppointmentTransition reports whether an appointment may move from
// one status to another. Completed, cancelled and denied are terminal.
func ValidAppointmentTransition(from, to AppointmentStatus) bool {
	for _, next := range appointmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateAppointmentRequest represents a request for a new appointment.
type CreateAppointmentRequest struct {
	StudentID  uuid.UUID          `json:"student_id" validate:"required"`
	ProviderID uuid.UUID          `json:"provider_id" validate:"required"`
	Reason     string             `json:"reason"`
	StartsAt   time.Time          `json:"starts_at" validate:"required"`
	EndsAt     time.Time          `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Urgency    AppointmentUrgency `json:"urgency" validate:"omitempty,oneof=low medium high"`
}
