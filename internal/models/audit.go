package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action taxonomy. Actions are open strings grouped by suffix
// convention; callers derive display semantics by substring match.
const (
	ActionUserCreated        = "user_created"
	ActionUserUpdated        = "user_updated"
	ActionUserStatusChanged  = "user_status_changed"
	ActionLoginFailed        = "login_failed"
	ActionNoteCreated        = "note_created"
	ActionNoteUpdated        = "note_updated"
	ActionNoteDeleted        = "note_deleted"
	ActionPlanCreated        = "plan_created"
	ActionPlanUpdated        = "plan_updated"
	ActionAppointmentCreated = "appointment_created"
	ActionAppointmentUpdated = "appointment_updated"
	ActionReportCreated      = "report_created"
	ActionReportGenerated    = "report_generated"
	ActionTenantCreated      = "tenant_created"
	ActionTenantUpdated      = "tenant_updated"
)

// AuditLogEntry is an append-only record of a mutating action. Entries are
// never updated or deleted.
type AuditLogEntry struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ActorID    uuid.UUID      `gorm:"type:uuid;index" json:"actor_id"`
	Action     string         `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityType string         `gorm:"type:varchar(50);index" json:"entity_type"`
	EntityID   string         `gorm:"type:varchar(255);index" json:"entity_id"`
	Details    map[string]any `gorm:"serializer:json;type:jsonb" json:"details,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (AuditLogEntry) TableName() string {
	return "audit_log_entries"
}

// BeforeCreate hook
func (a *AuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// GetID implements repository.Entity.
func (a *AuditLogEntry) GetID() uuid.UUID { return a.ID }

// GetTenantID implements repository.Entity.
func (a *AuditLogEntry) GetTenantID() uuid.UUID { return a.TenantID }

// GetCreatedAt implements repository.Entity.
func (a *AuditLogEntry) GetCreatedAt() time.Time { return a.CreatedAt }

// SearchFields returns the fields matched by free-text filtering.
func (a *AuditLogEntry) SearchFields() []string {
	return []string{a.Action, a.EntityType, a.EntityID}
}

// ActionOutcome classifies an audit action for display and statistics.
type ActionOutcome string

const (
	OutcomeSuccess ActionOutcome = "success"
	OutcomeFailure ActionOutcome = "failure"
)

// ClassifyAction derives the outcome of an action by substring match on
// its name. Activity statistics ("failed actions" counts) depend on this
// exact rule.
func ClassifyAction(action string) ActionOutcome {
	if strings.Contains(action, "_failed") {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// AuditStats summarizes audit activity for a tenant.
type AuditStats struct {
	Total    int64 `json:"total"`
	Success  int64 `json:"success"`
	Failures int64 `json:"failures"`
}
