package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportFrequency is how often a scheduled report recurs.
type ReportFrequency string

const (
	FrequencyDaily   ReportFrequency = "daily"
	FrequencyWeekly  ReportFrequency = "weekly"
	FrequencyMonthly ReportFrequency = "monthly"
)

// ReportSchedule is recurrence metadata on a report definition. It is
// metadata only: the recurring execution itself is driven by an external
// scheduler that calls Run at the configured cadence.
type ReportSchedule struct {
	Enabled   bool            `json:"enabled"`
	Frequency ReportFrequency `json:"frequency,omitempty"`
	DayOfWeek int             `json:"day_of_week,omitempty"`
}

// ReportDefinition describes a report that can be run on demand.
type ReportDefinition struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Type       string         `gorm:"type:varchar(50);not null" json:"type"`
	Parameters map[string]any `gorm:"serializer:json;type:jsonb" json:"parameters,omitempty"`
	Schedule   ReportSchedule `gorm:"serializer:json;type:jsonb" json:"schedule"`
	LastRunAt  *time.Time     `json:"last_run_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (ReportDefinition) TableName() string {
	return "report_definitions"
}

// BeforeCreate hook
func (r *ReportDefinition) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// GetID implements repository.Entity.
func (r *ReportDefinition) GetID() uuid.UUID { return r.ID }

// GetTenantID implements repository.Entity.
func (r *ReportDefinition) GetTenantID() uuid.UUID { return r.TenantID }

// GetCreatedAt implements repository.Entity.
func (r *ReportDefinition) GetCreatedAt() time.Time { return r.CreatedAt }

// SearchFields returns the fields matched by free-text filtering.
func (r *ReportDefinition) SearchFields() []string {
	return []string{r.Name, r.Type}
}

// ReportResult is one generated artifact tied to a report definition.
type ReportResult struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ReportID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"report_id"`
	Content     map[string]any `gorm:"serializer:json;type:jsonb" json:"content,omitempty"`
	GeneratedAt time.Time      `gorm:"index" json:"generated_at"`
}

// TableName overrides the table name
func (ReportResult) TableName() string {
	return "report_results"
}

// BeforeCreate hook
func (r *ReportResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// CreateReportRequest represents a request to create a report definition.
type CreateReportRequest struct {
	Name       string         `json:"name" validate:"required"`
	Type       string         `json:"type" validate:"required"`
	Parameters map[string]any `json:"parameters"`
	Schedule   ReportSchedule `json:"schedule"`
}
