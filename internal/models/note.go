package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotePriority ranks how urgently a note should be reviewed.
type NotePriority string

const (
	NotePriorityLow    NotePriority = "low"
	NotePriorityMedium NotePriority = "medium"
	NotePriorityHigh   NotePriority = "high"
)

// StudentNote is a record written by a specialist or counselor about a
// student. Confidentiality is a per-record flag, not a separate collection:
// a note with IsConfidential set is subject to restricted handling by
// callers, in addition to normal tenant scoping.
type StudentNote struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	StudentID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"student_id"`
	AuthorID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"author_id"`
	Title          string       `gorm:"type:varchar(255);not null" json:"title"`
	Content        string       `gorm:"type:text" json:"content"`
	IsConfidential bool         `gorm:"not null;default:false;index" json:"is_confidential"`
	Priority       NotePriority `gorm:"type:varchar(20);default:'medium'" json:"priority"`
	Tags           []string     `gorm:"serializer:json;type:jsonb" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (StudentNote) TableName() string {
	return "student_notes"
}

// BeforeCreate hook
func (n *StudentNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// GetID implements repository.Entity.
func (n *StudentNote) GetID() uuid.UUID { return n.ID }

// GetTenantID implements repository.Entity.
func (n *StudentNote) GetTenantID() uuid.UUID { return n.TenantID }

// GetCreatedAt implements repository.Entity.
func (n *StudentNote) GetCreatedAt() time.Time { return n.CreatedAt }

// SearchFields returns the fields matched by free-text filtering.
func (n *StudentNote) SearchFields() []string {
	return []string{n.Title, n.Content}
}

// CreateNoteRequest represents a request to create a student note.
type CreateNoteRequest struct {
	StudentID      uuid.UUID    `json:"student_id" validate:"required"`
	Title          string       `json:"title" validate:"required"`
	Content        string       `json:"content"`
	IsConfidential bool         `json:"is_confidential"`
	Priority       NotePriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags           []string     `json:"tags"`
}

// UpdateNoteRequest represents a request to update a student note.
type UpdateNoteRequest struct {
	Title          *string       `json:"title,omitempty"`
	Content        *string       `json:"content,omitempty"`
	IsConfidential *bool         `json:"is_confidential,omitempty"`
	Priority       *NotePriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Tags           []string      `json:"tags,omitempty"`
}
