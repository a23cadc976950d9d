package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalStatus represents the state of a single intervention goal.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not_started"
	GoalInProgress GoalStatus = "in_progress"
	GoalCompleted  GoalStatus = "completed"
)

// PlanStatus represents the state of an intervention plan as a whole.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanOnHold    PlanStatus = "on_hold"
	PlanCancelled PlanStatus = "cancelled"
)

// PlanGoal is one goal inside an intervention plan.
type PlanGoal struct {
	Title  string     `json:"title"`
	Status GoalStatus `json:"status"`
}

// InterventionPlan tracks goals and strategies for supporting a student.
type InterventionPlan struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	StudentID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Title      string     `gorm:"type:varchar(255);not null" json:"title"`
	Goals      []PlanGoal `gorm:"serializer:json;type:jsonb" json:"goals"`
	Strategies []string   `gorm:"serializer:json;type:jsonb" json:"strategies"`
	Priority   string     `gorm:"type:varchar(20);default:'medium'" json:"priority"`
	Status     PlanStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (InterventionPlan) TableName() string {
	return "intervention_plans"
}

// BeforeCreate hook
func (p *InterventionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// GetID implements repository.Entity.
func (p *InterventionPlan) GetID() uuid.UUID { return p.ID }

// GetTenantID implements repository.Entity.
func (p *InterventionPlan) GetTenantID() uuid.UUID { return p.TenantID }

// GetCreatedAt implements repository.Entity.
func (p *InterventionPlan) GetCreatedAt() time.Time { return p.CreatedAt }

// SearchFields returns the fields matched by free-text filtering.
func (p *InterventionPlan) SearchFields() []string {
	return []string{p.Title}
}

// Progress derives the completion percentage from goal statuses. It is
// never stored: completedGoals / totalGoals, rounded to the nearest whole
// percent. A plan with no goals reports zero.
func (p *InterventionPlan) Progress() int {
	if len(p.Goals) == 0 {
		return 0
	}
	completed := 0
	for _, g := range p.Goals {
		if g.Status == GoalCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(p.Goals)) * 100))
}

// CreatePlanRequest represents a request to create an intervention plan.
type CreatePlanRequest struct {
	StudentID  uuid.UUID  `json:"student_id" validate:"required"`
	Title      string     `json:"title" validate:"required"`
	Goals      []PlanGoal `json:"goals"`
	Strategies []string   `json:"strategies"`
	Priority   string     `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdatePlanRequest represents a request to update an intervention plan.
type UpdatePlanRequest struct {
	Title      *string     `json:"title,omitempty"`
	Goals      []PlanGoal  `json:"goals,omitempty"`
	Strategies []string    `json:"strategies,omitempty"`
	Priority   *string     `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Status     *PlanStatus `json:"status,omitempty" validate:"omitempty,oneof=active completed on_hold cancelled"`
}
