package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

// PlanService manages intervention plans. Plan progress is always derived
// from goal statuses, never stored.
type PlanService struct {
	store *repository.Store[models.InterventionPlan, *models.InterventionPlan]
}

// NewPlanService creates a plan service.
func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{
		store: repository.NewStore[models.InterventionPlan, *models.InterventionPlan](db, "intervention_plan"),
	}
}

// Create validates and persists a plan authored by the acting session.
func (s *PlanService) Create(ctx context.Context, sess models.Session, req models.CreatePlanRequest) (*models.InterventionPlan, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	goals := req.Goals
	for i := range goals {
		if goals[i].Status == "" {
			goals[i].Status = models.GoalNotStarted
		}
	}
	plan := &models.InterventionPlan{
		TenantID:   sess.TenantID,
		StudentID:  req.StudentID,
		AuthorID:   sess.UserID,
		Title:      req.Title,
		Goals:      goals,
		Strategies: req.Strategies,
		Priority:   priority,
		Status:     models.PlanActive,
	}
	if err := s.store.Create(ctx, sess, plan, models.ActionPlanCreated, map[string]any{
		"student_id": plan.StudentID.String(),
	}); err != nil {
		return nil, err
	}
	return plan, nil
}

// List returns one page of plans for the tenant.
func (s *PlanService) List(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.InterventionPlan], error) {
	return s.store.List(ctx, sess, opts)
}

// Get fetches one plan with tenant checking.
func (s *PlanService) Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.InterventionPlan, error) {
	return s.store.Get(ctx, sess, id)
}

// Update patches a plan under plan_updated.
func (s *PlanService) Update(ctx context.Context, sess models.Session, id uuid.UUID, req models.UpdatePlanRequest) (*models.InterventionPlan, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, sess, id, models.ActionPlanUpdated, func(p *models.InterventionPlan) error {
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Goals != nil {
			p.Goals = req.Goals
		}
		if req.Strategies != nil {
			p.Strategies = req.Strategies
		}
		if req.Priority != nil {
			p.Priority = *req.Priority
		}
		if req.Status != nil {
			p.Status = *req.Status
		}
		return nil
	})
}

// SetGoalStatus updates a single goal by index.
func (s *PlanService) SetGoalStatus(ctx context.Context, sess models.Session, id uuid.UUID, goalIndex int, status models.GoalStatus) (*models.InterventionPlan, error) {
	return s.store.Update(ctx, sess, id, models.ActionPlanUpdated, func(p *models.InterventionPlan) error {
		if goalIndex < 0 || goalIndex >= len(p.Goals) {
			return repository.NewValidationError(repository.FieldError{
				Field: "goal_index", Message: "out of range",
			})
		}
		p.Goals[goalIndex].Status = status
		return nil
	})
}
