package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

// Generator produces the content of one report run. Report-content
// computation is an external collaborator; the engine only persists
// definitions, runs and results.
type Generator interface {
	Generate(ctx context.Context, def *models.ReportDefinition) (map[string]any, error)
}

// ReportService owns report definitions, on-demand execution and schedule
// metadata. The recurring scheduler is an external process that calls Run
// at the configured cadence; nothing here implements the timer.
type ReportService struct {
	defs      *repository.Store[models.ReportDefinition, *models.ReportDefinition]
	db        *gorm.DB
	generator Generator
}

// NewReportService creates a report service.
func NewReportService(db *gorm.DB, generator Generator) *ReportService {
	return &ReportService{
		defs:      repository.NewStore[models.ReportDefinition, *models.ReportDefinition](db, "report_definition"),
		db:        db,
		generator: generator,
	}
}

// CreateDefinition validates and persists a report definition.
func (s *ReportService) CreateDefinition(ctx context.Context, sess models.Session, req models.CreateReportRequest) (*models.ReportDefinition, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := ValidateSchedule(req.Schedule); err != nil {
		return nil, err
	}

	def := &models.ReportDefinition{
		TenantID:   sess.TenantID,
		Name:       req.Name,
		Type:       req.Type,
		Parameters: req.Parameters,
		Schedule:   req.Schedule,
	}
	if err := s.defs.Create(ctx, sess, def, models.ActionReportCreated, map[string]any{
		"type": def.Type,
	}); err != nil {
		return nil, err
	}
	return def, nil
}

// ListDefinitions returns one page of definitions.
func (s *ReportService) ListDefinitions(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.ReportDefinition], error) {
	return s.defs.List(ctx, sess, opts)
}

// GetDefinition fetches one definition with tenant checking.
func (s *ReportService) GetDefinition(ctx context.Context, sess models.Session, id uuid.UUID) (*models.ReportDefinition, error) {
	return s.defs.Get(ctx, sess, id)
}

// Run executes a definition synchronously: one result per invocation, and
// last_run_at moves forward. The result insert, the definition update and
// the audit entry commit together.
func (s *ReportService) Run(ctx context.Context, sess models.Session, defID uuid.UUID) (*models.ReportResult, error) {
	def, err := s.defs.Get(ctx, sess, defID)
	if err != nil {
		return nil, err
	}

	content, err := s.generator.Generate(ctx, def)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &models.ReportResult{
		TenantID:    sess.TenantID,
		ReportID:    def.ID,
		Content:     content,
		GeneratedAt: now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ReportDefinition{}).
			Where("id = ? AND tenant_id = ?", def.ID, sess.TenantID).
			Update("last_run_at", now).Error; err != nil {
			return err
		}
		entry := models.AuditLogEntry{
			TenantID:   sess.TenantID,
			ActorID:    sess.UserID,
			Action:     models.ActionReportGenerated,
			EntityType: "report_definition",
			EntityID:   def.ID.String(),
			Details:    map[string]any{"result_id": result.ID.String()},
		}
		return tx.Create(&entry).Error
	})
	if txErr != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrTransient, txErr)
	}
	return result, nil
}

// ListResults returns the generated artifacts for one definition, newest
// first.
func (s *ReportService) ListResults(ctx context.Context, sess models.Session, defID uuid.UUID) ([]*models.ReportResult, error) {
	// tenant check rides on the definition fetch
	if _, err := s.defs.Get(ctx, sess, defID); err != nil {
		return nil, err
	}

	var rows []models.ReportResult
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND report_id = ?", sess.TenantID, defID).
		Order("generated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrTransient, err)
	}
	results := make([]*models.ReportResult, len(rows))
	for i := range rows {
		results[i] = &rows[i]
	}
	return results, nil
}

// ValidateSchedule checks the schedule shape: an enabled schedule needs a
// known frequency, and weekly schedules need a day of week.
func ValidateSchedule(s models.ReportSchedule) error {
	if !s.Enabled {
		return nil
	}
	switch s.Frequency {
	case models.FrequencyDaily, models.FrequencyMonthly:
		return nil
	case models.FrequencyWeekly:
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
			return repository.NewValidationError(repository.FieldError{
				Field: "day_of_week", Message: "must be 0-6 for weekly schedules",
			})
		}
		return nil
	default:
		return repository.NewValidationError(repository.FieldError{
			Field: "frequency", Message: "must be daily, weekly or monthly",
		})
	}
}
