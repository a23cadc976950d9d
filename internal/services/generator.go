package services

import (
	"context"
	"time"

	"github.com/campushq/campus-records/internal/models"
)

// PlaceholderGenerator stands in for the external report-content
// collaborator. It echoes the definition so runs, results and last_run_at
// behave end to end; deployments plug in a real generator.
type PlaceholderGenerator struct{}

// Generate implements Generator.
func (PlaceholderGenerator) Generate(ctx context.Context, def *models.ReportDefinition) (map[string]any, error) {
	return map[string]any{
		"report_type":  def.Type,
		"parameters":   def.Parameters,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}, nil
}
