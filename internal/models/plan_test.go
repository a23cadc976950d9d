package models

import "testing"

func TestPlanProgress(t *testing.T) {
	cases := []struct {
		name  string
		goals []PlanGoal
		want  int
	}{
		{"no goals", nil, 0},
		{"one of three completed", []PlanGoal{
			{Status: GoalCompleted},
			{Status: GoalInProgress},
			{Status: GoalNotStarted},
		}, 33},
		{"two of three completed", []PlanGoal{
			{Status: GoalCompleted},
			{Status: GoalCompleted},
			{Status: GoalNotStarted},
		}, 67},
		{"all completed", []PlanGoal{
			{Status: GoalCompleted},
			{Status: GoalCompleted},
		}, 100},
		{"none completed", []PlanGoal{
			{Status: GoalInProgress},
		}, 0},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			p := InterventionPlan{Goals: tt.goals}
			if got := p.Progress(); got != tt.want {
				t.Fatalf("Progress()=%d, want %d", got, tt.want)
			}
		})
	}
}
