package diagnosis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

func TestExecutionAnalyzer_HealthyExecution(t *testing.T) {
	analyzer := NewExecutionAnalyzer(NewDispatcher(DefaultThresholds()), zap.NewNop())
	execution := &domain.Execution{
		SourceExecutionID: "e1",
		Status:            "Completed",
		Steps: []domain.WorkflowStep{
			{SourceStepID: "s1", Type: "Filter", Status: "Completed"},
			{SourceStepID: "s2", Type: "End", Status: "Completed"},
		},
	}

	diag := analyzer.Analyze(execution, nil, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.OverallHealth)
	assert.Len(t, diag.StepDiagnostics, 2)
	assert.Equal(t, "execution healthy, status: Completed", diag.Summary)
}

func TestExecutionAnalyzer_OverallHealthIsMaxSeverity(t *testing.T) {
	analyzer := NewExecutionAnalyzer(NewDispatcher(DefaultThresholds()), zap.NewNop())
	execution := &domain.Execution{
		SourceExecutionID: "e1",
		Status:            "InProgress",
		StartDate:         startedAt(45 * time.Minute),
		Steps: []domain.WorkflowStep{
			{SourceStepID: "s1", Type: "Filter", Status: "Running"},
			{SourceStepID: "s2", Type: "Channel", Status: "Waiting"},
		},
	}

	diag := analyzer.Analyze(execution, nil, testNow)

	// Filter running 45 minutes is critical; the missing channel data only
	// warns. The roll-up keeps the worst.
	assert.Equal(t, domain.SeverityCritical, diag.OverallHealth)
	assert.Equal(t, "execution with 1 critical issue(s), status: InProgress", diag.Summary)
}

func TestExecutionAnalyzer_OneDiagnosticPerStep(t *testing.T) {
	analyzer := NewExecutionAnalyzer(NewDispatcher(DefaultThresholds()), zap.NewNop())
	execution := &domain.Execution{
		SourceExecutionID: "e1",
		Status:            "InProgress",
		Steps: []domain.WorkflowStep{
			{SourceStepID: "s1", Type: "Filter", Status: "Completed"},
			{SourceStepID: "s2", Type: "Unknown1", Status: "Running"},
			{SourceStepID: "s3", Type: "End", Status: "Waiting"},
		},
	}

	diag := analyzer.Analyze(execution, nil, testNow)

	assert.Len(t, diag.StepDiagnostics, 3)
	for i, step := range execution.Steps {
		assert.Equal(t, step.SourceStepID, diag.StepDiagnostics[i].StepID)
	}
}

func TestExecutionAnalyzer_EmptyStepsHealthy(t *testing.T) {
	analyzer := NewExecutionAnalyzer(NewDispatcher(DefaultThresholds()), zap.NewNop())
	execution := &domain.Execution{SourceExecutionID: "e1", Status: "Completed"}

	diag := analyzer.Analyze(execution, nil, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.OverallHealth)
	assert.Empty(t, diag.StepDiagnostics)
}
