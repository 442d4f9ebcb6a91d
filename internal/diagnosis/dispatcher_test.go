package diagnosis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

func TestDispatcher_RoutesByStepType(t *testing.T) {
	d := NewDispatcher(DefaultThresholds())
	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Filter", Status: "Completed"}
	execution := &domain.Execution{}

	diag := d.Diagnose(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.Severity)
	assert.Equal(t, "filter step completed", diag.Message)
}

func TestDispatcher_NormalizesRawTypeSpelling(t *testing.T) {
	d := NewDispatcher(DefaultThresholds())
	step := domain.WorkflowStep{SourceStepID: "s1", Type: "DecisionSplit", Status: "Completed"}

	diag := d.Diagnose(step, &domain.Execution{}, nil, testNow)

	assert.Equal(t, "decision split step executed", diag.Message)
}

func TestDispatcher_UnknownStepTypeWarning(t *testing.T) {
	d := NewDispatcher(DefaultThresholds())
	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Teleport", Status: "Completed"}

	diag := d.Diagnose(step, &domain.Execution{}, nil, testNow)

	assert.Equal(t, domain.SeverityWarning, diag.Severity)
	assert.Equal(t, "Teleport", diag.AdditionalData["step_type"])
}

func TestDispatcher_PanickingValidatorContained(t *testing.T) {
	d := NewDispatcher(DefaultThresholds())
	d.Register(domain.StepFilter, func(domain.WorkflowStep, *domain.Execution, *domain.Campaign, time.Time) domain.StepDiagnostic {
		panic("validator bug")
	})

	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Filter", Status: "Running"}
	diag := d.Diagnose(step, &domain.Execution{}, nil, testNow)

	assert.Equal(t, domain.SeverityWarning, diag.Severity)
	assert.Contains(t, diag.Message, "validator bug")
}

func TestDispatcher_GenericFallbackForUnregisteredType(t *testing.T) {
	d := NewDispatcher(DefaultThresholds())
	delete(d.validators, domain.StepWait)

	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Wait", Status: "Completed"}
	diag := d.Diagnose(step, &domain.Execution{}, nil, testNow)
	assert.Equal(t, domain.SeverityHealthy, diag.Severity)

	step.Status = "Running"
	diag = d.Diagnose(step, &domain.Execution{}, nil, testNow)
	assert.Equal(t, domain.SeverityHealthy, diag.Severity)

	step.Error = "timer lost"
	diag = d.Diagnose(step, &domain.Execution{}, nil, testNow)
	assert.Equal(t, domain.SeverityError, diag.Severity)
	assert.Equal(t, domain.DiagnosticStepFailed, diag.Type)
}
