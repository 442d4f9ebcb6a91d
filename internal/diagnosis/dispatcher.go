package diagnosis

import (
	"fmt"
	"time"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// ValidatorFunc checks one workflow step in the context of its execution and
// campaign. Validators are total: any step/execution/campaign combination
// yields a diagnostic, never an error.
type ValidatorFunc func(step domain.WorkflowStep, execution *domain.Execution, campaign *domain.Campaign, now time.Time) domain.StepDiagnostic

// Dispatcher routes a step to the validator registered for its type. New step
// kinds are supported by registering a new table entry.
type Dispatcher struct {
	validators map[domain.StepType]ValidatorFunc
}

// NewDispatcher builds a dispatcher with the standard validator table.
func NewDispatcher(t Thresholds) *Dispatcher {
	v := validators{thresholds: t}
	return &Dispatcher{
		validators: map[domain.StepType]ValidatorFunc{
			domain.StepFilter:        v.filter,
			domain.StepChannel:       v.channel,
			domain.StepWait:          v.wait,
			domain.StepDated:         v.dated,
			domain.StepDecisionSplit: v.decisionSplit,
			domain.StepEnd:           v.end,
		},
	}
}

// Register installs or replaces the validator for a step type.
func (d *Dispatcher) Register(t domain.StepType, fn ValidatorFunc) {
	d.validators[t] = fn
}

// Diagnose produces exactly one diagnostic for the step. Unknown step types
// are reported as a warning with the raw type preserved; types with no
// registered validator fall back to a generic status check. A panicking
// validator is downgraded to a warning so one faulty step cannot void the
// whole execution's diagnosis.
func (d *Dispatcher) Diagnose(step domain.WorkflowStep, execution *domain.Execution, campaign *domain.Campaign, now time.Time) (diag domain.StepDiagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diag = domain.NewStepDiagnostic(step, now)
			diag.Severity = domain.SeverityWarning
			diag.Message = fmt.Sprintf("step validation failed unexpectedly: %v", r)
			diag.AdditionalData["panic"] = fmt.Sprintf("%v", r)
		}
	}()

	stepType, ok := domain.ParseStepType(step.Type)
	if !ok {
		diag = domain.NewStepDiagnostic(step, now)
		diag.Severity = domain.SeverityWarning
		diag.Message = fmt.Sprintf("unknown step type: %s", step.Type)
		diag.AdditionalData["step_type"] = step.Type
		return diag
	}

	validator, ok := d.validators[stepType]
	if !ok {
		return d.generic(step, now)
	}

	return validator(step, execution, campaign, now)
}

// generic covers step types with no dedicated validator: an explicit error
// wins, a completed step is healthy, anything else is treated as in progress.
func (d *Dispatcher) generic(step domain.WorkflowStep, now time.Time) domain.StepDiagnostic {
	diag := domain.NewStepDiagnostic(step, now)

	if step.Error != "" {
		diag.Severity = domain.SeverityError
		diag.Type = domain.DiagnosticStepFailed
		diag.Message = fmt.Sprintf("step reported an error: %s", step.Error)
		diag.AdditionalData["original_error"] = step.Error
		return diag
	}

	if step.Status == "Completed" {
		diag.Message = "step completed"
		return diag
	}

	diag.Message = fmt.Sprintf("step in progress (status: %s)", step.Status)
	return diag
}
