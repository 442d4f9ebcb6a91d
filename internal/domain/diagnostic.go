package domain

import "time"

// StepDiagnostic is the per-step verdict of one evaluation cycle. Diagnostics
// are transient: recomputed every cycle, never persisted as their own entity.
type StepDiagnostic struct {
	StepID     string
	StepName   string
	Type       DiagnosticType
	Severity   Severity
	Message    string
	DetectedAt time.Time

	// AdditionalData is an open key/value bag kept for audit trails on the
	// alert history.
	AdditionalData map[string]any
}

// NewStepDiagnostic initializes a diagnostic for a step with an empty data bag.
func NewStepDiagnostic(step WorkflowStep, now time.Time) StepDiagnostic {
	return StepDiagnostic{
		StepID:         step.SourceStepID,
		StepName:       step.Name,
		Severity:       SeverityHealthy,
		DetectedAt:     now,
		AdditionalData: make(map[string]any),
	}
}

// ExecutionDiagnostic aggregates the step diagnostics of one execution.
type ExecutionDiagnostic struct {
	ExecutionID     string
	OverallHealth   Severity
	Summary         string
	AnalyzedAt      time.Time
	StepDiagnostics []StepDiagnostic
}

// CountBySeverity returns how many step diagnostics carry the given severity.
func (d *ExecutionDiagnostic) CountBySeverity(s Severity) int {
	n := 0
	for _, sd := range d.StepDiagnostics {
		if sd.Severity == s {
			n++
		}
	}
	return n
}
