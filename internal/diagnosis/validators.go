package diagnosis

import (
	"fmt"
	"time"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// validators groups the per-step-type policies around their shared thresholds.
type validators struct {
	thresholds Thresholds
}

// stepFailed applies the common short-circuit rule: an explicit step error
// dominates every type-specific policy.
func stepFailed(diag *domain.StepDiagnostic, step domain.WorkflowStep, kind string) bool {
	if step.Error == "" {
		return false
	}
	diag.Type = domain.DiagnosticStepFailed
	diag.Severity = domain.SeverityError
	diag.Message = fmt.Sprintf("%s step failed: %s", kind, step.Error)
	diag.AdditionalData["original_error"] = step.Error
	return true
}

// filter flags filter/gate steps that are still running past the configured
// timeouts. The step model carries no start date of its own, so the
// execution's start is the best available reference point.
func (v validators) filter(step domain.WorkflowStep, execution *domain.Execution, _ *domain.Campaign, now time.Time) domain.StepDiagnostic {
	diag := domain.NewStepDiagnostic(step, now)

	if stepFailed(&diag, step, "filter") {
		return diag
	}

	if step.Status == "Completed" {
		diag.Message = "filter step completed"
		return diag
	}

	if execution.StartDate == nil {
		diag.Message = "filter step awaiting execution (execution has no start date)"
		return diag
	}

	running := now.Sub(*execution.StartDate)
	switch {
	case running > v.thresholds.FilterCritical:
		diag.Type = domain.DiagnosticFilterStuck
		diag.Severity = domain.SeverityCritical
		diag.Message = fmt.Sprintf("filter step running for more than %s, likely stuck", v.thresholds.FilterCritical)
		diag.AdditionalData["running_for"] = running.String()
	case running > v.thresholds.FilterWarning:
		diag.Type = domain.DiagnosticFilterStuck
		diag.Severity = domain.SeverityWarning
		diag.Message = fmt.Sprintf("filter step running for more than %s", v.thresholds.FilterWarning)
		diag.AdditionalData["running_for"] = running.String()
	default:
		diag.Message = "filter step in execution"
	}

	return diag
}

// channel inspects the integration aggregate of a send step: missing data,
// channel-side error status, lead error rates, and slow file processing.
func (v validators) channel(step domain.WorkflowStep, _ *domain.Execution, _ *domain.Campaign, now time.Time) domain.StepDiagnostic {
	diag := domain.NewStepDiagnostic(step, now)

	if stepFailed(&diag, step, "channel") {
		return diag
	}

	if step.IntegrationData == nil {
		if step.MonitoringNotes != "" {
			// The mapper records a note when the channel could not be
			// resolved or the integration fetch failed.
			diag.Type = domain.DiagnosticIntegrationError
			diag.Severity = domain.SeverityError
			diag.Message = "failed to fetch channel integration data: unknown channel or connection failure"
			diag.AdditionalData["channel_name"] = step.ChannelName
			diag.AdditionalData["monitoring_notes"] = step.MonitoringNotes
			return diag
		}
		diag.Severity = domain.SeverityWarning
		diag.Message = "channel integration data not found"
		return diag
	}

	integration := step.IntegrationData
	diag.AdditionalData["channel_name"] = integration.ChannelName
	diag.AdditionalData["integration_status"] = integration.IntegrationStatus

	if integration.IntegrationStatus == "Error" {
		diag.Type = domain.DiagnosticIntegrationError
		diag.Severity = domain.SeverityError
		diag.Message = fmt.Sprintf("channel %s reported an error status for this trigger", integration.ChannelName)
		return diag
	}

	if leads := integration.Leads; leads != nil {
		total := leads.TotalProcessed()
		if total > 0 {
			rate := leads.ErrorRate()
			switch {
			case rate > v.thresholds.ChannelErrorRateCritical:
				diag.Type = domain.DiagnosticIntegrationError
				diag.Severity = domain.SeverityCritical
				diag.Message = fmt.Sprintf("high send error rate (%.0f%%): %d of %d leads failed", rate*100, leads.Error, total)
			case rate > v.thresholds.ChannelErrorRateWarning:
				diag.Type = domain.DiagnosticIntegrationError
				diag.Severity = domain.SeverityWarning
				diag.Message = fmt.Sprintf("elevated send error rate (%.0f%%): %d of %d leads failed", rate*100, leads.Error, total)
			}
			diag.AdditionalData["error_rate"] = rate
		}
		diag.AdditionalData["leads_success"] = leads.Success
		diag.AdditionalData["leads_error"] = leads.Error
		diag.AdditionalData["total_processed"] = total
	}

	if file := integration.File; file != nil && file.StartedAt != nil && file.FinishedAt == nil {
		processing := now.Sub(*file.StartedAt)
		if processing > v.thresholds.FileProcessingTimeout && diag.Severity < domain.SeverityWarning {
			diag.Type = domain.DiagnosticIntegrationError
			diag.Severity = domain.SeverityWarning
			diag.Message = fmt.Sprintf("file %q has been processing for more than %s", file.Name, v.thresholds.FileProcessingTimeout)
			diag.AdditionalData["file_processing_for"] = processing.String()
		}
	}

	if diag.Severity == domain.SeverityHealthy {
		diag.Message = fmt.Sprintf("channel step operating (status: %s)", step.Status)
	}

	return diag
}

// wait flags wait steps running past their planned trigger time.
func (v validators) wait(step domain.WorkflowStep, _ *domain.Execution, campaign *domain.Campaign, now time.Time) domain.StepDiagnostic {
	return v.delayedWait(step, campaign, now, "wait", domain.DiagnosticWaitStepMissed)
}

// dated flags dated-wait steps whose scheduled date has passed without the
// step triggering.
func (v validators) dated(step domain.WorkflowStep, _ *domain.Execution, campaign *domain.Campaign, now time.Time) domain.StepDiagnostic {
	return v.delayedWait(step, campaign, now, "dated wait", domain.DiagnosticExecutionDelayed)
}

func (v validators) delayedWait(step domain.WorkflowStep, campaign *domain.Campaign, now time.Time, kind string, diagType domain.DiagnosticType) domain.StepDiagnostic {
	diag := domain.NewStepDiagnostic(step, now)

	if stepFailed(&diag, step, kind) {
		return diag
	}

	if step.Status == "Completed" {
		diag.Message = fmt.Sprintf("%s step completed", kind)
		return diag
	}

	var scheduled *time.Time
	if campaign != nil {
		if cfg, ok := campaign.WorkflowConfiguration[step.SourceStepID]; ok {
			scheduled = cfg.ScheduledExecutionDate
		}
	}

	if step.Status == "Running" || step.Status == "InProgress" {
		if scheduled == nil {
			// Fail open: an unresolvable schedule must not hide the step.
			diag.Severity = domain.SeverityWarning
			diag.Message = fmt.Sprintf("%s step is running but its scheduled time could not be resolved from the campaign configuration", kind)
			return diag
		}

		delay := now.Sub(*scheduled)
		switch {
		case delay > v.thresholds.WaitGraceCritical:
			diag.Type = diagType
			diag.Severity = domain.SeverityCritical
			diag.Message = fmt.Sprintf("%s step scheduled for %s is still running, delayed by %s", kind, scheduled.UTC().Format(time.RFC3339), delay.Round(time.Second))
		case delay > v.thresholds.WaitGraceWarning:
			diag.Type = diagType
			diag.Severity = domain.SeverityWarning
			diag.Message = fmt.Sprintf("%s step scheduled for %s is still running, delayed by %s", kind, scheduled.UTC().Format(time.RFC3339), delay.Round(time.Second))
		default:
			diag.Message = fmt.Sprintf("%s step waiting for its scheduled time %s", kind, scheduled.UTC().Format(time.RFC3339))
		}
		diag.AdditionalData["scheduled_execution_date"] = *scheduled
		return diag
	}

	if step.Status == "Waiting" {
		diag.Message = fmt.Sprintf("%s step waiting on the previous step", kind)
		if scheduled != nil {
			diag.AdditionalData["scheduled_execution_date"] = *scheduled
		}
		return diag
	}

	diag.Message = fmt.Sprintf("%s step with status: %s", kind, step.Status)
	return diag
}

// decisionSplit has no state of its own beyond the common error rule.
func (v validators) decisionSplit(step domain.WorkflowStep, _ *domain.Execution, _ *domain.Campaign, now time.Time) domain.StepDiagnostic {
	diag := domain.NewStepDiagnostic(step, now)

	if stepFailed(&diag, step, "decision split") {
		return diag
	}

	diag.Message = "decision split step executed"
	return diag
}

// end cross-checks the terminal step's completion against the execution's
// overall status. An execution marked complete with an unfinished end step is
// the stronger mismatch.
func (v validators) end(step domain.WorkflowStep, execution *domain.Execution, _ *domain.Campaign, now time.Time) domain.StepDiagnostic {
	diag := domain.NewStepDiagnostic(step, now)

	if stepFailed(&diag, step, "end") {
		return diag
	}

	switch {
	case step.Status == "Completed" && execution.Status != "Completed":
		diag.Type = domain.DiagnosticIncompleteExecution
		diag.Severity = domain.SeverityWarning
		diag.Message = "end step completed but the execution is not marked as completed"
		diag.AdditionalData["execution_status"] = execution.Status
	case step.Status != "Completed" && execution.Status == "Completed":
		diag.Type = domain.DiagnosticIncompleteExecution
		diag.Severity = domain.SeverityError
		diag.Message = "execution marked as completed but the end step never finished"
		diag.AdditionalData["step_status"] = step.Status
	default:
		diag.Message = "end step consistent with the execution status"
	}

	return diag
}
