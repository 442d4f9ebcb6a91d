package diagnosis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func startedAt(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func TestFilterValidator_CompletedStepHealthy(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Filter", Status: "Completed"}
	execution := &domain.Execution{StartDate: startedAt(2 * time.Hour)}

	diag := v.filter(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.Severity)
}

func TestFilterValidator_WarningThreshold(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Filter", Status: "Running"}
	execution := &domain.Execution{StartDate: startedAt(15 * time.Minute)}

	diag := v.filter(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityWarning, diag.Severity)
	assert.Equal(t, domain.DiagnosticFilterStuck, diag.Type)
}

func TestFilterValidator_CriticalThreshold(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Filter", Status: "Running"}
	execution := &domain.Execution{StartDate: startedAt(45 * time.Minute)}

	diag := v.filter(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityCritical, diag.Severity)
	assert.Equal(t, domain.DiagnosticFilterStuck, diag.Type)
}

func TestFilterValidator_UnderWarningThresholdHealthy(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Filter", Status: "Running"}
	execution := &domain.Execution{StartDate: startedAt(5 * time.Minute)}

	diag := v.filter(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.Severity)
}

func TestFilterValidator_NoStartDateHealthy(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Filter", Status: "Running"}
	execution := &domain.Execution{}

	diag := v.filter(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.Severity)
}

func TestFilterValidator_ExplicitErrorDominates(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s1", Type: "Filter", Status: "Running", Error: "segment query failed"}
	execution := &domain.Execution{StartDate: startedAt(45 * time.Minute)}

	diag := v.filter(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityError, diag.Severity)
	assert.Equal(t, domain.DiagnosticStepFailed, diag.Type)
	assert.Equal(t, "segment query failed", diag.AdditionalData["original_error"])
}

func TestChannelValidator_MissingIntegrationDataWarning(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s2", Type: "Channel", Status: "Completed"}

	diag := v.channel(step, nil, nil, testNow)

	assert.Equal(t, domain.SeverityWarning, diag.Severity)
}

func TestChannelValidator_MonitoringNotesEscalateToError(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{
		SourceStepID:    "s2",
		Type:            "Channel",
		Status:          "Completed",
		ChannelName:     "bogus",
		MonitoringNotes: "unknown channel: bogus",
	}

	diag := v.channel(step, nil, nil, testNow)

	assert.Equal(t, domain.SeverityError, diag.Severity)
	assert.Equal(t, domain.DiagnosticIntegrationError, diag.Type)
}

func TestChannelValidator_IntegrationErrorStatus(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{
		SourceStepID: "s2",
		Type:         "Channel",
		Status:       "Completed",
		IntegrationData: &domain.ChannelIntegrationData{
			ChannelName:       "effective_mail",
			IntegrationStatus: "Error",
		},
	}

	diag := v.channel(step, nil, nil, testNow)

	assert.Equal(t, domain.SeverityError, diag.Severity)
	assert.Equal(t, domain.DiagnosticIntegrationError, diag.Type)
}

func TestChannelValidator_ErrorRateBands(t *testing.T) {
	tests := []struct {
		name     string
		success  int64
		errors   int64
		expected domain.Severity
	}{
		{"low error rate healthy", 95, 5, domain.SeverityHealthy},
		{"above warning band", 70, 30, domain.SeverityWarning},
		{"above critical band", 40, 60, domain.SeverityCritical},
	}

	v := validators{thresholds: DefaultThresholds()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := domain.WorkflowStep{
				SourceStepID: "s2",
				Type:         "Channel",
				Status:       "Completed",
				IntegrationData: &domain.ChannelIntegrationData{
					ChannelName:       "effective_mail",
					IntegrationStatus: "Success",
					Leads:             &domain.LeadFunnel{Success: tt.success, Error: tt.errors},
				},
			}

			diag := v.channel(step, nil, nil, testNow)

			assert.Equal(t, tt.expected, diag.Severity)
		})
	}
}

func TestChannelValidator_ExactThresholdDoesNotTrigger(t *testing.T) {
	// Bands are strict: exactly 20% stays healthy, exactly 50% stays warning.
	v := validators{thresholds: DefaultThresholds()}

	step := domain.WorkflowStep{
		SourceStepID: "s2",
		Type:         "Channel",
		Status:       "Completed",
		IntegrationData: &domain.ChannelIntegrationData{
			ChannelName:       "effective_mail",
			IntegrationStatus: "Success",
			Leads:             &domain.LeadFunnel{Success: 80, Error: 20},
		},
	}
	diag := v.channel(step, nil, nil, testNow)
	assert.Equal(t, domain.SeverityHealthy, diag.Severity)

	step.IntegrationData.Leads = &domain.LeadFunnel{Success: 50, Error: 50}
	diag = v.channel(step, nil, nil, testNow)
	assert.Equal(t, domain.SeverityWarning, diag.Severity)
}

func TestChannelValidator_ZeroLeadsNoRateCheck(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{
		SourceStepID: "s2",
		Type:         "Channel",
		Status:       "Completed",
		IntegrationData: &domain.ChannelIntegrationData{
			ChannelName:       "effective_mail",
			IntegrationStatus: "Success",
			Leads:             &domain.LeadFunnel{},
		},
	}

	diag := v.channel(step, nil, nil, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.Severity)
}

func TestChannelValidator_SlowFileProcessing(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{
		SourceStepID: "s2",
		Type:         "Channel",
		Status:       "Running",
		IntegrationData: &domain.ChannelIntegrationData{
			ChannelName:       "effective_mail",
			IntegrationStatus: "Success",
			File:              &domain.FileTransfer{Name: "leads.csv", StartedAt: startedAt(2 * time.Hour)},
		},
	}

	diag := v.channel(step, nil, nil, testNow)

	assert.Equal(t, domain.SeverityWarning, diag.Severity)
	assert.Equal(t, domain.DiagnosticIntegrationError, diag.Type)
}

func TestChannelValidator_FileCheckNeverDowngrades(t *testing.T) {
	// A critical error-rate verdict must survive a concurrent slow file.
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{
		SourceStepID: "s2",
		Type:         "Channel",
		Status:       "Running",
		IntegrationData: &domain.ChannelIntegrationData{
			ChannelName:       "effective_mail",
			IntegrationStatus: "Success",
			Leads:             &domain.LeadFunnel{Success: 40, Error: 60},
			File:              &domain.FileTransfer{Name: "leads.csv", StartedAt: startedAt(2 * time.Hour)},
		},
	}

	diag := v.channel(step, nil, nil, testNow)

	assert.Equal(t, domain.SeverityCritical, diag.Severity)
}

func TestChannelValidator_FinishedFileNotFlagged(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	finished := testNow.Add(-90 * time.Minute)
	step := domain.WorkflowStep{
		SourceStepID: "s2",
		Type:         "Channel",
		Status:       "Completed",
		IntegrationData: &domain.ChannelIntegrationData{
			ChannelName:       "effective_mail",
			IntegrationStatus: "Success",
			File:              &domain.FileTransfer{Name: "leads.csv", StartedAt: startedAt(3 * time.Hour), FinishedAt: &finished},
		},
	}

	diag := v.channel(step, nil, nil, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.Severity)
}

func waitCampaign(stepID string, scheduled time.Time) *domain.Campaign {
	return &domain.Campaign{
		WorkflowConfiguration: map[string]domain.WorkflowStepConfig{
			stepID: {StepID: stepID, StepType: domain.StepWait, ScheduledExecutionDate: &scheduled},
		},
	}
}

func TestWaitValidator_WithinGraceHealthy(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s3", Type: "Wait", Status: "Running"}
	campaign := waitCampaign("s3", testNow.Add(-2*time.Minute))

	diag := v.wait(step, nil, campaign, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.Severity)
}

func TestWaitValidator_PastWarningGrace(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s3", Type: "Wait", Status: "Running"}
	campaign := waitCampaign("s3", testNow.Add(-7*time.Minute))

	diag := v.wait(step, nil, campaign, testNow)

	assert.Equal(t, domain.SeverityWarning, diag.Severity)
	assert.Equal(t, domain.DiagnosticWaitStepMissed, diag.Type)
}

func TestWaitValidator_PastCriticalGrace(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s3", Type: "Wait", Status: "Running"}
	campaign := waitCampaign("s3", testNow.Add(-20*time.Minute))

	diag := v.wait(step, nil, campaign, testNow)

	assert.Equal(t, domain.SeverityCritical, diag.Severity)
	assert.Equal(t, domain.DiagnosticWaitStepMissed, diag.Type)
}

func TestWaitValidator_UnresolvableScheduleFailsOpen(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s3", Type: "Wait", Status: "Running"}
	campaign := &domain.Campaign{WorkflowConfiguration: map[string]domain.WorkflowStepConfig{}}

	diag := v.wait(step, nil, campaign, testNow)

	assert.Equal(t, domain.SeverityWarning, diag.Severity)
}

func TestWaitValidator_WaitingStatusHealthy(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s3", Type: "Wait", Status: "Waiting"}
	campaign := waitCampaign("s3", testNow.Add(-20*time.Minute))

	diag := v.wait(step, nil, campaign, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.Severity)
}

func TestDatedValidator_DelayReportsExecutionDelayed(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s4", Type: "Dated", Status: "Running"}
	scheduled := testNow.Add(-20 * time.Minute)
	campaign := &domain.Campaign{
		WorkflowConfiguration: map[string]domain.WorkflowStepConfig{
			"s4": {StepID: "s4", StepType: domain.StepDated, ScheduledExecutionDate: &scheduled},
		},
	}

	diag := v.dated(step, nil, campaign, testNow)

	assert.Equal(t, domain.SeverityCritical, diag.Severity)
	assert.Equal(t, domain.DiagnosticExecutionDelayed, diag.Type)
}

func TestEndValidator_StepDoneExecutionNot(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s5", Type: "End", Status: "Completed"}
	execution := &domain.Execution{Status: "InProgress"}

	diag := v.end(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityWarning, diag.Severity)
	assert.Equal(t, domain.DiagnosticIncompleteExecution, diag.Type)
}

func TestEndValidator_ExecutionDoneStepNot(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s5", Type: "End", Status: "Running"}
	execution := &domain.Execution{Status: "Completed"}

	diag := v.end(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityError, diag.Severity)
	assert.Equal(t, domain.DiagnosticIncompleteExecution, diag.Type)
}

func TestEndValidator_Consistent(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}
	step := domain.WorkflowStep{SourceStepID: "s5", Type: "End", Status: "Completed"}
	execution := &domain.Execution{Status: "Completed"}

	diag := v.end(step, execution, nil, testNow)

	assert.Equal(t, domain.SeverityHealthy, diag.Severity)
}

func TestDecisionSplitValidator_OnlyErrorRule(t *testing.T) {
	v := validators{thresholds: DefaultThresholds()}

	healthy := v.decisionSplit(domain.WorkflowStep{SourceStepID: "s6", Status: "Running"}, nil, nil, testNow)
	assert.Equal(t, domain.SeverityHealthy, healthy.Severity)

	failed := v.decisionSplit(domain.WorkflowStep{SourceStepID: "s6", Error: "branch eval failed"}, nil, nil, testNow)
	assert.Equal(t, domain.SeverityError, failed.Severity)
	assert.Equal(t, domain.DiagnosticStepFailed, failed.Type)
}
