package domain

import "strings"

// CampaignType distinguishes campaigns that execute exactly once from
// campaigns that run on a repeating schedule.
type CampaignType int

const (
	CampaignTypeOneShot CampaignType = iota
	CampaignTypeRecurring
)

func (t CampaignType) String() string {
	switch t {
	case CampaignTypeOneShot:
		return "one_shot"
	case CampaignTypeRecurring:
		return "recurring"
	default:
		return "unknown"
	}
}

// CampaignStatus is the business lifecycle status reported by the source system.
type CampaignStatus int

const (
	CampaignStatusDraft     CampaignStatus = 0
	CampaignStatusCompleted CampaignStatus = 1
	CampaignStatusError     CampaignStatus = 3
	CampaignStatusExecuting CampaignStatus = 5
	CampaignStatusScheduled CampaignStatus = 7
	CampaignStatusCanceled  CampaignStatus = 8
	CampaignStatusCanceling CampaignStatus = 9
)

func (s CampaignStatus) String() string {
	switch s {
	case CampaignStatusDraft:
		return "draft"
	case CampaignStatusCompleted:
		return "completed"
	case CampaignStatusError:
		return "error"
	case CampaignStatusExecuting:
		return "executing"
	case CampaignStatusScheduled:
		return "scheduled"
	case CampaignStatusCanceled:
		return "canceled"
	case CampaignStatusCanceling:
		return "canceling"
	default:
		return "unknown"
	}
}

// MonitoringStatus is the watcher's own state for a campaign, distinct from
// the campaign's business lifecycle status.
type MonitoringStatus string

const (
	MonitoringPending                 MonitoringStatus = "pending"
	MonitoringInProgress              MonitoringStatus = "in_progress"
	MonitoringWaitingForNextExecution MonitoringStatus = "waiting_for_next_execution"
	MonitoringCompleted               MonitoringStatus = "completed"
	MonitoringFailed                  MonitoringStatus = "failed"
)

// Severity is the ordered health level of a diagnostic.
// Healthy < Warning < Error < Critical.
type Severity int

const (
	SeverityHealthy Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityHealthy:
		return "healthy"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// DiagnosticType classifies why a step or execution is unhealthy.
type DiagnosticType string

const (
	DiagnosticNone                 DiagnosticType = ""
	DiagnosticStepTimeout          DiagnosticType = "step_timeout"
	DiagnosticStepFailed           DiagnosticType = "step_failed"
	DiagnosticExecutionDelayed     DiagnosticType = "execution_delayed"
	DiagnosticMissingScheduler     DiagnosticType = "missing_scheduler"
	DiagnosticIncompleteExecution  DiagnosticType = "incomplete_execution"
	DiagnosticIntegrationError     DiagnosticType = "integration_error"
	DiagnosticWaitStepMissed       DiagnosticType = "wait_step_missed"
	DiagnosticFilterStuck          DiagnosticType = "filter_stuck"
	DiagnosticCampaignNotFinalized DiagnosticType = "campaign_not_finalized"
)

// StepType tags a workflow step with the validator that applies to it.
type StepType string

const (
	StepFilter        StepType = "filter"
	StepChannel       StepType = "channel"
	StepWait          StepType = "wait"
	StepDated         StepType = "dated"
	StepDecisionSplit StepType = "decision_split"
	StepEnd           StepType = "end"
)

// ParseStepType resolves the raw step type string reported by the source
// system. The second return is false when the type is not recognized.
func ParseStepType(raw string) (StepType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "filter":
		return StepFilter, true
	case "channel":
		return StepChannel, true
	case "wait":
		return StepWait, true
	case "dated", "datedwait", "dated_wait":
		return StepDated, true
	case "decisionsplit", "decision_split":
		return StepDecisionSplit, true
	case "end":
		return StepEnd, true
	default:
		return "", false
	}
}

// ChannelType identifies the messaging channel behind a channel step.
type ChannelType string

const (
	ChannelMail     ChannelType = "effective_mail"
	ChannelSMS      ChannelType = "effective_sms"
	ChannelPush     ChannelType = "effective_push"
	ChannelWhatsApp ChannelType = "effective_whatsapp"
	ChannelAPI      ChannelType = "effective_api"
)

// ParseChannelType resolves the channel name recorded in the step's
// execution data.
func ParseChannelType(raw string) (ChannelType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "effectivemail", "effective_mail":
		return ChannelMail, true
	case "effectivesms", "effective_sms":
		return ChannelSMS, true
	case "effectivepush", "effective_push":
		return ChannelPush, true
	case "effectivewhatsapp", "effective_whatsapp":
		return ChannelWhatsApp, true
	case "effectiveapi", "effective_api":
		return ChannelAPI, true
	default:
		return "", false
	}
}

// Terminal execution statuses as reported by the source system. Executions in
// any other status count as pending.
func IsTerminalExecutionStatus(status string) bool {
	switch status {
	case "Completed", "Error", "Canceled":
		return true
	default:
		return false
	}
}
