package diagnosis

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// CampaignAnalyzer rolls the executions of one campaign into a campaign-wide
// health verdict for the monitoring scheduler.
type CampaignAnalyzer struct {
	log *zap.Logger
}

// NewCampaignAnalyzer creates a campaign analyzer.
func NewCampaignAnalyzer(log *zap.Logger) *CampaignAnalyzer {
	return &CampaignAnalyzer{log: log}
}

// Analyze determines campaign-wide health from the campaign snapshot and its
// executions. Faults never escape: any internal failure is converted into an
// integration-error verdict so the campaign still gets rescheduled.
func (a *CampaignAnalyzer) Analyze(campaign *domain.Campaign, executions []*domain.Execution, now time.Time) (health domain.MonitoringHealthStatus) {
	health = domain.MonitoringHealthStatus{
		IsFullyVerified: true,
		LastMessage:     "campaign operating normally",
	}

	defer func() {
		if r := recover(); r != nil {
			a.log.Error("campaign health analysis failed",
				zap.String("campaign_id", campaign.SourceID),
				zap.Any("panic", r))
			health.HasIntegrationErrors = true
			health.LastMessage = fmt.Sprintf("health analysis failed: %v", r)
		}
	}()

	if len(executions) == 0 {
		health.LastMessage = a.noExecutionsMessage(campaign, &health)
		return health
	}

	for _, exec := range executions {
		if !domain.IsTerminalExecutionStatus(exec.Status) {
			health.HasPendingExecution = true
		}
		if exec.HasMonitoringErrors {
			health.HasIntegrationErrors = true
			// Ties broken by position: the most recent offender wins.
			health.LastExecutionWithIssueID = exec.SourceExecutionID
		}
	}

	if campaign.CampaignType == domain.CampaignTypeOneShot {
		health.LastMessage = a.oneShotMessage(campaign, executions, &health, now)
	} else {
		health.LastMessage = a.recurringMessage(campaign, executions, &health, now)
	}

	return health
}

// noExecutionsMessage covers campaigns the source reports no executions for.
// A one-shot campaign that is past Draft/Scheduled must have one, so its
// absence is itself an integration error.
func (a *CampaignAnalyzer) noExecutionsMessage(campaign *domain.Campaign, health *domain.MonitoringHealthStatus) string {
	if campaign.CampaignType == domain.CampaignTypeOneShot {
		switch campaign.StatusCampaign {
		case domain.CampaignStatusScheduled:
			return "one-shot campaign scheduled, awaiting first execution"
		case domain.CampaignStatusDraft:
			return "campaign in draft"
		default:
			health.HasIntegrationErrors = true
			return "campaign has no recorded executions"
		}
	}
	return "recurring campaign awaiting execution"
}

func (a *CampaignAnalyzer) oneShotMessage(campaign *domain.Campaign, executions []*domain.Execution, health *domain.MonitoringHealthStatus, now time.Time) string {
	// More than one execution for a one-shot campaign is an anomaly worth
	// surfacing, but never escalated past the message.
	if len(executions) > 1 {
		return fmt.Sprintf("one-shot campaign with %d executions (expected 1)", len(executions))
	}

	switch campaign.StatusCampaign {
	case domain.CampaignStatusCompleted:
		if health.HasIntegrationErrors {
			return "campaign completed with integration issues detected"
		}
		return "one-shot campaign executed successfully"
	case domain.CampaignStatusExecuting:
		if health.HasIntegrationErrors {
			return "campaign executing with errors detected"
		}
		return "one-shot campaign executing"
	case domain.CampaignStatusError:
		return "one-shot campaign failed during execution"
	case domain.CampaignStatusScheduled:
		if campaign.Scheduler != nil && campaign.Scheduler.StartDateTime.After(now) {
			return fmt.Sprintf("campaign scheduled for %s", campaign.Scheduler.StartDateTime.UTC().Format(time.RFC3339))
		}
		return "campaign scheduled"
	default:
		return fmt.Sprintf("one-shot campaign, status: %s", campaign.StatusCampaign)
	}
}

func (a *CampaignAnalyzer) recurringMessage(campaign *domain.Campaign, executions []*domain.Execution, health *domain.MonitoringHealthStatus, now time.Time) string {
	completed := 0
	failed := 0
	inProgress := 0
	for _, exec := range executions {
		switch {
		case exec.Status == "Completed":
			completed++
		case exec.Status == "Error":
			failed++
		case !domain.IsTerminalExecutionStatus(exec.Status):
			inProgress++
		}
	}

	if inProgress > 0 {
		if health.HasIntegrationErrors {
			return fmt.Sprintf("recurring campaign has an execution in progress with errors, total executions: %d", len(executions))
		}
		return fmt.Sprintf("recurring campaign has an execution in progress, total executions: %d", len(executions))
	}

	if health.HasIntegrationErrors {
		return fmt.Sprintf("recurring campaign with issues detected, executions: %d completed, %d failed", completed, failed)
	}

	if s := campaign.Scheduler; s != nil {
		if now.Before(s.StartDateTime) {
			return fmt.Sprintf("recurring campaign waiting to start at %s", s.StartDateTime.UTC().Format(time.RFC3339))
		}
		if s.EndDateTime != nil && now.After(*s.EndDateTime) {
			return fmt.Sprintf("recurring campaign finished, total executions: %d", len(executions))
		}
	}

	return fmt.Sprintf("recurring campaign active, executions: %d completed, %d failed", completed, failed)
}
