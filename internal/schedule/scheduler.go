// Package schedule decides when a campaign is looked at next. NextCheck is a
// pure function of the campaign snapshot and the clock; callers persist its
// result and the polling loop picks campaigns back up when the time comes.
package schedule

import (
	"time"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// Intervals are the re-check cadences. They are tunables, not contracts,
// except that the error interval must stay the shortest one.
type Intervals struct {
	Error        time.Duration // re-check after integration errors
	InProgress   time.Duration // campaign executing or pending execution
	PreStart     time.Duration // lead time before a scheduled start
	SteadyState  time.Duration // healthy recurring campaign between executions
	DefaultRetry time.Duration // defensive fallback
}

// DefaultIntervals returns the standard cadences.
func DefaultIntervals() Intervals {
	return Intervals{
		Error:        5 * time.Minute,
		InProgress:   10 * time.Minute,
		PreStart:     5 * time.Minute,
		SteadyState:  time.Hour,
		DefaultRetry: 30 * time.Minute,
	}
}

// NextCheck maps (campaign state, health verdict) to the campaign's monitoring
// status and next re-check time. A nil timestamp means monitoring has
// permanently concluded. Rules are priority ordered and the first match wins;
// in particular the integration-error rule dominates every status-specific
// branch so error states are never parked on a slow cadence.
func NextCheck(campaign *domain.Campaign, intervals Intervals, now time.Time) (domain.MonitoringStatus, *time.Time) {
	// Rule 1: inactive or deleted campaigns are never checked again.
	if !campaign.IsActive || campaign.IsDeleted {
		return domain.MonitoringCompleted, nil
	}

	health := campaign.HealthStatus
	if health == nil {
		health = &domain.MonitoringHealthStatus{}
	}

	// Rule 2: error states are always re-checked soon.
	if health.HasIntegrationErrors {
		return domain.MonitoringFailed, at(now.Add(intervals.Error))
	}

	if campaign.CampaignType == domain.CampaignTypeOneShot {
		return nextCheckOneShot(campaign, health, intervals, now)
	}
	if campaign.CampaignType == domain.CampaignTypeRecurring {
		return nextCheckRecurring(campaign, health, intervals, now)
	}

	// Rule 12: defensive default for an unknown campaign type.
	return domain.MonitoringPending, at(now.Add(intervals.DefaultRetry))
}

func nextCheckOneShot(campaign *domain.Campaign, health *domain.MonitoringHealthStatus, intervals Intervals, now time.Time) (domain.MonitoringStatus, *time.Time) {
	// Rule 3: completed one-shot campaigns stop once nothing is pending.
	if campaign.StatusCampaign == domain.CampaignStatusCompleted {
		if health.HasPendingExecution {
			return domain.MonitoringInProgress, at(now.Add(intervals.InProgress))
		}
		return domain.MonitoringCompleted, nil
	}

	// Rule 4: scheduled for the future, wake up shortly before the start.
	if campaign.StatusCampaign == domain.CampaignStatusScheduled &&
		campaign.Scheduler != nil && campaign.Scheduler.StartDateTime.After(now) {
		return domain.MonitoringWaitingForNextExecution, at(campaign.Scheduler.StartDateTime.Add(-intervals.PreStart))
	}

	// Rule 5: executing, or scheduled but already past its start.
	if campaign.StatusCampaign == domain.CampaignStatusExecuting ||
		campaign.StatusCampaign == domain.CampaignStatusScheduled {
		return domain.MonitoringInProgress, at(now.Add(intervals.InProgress))
	}

	// Rule 6: a terminally failed one-shot campaign is not worth polling.
	if campaign.StatusCampaign == domain.CampaignStatusError {
		return domain.MonitoringFailed, nil
	}

	// Rule 7: anything else (draft, canceled) has nothing left to watch.
	return domain.MonitoringCompleted, nil
}

func nextCheckRecurring(campaign *domain.Campaign, health *domain.MonitoringHealthStatus, intervals Intervals, now time.Time) (domain.MonitoringStatus, *time.Time) {
	// Rule 8: recurrence window elapsed.
	if campaign.Scheduler != nil && campaign.Scheduler.EndDateTime != nil &&
		now.After(*campaign.Scheduler.EndDateTime) {
		return domain.MonitoringCompleted, nil
	}

	// Rule 9: an execution is running or overdue.
	if health.HasPendingExecution {
		return domain.MonitoringInProgress, at(now.Add(intervals.InProgress))
	}

	// Rule 10: window not started yet, wake up shortly before.
	if campaign.Scheduler != nil && campaign.Scheduler.StartDateTime.After(now) {
		return domain.MonitoringWaitingForNextExecution, at(campaign.Scheduler.StartDateTime.Add(-intervals.PreStart))
	}

	// Rule 11: steady state between executions.
	return domain.MonitoringWaitingForNextExecution, at(now.Add(intervals.SteadyState))
}

func at(t time.Time) *time.Time {
	return &t
}
