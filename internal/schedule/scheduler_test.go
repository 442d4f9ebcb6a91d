package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func activeCampaign(kind domain.CampaignType, status domain.CampaignStatus) *domain.Campaign {
	return &domain.Campaign{
		SourceID:       "c1",
		CampaignType:   kind,
		StatusCampaign: status,
		IsActive:       true,
		HealthStatus:   &domain.MonitoringHealthStatus{},
	}
}

func TestNextCheck_InactiveCampaignConcludes(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusExecuting)
	campaign.IsActive = false

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringCompleted, status)
	assert.Nil(t, next)
}

func TestNextCheck_DeletedCampaignConcludes(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeRecurring, domain.CampaignStatusExecuting)
	campaign.IsDeleted = true

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringCompleted, status)
	assert.Nil(t, next)
}

func TestNextCheck_IntegrationErrorsDominateEverything(t *testing.T) {
	// The error rule outranks every status-specific branch, including states
	// that would otherwise conclude monitoring.
	statuses := []domain.CampaignStatus{
		domain.CampaignStatusDraft,
		domain.CampaignStatusCompleted,
		domain.CampaignStatusError,
		domain.CampaignStatusExecuting,
		domain.CampaignStatusScheduled,
		domain.CampaignStatusCanceled,
	}

	for _, s := range statuses {
		for _, kind := range []domain.CampaignType{domain.CampaignTypeOneShot, domain.CampaignTypeRecurring} {
			campaign := activeCampaign(kind, s)
			campaign.HealthStatus.HasIntegrationErrors = true

			status, next := NextCheck(campaign, DefaultIntervals(), testNow)

			assert.Equal(t, domain.MonitoringFailed, status)
			require.NotNil(t, next)
			assert.Equal(t, testNow.Add(5*time.Minute), *next)
		}
	}
}

func TestNextCheck_OneShotCompletedConcludes(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusCompleted)

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringCompleted, status)
	assert.Nil(t, next)
}

func TestNextCheck_OneShotCompletedWithPendingExecutionKeepsWatching(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusCompleted)
	campaign.HealthStatus.HasPendingExecution = true

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringInProgress, status)
	require.NotNil(t, next)
	assert.Equal(t, testNow.Add(10*time.Minute), *next)
}

func TestNextCheck_OneShotScheduledFutureWakesBeforeStart(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusScheduled)
	start := testNow.Add(2 * time.Hour)
	campaign.Scheduler = &domain.Scheduler{StartDateTime: start}

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringWaitingForNextExecution, status)
	require.NotNil(t, next)
	assert.Equal(t, start.Add(-5*time.Minute), *next)
}

func TestNextCheck_OneShotScheduledPastStartChecksSoon(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusScheduled)
	campaign.Scheduler = &domain.Scheduler{StartDateTime: testNow.Add(-time.Hour)}

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringInProgress, status)
	require.NotNil(t, next)
	assert.Equal(t, testNow.Add(10*time.Minute), *next)
}

func TestNextCheck_OneShotExecuting(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusExecuting)

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringInProgress, status)
	require.NotNil(t, next)
}

func TestNextCheck_OneShotErrorStatusConcludesAsFailed(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusError)

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringFailed, status)
	assert.Nil(t, next)
}

func TestNextCheck_OneShotDraftConcludes(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusDraft)

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringCompleted, status)
	assert.Nil(t, next)
}

func TestNextCheck_RecurringWindowElapsedConcludes(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeRecurring, domain.CampaignStatusExecuting)
	end := testNow.Add(-time.Hour)
	campaign.Scheduler = &domain.Scheduler{
		StartDateTime: testNow.Add(-30 * 24 * time.Hour),
		EndDateTime:   &end,
	}

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringCompleted, status)
	assert.Nil(t, next)
}

func TestNextCheck_RecurringPendingExecution(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeRecurring, domain.CampaignStatusExecuting)
	campaign.HealthStatus.HasPendingExecution = true

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringInProgress, status)
	require.NotNil(t, next)
	assert.Equal(t, testNow.Add(10*time.Minute), *next)
}

func TestNextCheck_RecurringFutureStartWakesBeforeStart(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeRecurring, domain.CampaignStatusScheduled)
	start := testNow.Add(3 * time.Hour)
	campaign.Scheduler = &domain.Scheduler{StartDateTime: start}

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringWaitingForNextExecution, status)
	require.NotNil(t, next)
	assert.Equal(t, start.Add(-5*time.Minute), *next)
}

func TestNextCheck_RecurringSteadyState(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeRecurring, domain.CampaignStatusScheduled)
	campaign.Scheduler = &domain.Scheduler{StartDateTime: testNow.Add(-24 * time.Hour)}

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringWaitingForNextExecution, status)
	require.NotNil(t, next)
	assert.Equal(t, testNow.Add(time.Hour), *next)
}

func TestNextCheck_UnknownCampaignTypeFallsBack(t *testing.T) {
	campaign := activeCampaign(domain.CampaignType(42), domain.CampaignStatusExecuting)

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringPending, status)
	require.NotNil(t, next)
	assert.Equal(t, testNow.Add(30*time.Minute), *next)
}

func TestNextCheck_NilHealthStatusTreatedAsClean(t *testing.T) {
	campaign := activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusCompleted)
	campaign.HealthStatus = nil

	status, next := NextCheck(campaign, DefaultIntervals(), testNow)

	assert.Equal(t, domain.MonitoringCompleted, status)
	assert.Nil(t, next)
}

func TestNextCheck_NilTimestampOnlyOnConcludedStates(t *testing.T) {
	// A nil next check must always coincide with a terminal monitoring
	// status, never strand an active campaign.
	cases := []*domain.Campaign{
		activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusDraft),
		activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusCompleted),
		activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusError),
		activeCampaign(domain.CampaignTypeOneShot, domain.CampaignStatusExecuting),
		activeCampaign(domain.CampaignTypeRecurring, domain.CampaignStatusExecuting),
		activeCampaign(domain.CampaignTypeRecurring, domain.CampaignStatusScheduled),
	}

	for _, campaign := range cases {
		status, next := NextCheck(campaign, DefaultIntervals(), testNow)
		if next == nil {
			assert.Contains(t, []domain.MonitoringStatus{domain.MonitoringCompleted, domain.MonitoringFailed}, status,
				"nil next check with non-terminal status %s", status)
		}
	}
}
