package watch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/alert"
	"github.com/RodriigoSC/campaign-watch-worker/internal/diagnosis"
	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
	"github.com/RodriigoSC/campaign-watch-worker/internal/readmodel"
	"github.com/RodriigoSC/campaign-watch-worker/internal/repository"
	"github.com/RodriigoSC/campaign-watch-worker/internal/schedule"
)

// ReaderProvider resolves the campaign read model for a tenant.
type ReaderProvider interface {
	ForTenant(tenant *domain.Tenant) (readmodel.CampaignReader, error)
}

// Processor runs one full monitoring cycle per campaign: fetch, map, diagnose,
// alert, schedule the next check, persist.
type Processor struct {
	campaigns  repository.CampaignStore
	executions repository.ExecutionStore
	tenants    repository.TenantStore
	readers    ReaderProvider
	mapper     *readmodel.Mapper

	executionAnalyzer *diagnosis.ExecutionAnalyzer
	campaignAnalyzer  *diagnosis.CampaignAnalyzer
	alerts            *alert.Orchestrator
	intervals         schedule.Intervals

	log *zap.Logger
}

// NewProcessor wires the monitoring cycle together.
func NewProcessor(
	campaigns repository.CampaignStore,
	executions repository.ExecutionStore,
	tenants repository.TenantStore,
	readers ReaderProvider,
	mapper *readmodel.Mapper,
	executionAnalyzer *diagnosis.ExecutionAnalyzer,
	campaignAnalyzer *diagnosis.CampaignAnalyzer,
	alerts *alert.Orchestrator,
	intervals schedule.Intervals,
	log *zap.Logger,
) *Processor {
	return &Processor{
		campaigns:         campaigns,
		executions:        executions,
		tenants:           tenants,
		readers:           readers,
		mapper:            mapper,
		executionAnalyzer: executionAnalyzer,
		campaignAnalyzer:  campaignAnalyzer,
		alerts:            alerts,
		intervals:         intervals,
		log:               log,
	}
}

// ProcessByName resolves the tenant by name and runs the monitoring cycle.
// Used by the queue pipeline, whose messages carry tenant names.
func (p *Processor) ProcessByName(ctx context.Context, tenantName, campaignID string) error {
	tenant, err := p.resolveTenant(ctx, tenantName)
	if err != nil {
		return err
	}
	return p.ProcessCampaign(ctx, tenant, campaignID)
}

// ProcessCampaign runs one monitoring cycle for the campaign. Failures that
// prevent diagnosis mark the campaign failed and schedule a short retry
// instead of leaving it stale.
func (p *Processor) ProcessCampaign(ctx context.Context, tenant *domain.Tenant, campaignID string) error {
	now := time.Now().UTC()
	log := p.log.With(
		zap.String("tenant", tenant.Name),
		zap.String("campaign_id", campaignID))

	reader, err := p.readers.ForTenant(tenant)
	if err != nil {
		return p.markFailed(ctx, tenant.Name, campaignID, now, err)
	}

	snapshot, err := reader.GetCampaign(ctx, campaignID)
	if err != nil {
		return p.markFailed(ctx, tenant.Name, campaignID, now,
			fmt.Errorf("failed to fetch campaign from source: %w", err))
	}
	if snapshot == nil {
		log.Warn("Campaign no longer exists at source, skipping")
		return nil
	}

	campaign := p.mapper.MapCampaign(snapshot, tenant.Name)
	p.mergeTracked(ctx, campaign)

	campaign.MonitoringStatus = domain.MonitoringInProgress
	campaign.LastCheckMonitoring = &now
	if err := p.campaigns.Upsert(ctx, campaign); err != nil {
		return fmt.Errorf("failed to persist campaign %s: %w", campaignID, err)
	}

	executionSnapshots, err := reader.ListExecutions(ctx, campaignID)
	if err != nil {
		return p.markFailed(ctx, tenant.Name, campaignID, now,
			fmt.Errorf("failed to fetch executions from source: %w", err))
	}

	executions := p.processExecutions(ctx, tenant, campaign, executionSnapshots, now)

	health := p.campaignAnalyzer.Analyze(campaign, executions, now)
	campaign.HealthStatus = &health

	status, next := schedule.NextCheck(campaign, p.intervals, now)
	campaign.MonitoringStatus = status
	campaign.NextExecutionMonitoring = next

	if err := p.campaigns.Upsert(ctx, campaign); err != nil {
		return fmt.Errorf("failed to persist campaign %s: %w", campaignID, err)
	}

	log.Info("Monitoring cycle completed",
		zap.String("monitoring_status", string(status)),
		zap.Int("executions", campaign.TotalExecutionsProcessed),
		zap.Int("executions_with_errors", campaign.ExecutionsWithErrors),
		zap.Timep("next_check", next))

	return nil
}

// processExecutions maps, diagnoses, persists, and alerts on each execution.
// One bad execution never blocks the rest of the cycle.
func (p *Processor) processExecutions(
	ctx context.Context,
	tenant *domain.Tenant,
	campaign *domain.Campaign,
	snapshots []readmodel.ExecutionSnapshot,
	now time.Time,
) []*domain.Execution {
	executions := make([]*domain.Execution, 0, len(snapshots))
	campaign.TotalExecutionsProcessed = 0
	campaign.ExecutionsWithErrors = 0

	var tenantID *string
	if tenant.ID != "" {
		tenantID = &tenant.ID
	}

	for i := range snapshots {
		execution := p.mapper.MapExecution(ctx, &snapshots[i], tenant.Name)

		diag := p.executionAnalyzer.Analyze(execution, campaign, now)
		if diag.OverallHealth >= domain.SeverityError {
			execution.HasMonitoringErrors = true
		}

		campaign.TotalExecutionsProcessed++
		if execution.HasMonitoringErrors {
			campaign.ExecutionsWithErrors++
		}

		if err := p.executions.Upsert(ctx, execution); err != nil {
			p.log.Error("Failed to persist execution",
				zap.String("tenant", tenant.Name),
				zap.String("campaign_id", campaign.SourceID),
				zap.String("execution_id", execution.SourceExecutionID),
				zap.Error(err))
		}

		if err := p.alerts.ProcessAlerts(ctx, tenantID, campaign, &diag); err != nil {
			p.log.Error("Failed to process alerts for execution",
				zap.String("tenant", tenant.Name),
				zap.String("campaign_id", campaign.SourceID),
				zap.String("execution_id", execution.SourceExecutionID),
				zap.Error(err))
		}

		executions = append(executions, execution)
	}

	return executions
}

// mergeTracked carries persisted monitoring state into the freshly mapped
// campaign so an interrupted cycle resumes from the last known state.
func (p *Processor) mergeTracked(ctx context.Context, campaign *domain.Campaign) {
	tracked, err := p.campaigns.Get(ctx, campaign.TenantName, campaign.SourceID)
	if err != nil {
		p.log.Warn("Failed to load tracked campaign state",
			zap.String("tenant", campaign.TenantName),
			zap.String("campaign_id", campaign.SourceID),
			zap.Error(err))
		return
	}
	if tracked == nil {
		return
	}

	campaign.MonitoringStatus = tracked.MonitoringStatus
	campaign.NextExecutionMonitoring = tracked.NextExecutionMonitoring
	campaign.LastCheckMonitoring = tracked.LastCheckMonitoring
	campaign.TotalExecutionsProcessed = tracked.TotalExecutionsProcessed
	campaign.ExecutionsWithErrors = tracked.ExecutionsWithErrors
	campaign.CreatedAt = tracked.CreatedAt
	campaign.FirstMonitoringAt = tracked.FirstMonitoringAt
}

// markFailed records a cycle the worker could not complete. The campaign is
// flagged failed and retried on the error cadence so transient source
// failures self-heal.
func (p *Processor) markFailed(ctx context.Context, tenantName, campaignID string, now time.Time, cause error) error {
	p.log.Error("Monitoring cycle failed",
		zap.String("tenant", tenantName),
		zap.String("campaign_id", campaignID),
		zap.Error(cause))

	campaign, err := p.campaigns.Get(ctx, tenantName, campaignID)
	if err != nil || campaign == nil {
		return cause
	}

	retry := now.Add(p.intervals.Error)
	campaign.MonitoringStatus = domain.MonitoringFailed
	campaign.NextExecutionMonitoring = &retry
	campaign.LastCheckMonitoring = &now
	if campaign.HealthStatus == nil {
		campaign.HealthStatus = &domain.MonitoringHealthStatus{}
	}
	campaign.HealthStatus.HasIntegrationErrors = true
	campaign.HealthStatus.LastMessage = fmt.Sprintf("monitoring cycle failed: %v", cause)

	if err := p.campaigns.Upsert(ctx, campaign); err != nil {
		p.log.Error("Failed to persist failed campaign state",
			zap.String("tenant", tenantName),
			zap.String("campaign_id", campaignID),
			zap.Error(err))
	}
	return cause
}

func (p *Processor) resolveTenant(ctx context.Context, name string) (*domain.Tenant, error) {
	tenants, err := p.tenants.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tenant %s: %w", name, err)
	}
	for i := range tenants {
		if tenants[i].Name == name {
			return &tenants[i], nil
		}
	}
	return nil, fmt.Errorf("tenant %s is not active or does not exist", name)
}
