package readmodel

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// Mapper converts source snapshots into monitoring domain models, resolving
// channel integration data for channel steps along the way.
type Mapper struct {
	channels ChannelReader
	log      *zap.Logger
}

// NewMapper creates a snapshot mapper.
func NewMapper(channels ChannelReader, log *zap.Logger) *Mapper {
	return &Mapper{
		channels: channels,
		log:      log,
	}
}

// MapCampaign builds the monitoring campaign model for one tenant from the
// source snapshot. Monitoring-owned fields start zeroed; the processor merges
// them with the persisted record.
func (m *Mapper) MapCampaign(snapshot *CampaignSnapshot, tenantName string) *domain.Campaign {
	if snapshot == nil {
		return nil
	}

	campaign := &domain.Campaign{
		TenantName:     tenantName,
		SourceID:       snapshot.ID,
		NumberID:       snapshot.NumberID,
		Name:           snapshot.Name,
		ProjectID:      snapshot.ProjectID,
		CampaignType:   domain.CampaignType(snapshot.Type),
		StatusCampaign: domain.CampaignStatus(snapshot.Status),
		IsActive:       snapshot.IsActive,
		IsDeleted:      snapshot.IsDeleted,
		CreatedAt:      snapshot.CreatedAt,
		ModifiedAt:     snapshot.ModifiedAt,
		Scheduler: &domain.Scheduler{
			StartDateTime: snapshot.Scheduler.StartDateTime,
			EndDateTime:   snapshot.Scheduler.EndDateTime,
			IsRecurrent:   snapshot.Scheduler.IsRecurrent,
			Crontab:       snapshot.Scheduler.Crontab,
		},
		WorkflowConfiguration: make(map[string]domain.WorkflowStepConfig, len(snapshot.Workflow)),
		HealthStatus:          &domain.MonitoringHealthStatus{},
	}

	for _, cfg := range snapshot.Workflow {
		stepType, ok := domain.ParseStepType(cfg.Type)
		if !ok {
			continue
		}
		campaign.WorkflowConfiguration[cfg.StepID] = domain.WorkflowStepConfig{
			StepID:                 cfg.StepID,
			StepType:               stepType,
			ScheduledExecutionDate: cfg.ScheduledExecutionDate,
		}
	}

	return campaign
}

// MapExecution builds the monitoring execution model, deriving the duration
// and the initial error flag from the mapped steps.
func (m *Mapper) MapExecution(ctx context.Context, snapshot *ExecutionSnapshot, tenantName string) *domain.Execution {
	if snapshot == nil {
		return nil
	}

	execution := &domain.Execution{
		TenantName:        tenantName,
		SourceCampaignID:  snapshot.CampaignID,
		SourceExecutionID: snapshot.ExecutionID,
		CampaignName:      snapshot.CampaignName,
		Status:            snapshot.Status,
		StartDate:         snapshot.StartDate,
		EndDate:           snapshot.EndDate,
		Steps:             make([]domain.WorkflowStep, 0, len(snapshot.Workflow)),
	}

	if snapshot.StartDate != nil && snapshot.EndDate != nil {
		seconds := snapshot.EndDate.Sub(*snapshot.StartDate).Seconds()
		execution.TotalDurationInSeconds = &seconds
	}

	for _, raw := range snapshot.Workflow {
		stepType, ok := domain.ParseStepType(raw.Type)
		if !ok {
			m.log.Warn("unknown step type in execution",
				zap.String("execution_id", snapshot.ExecutionID),
				zap.String("step_type", raw.Type))
			// Kept so the dispatcher can report it instead of dropping it.
			execution.Steps = append(execution.Steps, domain.WorkflowStep{
				SourceStepID:       raw.ID,
				Name:               raw.Name,
				Type:               raw.Type,
				Status:             raw.Status,
				Error:              raw.Error,
				TotalUsers:         raw.TotalUsers,
				TotalExecutionTime: raw.TotalExecutionTime,
			})
			continue
		}

		step := m.mapStep(ctx, raw, stepType)
		execution.Steps = append(execution.Steps, step)
		if step.MonitoringNotes != "" || step.Error != "" {
			execution.HasMonitoringErrors = true
		}
	}

	return execution
}

func (m *Mapper) mapStep(ctx context.Context, raw StepSnapshot, stepType domain.StepType) domain.WorkflowStep {
	step := domain.WorkflowStep{
		SourceStepID:       raw.ID,
		Name:               raw.Name,
		Type:               string(stepType),
		Status:             raw.Status,
		Error:              raw.Error,
		TotalUsers:         raw.TotalUsers,
		TotalExecutionTime: raw.TotalExecutionTime,
	}

	if stepType != domain.StepChannel {
		return step
	}

	rawChannel, _ := raw.ExecutionData["channel_name"].(string)
	channelType, ok := domain.ParseChannelType(rawChannel)
	if !ok {
		step.MonitoringNotes = fmt.Sprintf("channel step with unresolvable channel name %q", rawChannel)
		return step
	}
	step.ChannelName = string(channelType)

	data, err := m.fetchChannelData(ctx, channelType, raw.ID)
	if err != nil {
		m.log.Warn("failed to fetch channel integration data",
			zap.String("step_id", raw.ID),
			zap.String("channel", string(channelType)),
			zap.Error(err))
		step.MonitoringNotes = fmt.Sprintf("failed to fetch integration data for channel %s", channelType)
		return step
	}
	step.IntegrationData = data

	return step
}

// fetchChannelData guards the channel read model call with a short timeout so
// one slow channel store cannot stall the whole mapping pass.
func (m *Mapper) fetchChannelData(ctx context.Context, channel domain.ChannelType, stepID string) (*domain.ChannelIntegrationData, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return m.channels.GetStepAggregate(fetchCtx, channel, stepID)
}
