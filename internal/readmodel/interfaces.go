package readmodel

import (
	"context"
	"time"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// CampaignSnapshot is the raw campaign document as the source system reports
// it, before mapping into the monitoring domain.
type CampaignSnapshot struct {
	ID          string    `bson:"_id"`
	NumberID    int64     `bson:"number_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	ProjectID   string    `bson:"project_id"`
	Status      int       `bson:"status"`
	Type        int       `bson:"type"`
	IsActive    bool      `bson:"is_active"`
	IsDeleted   bool      `bson:"is_deleted"`
	CreatedAt   time.Time `bson:"created_at"`
	ModifiedAt  time.Time `bson:"modified_at"`

	Scheduler SchedulerSnapshot    `bson:"scheduler"`
	Workflow  []StepConfigSnapshot `bson:"workflow,omitempty"`
}

// SchedulerSnapshot is the campaign's configured execution window.
type SchedulerSnapshot struct {
	StartDateTime time.Time  `bson:"start_date_time"`
	EndDateTime   *time.Time `bson:"end_date_time,omitempty"`
	IsRecurrent   bool       `bson:"is_recurrent"`
	Crontab       string     `bson:"crontab,omitempty"`
}

// StepConfigSnapshot is per-step scheduling metadata from the campaign
// definition, used to resolve planned trigger times for dated waits.
type StepConfigSnapshot struct {
	StepID                 string     `bson:"step_id"`
	Type                   string     `bson:"type"`
	ScheduledExecutionDate *time.Time `bson:"scheduled_execution_date,omitempty"`
}

// ExecutionSnapshot is one raw execution of a campaign's workflow.
type ExecutionSnapshot struct {
	ExecutionID  string         `bson:"_id"`
	CampaignID   string         `bson:"campaign_id"`
	CampaignName string         `bson:"campaign_name"`
	Status       string         `bson:"status"`
	StartDate    *time.Time     `bson:"start_date,omitempty"`
	EndDate      *time.Time     `bson:"end_date,omitempty"`
	Workflow     []StepSnapshot `bson:"workflow_execution"`
}

// StepSnapshot is one raw workflow step inside an execution.
type StepSnapshot struct {
	ID                 string         `bson:"_id"`
	Name               string         `bson:"name"`
	Type               string         `bson:"type"`
	Status             string         `bson:"status"`
	Error              string         `bson:"error,omitempty"`
	TotalUsers         int64          `bson:"total_users"`
	TotalExecutionTime int64          `bson:"total_execution_time"`
	ExecutionData      map[string]any `bson:"execution_data,omitempty"`
}

// CampaignReader supplies campaign and execution snapshots from the tenant's
// source system.
type CampaignReader interface {
	// GetCampaign returns nil without error when the campaign does not exist.
	GetCampaign(ctx context.Context, sourceID string) (*CampaignSnapshot, error)

	// ListExecutions returns the campaign's executions in source order.
	ListExecutions(ctx context.Context, sourceID string) ([]ExecutionSnapshot, error)

	// ListActiveCampaignIDs returns source ids of campaigns worth watching,
	// used by the discovery cycle.
	ListActiveCampaignIDs(ctx context.Context) ([]string, error)
}

// ChannelReader supplies the per-workflow-step send aggregate (integration
// status plus lead funnel counters) from the channel's analytics store.
type ChannelReader interface {
	// GetStepAggregate returns nil without error when the channel recorded
	// nothing for the step.
	GetStepAggregate(ctx context.Context, channel domain.ChannelType, stepID string) (*domain.ChannelIntegrationData, error)
}
