package domain

import "time"

// Campaign is the monitoring-side snapshot of a marketing campaign. The sync
// layer owns the source fields; the watcher computes and writes back the
// derived monitoring fields (HealthStatus, MonitoringStatus,
// NextExecutionMonitoring, counters).
type Campaign struct {
	TenantName string `bson:"tenant_name"`
	SourceID   string `bson:"source_id"`
	NumberID   int64  `bson:"number_id"`
	Name       string `bson:"name"`
	ProjectID  string `bson:"project_id"`

	CampaignType   CampaignType   `bson:"campaign_type"`
	StatusCampaign CampaignStatus `bson:"status_campaign"`
	IsActive       bool           `bson:"is_active"`
	IsDeleted      bool           `bson:"is_deleted"`

	Scheduler *Scheduler `bson:"scheduler,omitempty"`

	// WorkflowConfiguration carries per-step scheduling metadata resolved from
	// the campaign definition, keyed by source step id. Not persisted; rebuilt
	// from the snapshot on every cycle.
	WorkflowConfiguration map[string]WorkflowStepConfig `bson:"-"`

	MonitoringStatus        MonitoringStatus        `bson:"monitoring_status"`
	NextExecutionMonitoring *time.Time              `bson:"next_execution_monitoring,omitempty"`
	LastCheckMonitoring     *time.Time              `bson:"last_check_monitoring,omitempty"`
	HealthStatus            *MonitoringHealthStatus `bson:"health_status,omitempty"`

	TotalExecutionsProcessed int `bson:"total_executions_processed"`
	ExecutionsWithErrors     int `bson:"executions_with_errors"`

	CreatedAt         time.Time  `bson:"created_at"`
	ModifiedAt        time.Time  `bson:"modified_at"`
	FirstMonitoringAt *time.Time `bson:"first_monitoring_at,omitempty"`
}

// Scheduler is the campaign's execution window as configured at the source.
type Scheduler struct {
	StartDateTime time.Time  `bson:"start_date_time"`
	EndDateTime   *time.Time `bson:"end_date_time,omitempty"`
	IsRecurrent   bool       `bson:"is_recurrent"`
	Crontab       string     `bson:"crontab,omitempty"`
}

// WorkflowStepConfig is scheduling metadata for a single step, used by the
// dated-wait validator to resolve the planned trigger time.
type WorkflowStepConfig struct {
	StepID                 string
	StepType               StepType
	ScheduledExecutionDate *time.Time
}

// MonitoringHealthStatus is the campaign-wide verdict produced by the campaign
// health analyzer and consumed by the scheduler.
type MonitoringHealthStatus struct {
	IsFullyVerified          bool   `bson:"is_fully_verified"`
	HasPendingExecution      bool   `bson:"has_pending_execution"`
	HasIntegrationErrors     bool   `bson:"has_integration_errors"`
	LastExecutionWithIssueID string `bson:"last_execution_with_issue_id,omitempty"`
	LastMessage              string `bson:"last_message"`
}
