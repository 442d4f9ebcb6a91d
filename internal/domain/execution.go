package domain

import "time"

// Execution is one run of a campaign's workflow, owned by exactly one campaign.
type Execution struct {
	TenantName        string `bson:"tenant_name"`
	SourceCampaignID  string `bson:"source_campaign_id"`
	SourceExecutionID string `bson:"source_execution_id"`
	CampaignName      string `bson:"campaign_name"`

	Status    string     `bson:"status"`
	StartDate *time.Time `bson:"start_date,omitempty"`
	EndDate   *time.Time `bson:"end_date,omitempty"`

	TotalDurationInSeconds *float64 `bson:"total_duration_in_seconds,omitempty"`

	// HasMonitoringErrors is derived from diagnosis, never set directly.
	HasMonitoringErrors bool `bson:"has_monitoring_errors"`

	Steps []WorkflowStep `bson:"steps"`
}

// WorkflowStep is a single step of an execution's workflow.
type WorkflowStep struct {
	SourceStepID string `bson:"source_step_id"`
	Name         string `bson:"name"`
	Type         string `bson:"type"`
	Status       string `bson:"status"`
	Error        string `bson:"error,omitempty"`

	TotalUsers         int64 `bson:"total_users"`
	TotalExecutionTime int64 `bson:"total_execution_time"`

	ChannelName string `bson:"channel_name,omitempty"`

	// MonitoringNotes is stamped by the mapping layer when step semantics
	// could not be fully resolved (unknown channel, failed integration fetch).
	MonitoringNotes string `bson:"monitoring_notes,omitempty"`

	IntegrationData *ChannelIntegrationData `bson:"integration_data,omitempty"`
}

// ChannelIntegrationData is the per-step aggregate fetched from the channel
// read model for channel steps.
type ChannelIntegrationData struct {
	ChannelName       string        `bson:"channel_name"`
	IntegrationStatus string        `bson:"integration_status"`
	TemplateID        string        `bson:"template_id,omitempty"`
	File              *FileTransfer `bson:"file,omitempty"`
	Leads             *LeadFunnel   `bson:"leads,omitempty"`
}

// FileTransfer tracks the channel-side file processing of a send.
type FileTransfer struct {
	Name       string     `bson:"name"`
	StartedAt  *time.Time `bson:"started_at,omitempty"`
	FinishedAt *time.Time `bson:"finished_at,omitempty"`
	Total      int64      `bson:"total"`
}

// LeadFunnel holds per-outcome lead counters for a channel send.
type LeadFunnel struct {
	Success       int64 `bson:"success"`
	Error         int64 `bson:"error"`
	Blocked       int64 `bson:"blocked"`
	Optout        int64 `bson:"optout"`
	Deduplication int64 `bson:"deduplication"`
}

// TotalProcessed is the sum of all funnel outcomes.
func (l *LeadFunnel) TotalProcessed() int64 {
	if l == nil {
		return 0
	}
	return l.Success + l.Error + l.Blocked + l.Optout + l.Deduplication
}

// ErrorRate is the fraction of processed leads that errored, or 0 when
// nothing was processed.
func (l *LeadFunnel) ErrorRate() float64 {
	total := l.TotalProcessed()
	if total == 0 {
		return 0
	}
	return float64(l.Error) / float64(total)
}
