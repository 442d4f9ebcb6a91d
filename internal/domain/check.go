package domain

import "time"

// Check request reasons.
const (
	CheckReasonDue       = "due"
	CheckReasonDiscovery = "discovery"
)

// CheckRequest asks the worker to run one monitoring cycle for a campaign.
// The poller enqueues these; the pipeline consumes them.
type CheckRequest struct {
	TenantName string    `json:"tenant_name"`
	CampaignID string    `json:"campaign_id"`
	Reason     string    `json:"reason,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
