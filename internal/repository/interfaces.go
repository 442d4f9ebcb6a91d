package repository

import (
	"context"
	"time"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// CampaignStore persists the monitoring-side campaign snapshots. Upserts are
// idempotent and keyed by (tenant, source campaign id).
type CampaignStore interface {
	// Get returns nil without error when the campaign is not tracked yet.
	Get(ctx context.Context, tenant, sourceID string) (*domain.Campaign, error)

	// Upsert creates or updates the campaign, preserving CreatedAt and
	// FirstMonitoringAt on update.
	Upsert(ctx context.Context, campaign *domain.Campaign) error

	// ListDue returns active campaigns whose next monitoring check is at or
	// before now.
	ListDue(ctx context.Context, tenant string, now time.Time) ([]*domain.Campaign, error)
}

// ExecutionStore persists execution snapshots together with their derived
// monitoring flags, keyed by (source campaign id, source execution id).
type ExecutionStore interface {
	Upsert(ctx context.Context, execution *domain.Execution) error
}

// AlertRuleStore returns alert rules filtered by scope. A nil tenant id
// selects the globally scoped rules.
type AlertRuleStore interface {
	ListByScope(ctx context.Context, tenantID *string) ([]domain.AlertRule, error)
}

// AlertHistoryStore appends one audit record per dispatched alert. Records
// are never mutated or deleted.
type AlertHistoryStore interface {
	Append(ctx context.Context, entry *domain.AlertHistoryEntry) error
}

// TenantStore lists the clients the watcher monitors.
type TenantStore interface {
	ListActive(ctx context.Context) ([]domain.Tenant, error)
}
