package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// CampaignStore persists monitored campaigns in the campaigns collection,
// keyed by (tenant_name, source_id).
type CampaignStore struct {
	collection *mongo.Collection
	log        *zap.Logger
}

// NewCampaignStore creates a campaign store over the monitoring database.
func NewCampaignStore(client *Client, log *zap.Logger) *CampaignStore {
	return &CampaignStore{
		collection: client.Database().Collection("campaigns"),
		log:        log,
	}
}

// EnsureIndexes creates the indexes the watcher relies on: the natural key
// and the due-scan index used by ListDue.
func (s *CampaignStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "tenant_name", Value: 1},
				{Key: "source_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "next_execution_monitoring", Value: 1},
			},
		},
	}

	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create campaign indexes: %w", err)
	}
	return nil
}

// Get returns the tracked campaign, or nil when it is not tracked yet.
func (s *CampaignStore) Get(ctx context.Context, tenant, sourceID string) (*domain.Campaign, error) {
	filter := bson.M{"tenant_name": tenant, "source_id": sourceID}

	var campaign domain.Campaign
	err := s.collection.FindOne(ctx, filter).Decode(&campaign)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find campaign %s/%s: %w", tenant, sourceID, err)
	}
	return &campaign, nil
}

// Upsert creates or updates the campaign by its natural key. CreatedAt and
// FirstMonitoringAt are written on insert only; updates never touch them.
func (s *CampaignStore) Upsert(ctx context.Context, campaign *domain.Campaign) error {
	now := time.Now().UTC()
	filter := bson.M{
		"tenant_name": campaign.TenantName,
		"source_id":   campaign.SourceID,
	}

	set := bson.M{
		"number_id":                  campaign.NumberID,
		"name":                       campaign.Name,
		"project_id":                 campaign.ProjectID,
		"campaign_type":              campaign.CampaignType,
		"status_campaign":            campaign.StatusCampaign,
		"is_active":                  campaign.IsActive,
		"is_deleted":                 campaign.IsDeleted,
		"scheduler":                  campaign.Scheduler,
		"monitoring_status":          campaign.MonitoringStatus,
		"next_execution_monitoring":  campaign.NextExecutionMonitoring,
		"last_check_monitoring":      campaign.LastCheckMonitoring,
		"health_status":              campaign.HealthStatus,
		"total_executions_processed": campaign.TotalExecutionsProcessed,
		"executions_with_errors":     campaign.ExecutionsWithErrors,
		"modified_at":                now,
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"created_at":          now,
			"first_monitoring_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := s.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert campaign %s/%s: %w", campaign.TenantName, campaign.SourceID, err)
	}
	return nil
}

// ListDue returns the tenant's active campaigns whose next monitoring check
// has arrived. Campaigns without a scheduled next check are never due.
func (s *CampaignStore) ListDue(ctx context.Context, tenant string, now time.Time) ([]*domain.Campaign, error) {
	filter := bson.M{
		"tenant_name": tenant,
		"is_active":   true,
		"is_deleted":  false,
		"next_execution_monitoring": bson.M{
			"$ne":  nil,
			"$lte": now,
		},
	}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list due campaigns for tenant %s: %w", tenant, err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			s.log.Error("Failed to close due campaigns cursor", zap.Error(err))
		}
	}()

	var campaigns []*domain.Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, fmt.Errorf("failed to decode due campaigns for tenant %s: %w", tenant, err)
	}
	return campaigns, nil
}
