package readmodel

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoCampaignReader reads campaign and execution snapshots from one
// tenant's source database.
type MongoCampaignReader struct {
	campaigns  *mongo.Collection
	executions *mongo.Collection
	log        *zap.Logger
}

// NewMongoCampaignReader creates a reader over the tenant's source database.
func NewMongoCampaignReader(db *mongo.Database, log *zap.Logger) *MongoCampaignReader {
	return &MongoCampaignReader{
		campaigns:  db.Collection("campaigns"),
		executions: db.Collection("executions"),
		log:        log,
	}
}

// GetCampaign fetches one campaign snapshot by source id.
func (r *MongoCampaignReader) GetCampaign(ctx context.Context, sourceID string) (*CampaignSnapshot, error) {
	var snapshot CampaignSnapshot
	err := r.campaigns.FindOne(ctx, bson.M{"_id": sourceID}).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaign %s: %w", sourceID, err)
	}
	return &snapshot, nil
}

// ListExecutions fetches the campaign's executions in source order.
func (r *MongoCampaignReader) ListExecutions(ctx context.Context, sourceID string) ([]ExecutionSnapshot, error) {
	cursor, err := r.executions.Find(ctx, bson.M{"campaign_id": sourceID})
	if err != nil {
		return nil, fmt.Errorf("failed to list executions for campaign %s: %w", sourceID, err)
	}
	defer cursor.Close(ctx)

	var snapshots []ExecutionSnapshot
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to decode executions for campaign %s: %w", sourceID, err)
	}
	return snapshots, nil
}

// ListActiveCampaignIDs returns the ids of active, non-deleted campaigns for
// the discovery cycle.
func (r *MongoCampaignReader) ListActiveCampaignIDs(ctx context.Context) ([]string, error) {
	cursor, err := r.campaigns.Find(ctx,
		bson.M{"is_active": true, "is_deleted": false})
	if err != nil {
		return nil, fmt.Errorf("failed to list active campaigns: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			r.log.Warn("failed to decode campaign id", zap.Error(err))
			continue
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active campaigns: %w", err)
	}
	return ids, nil
}
