package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// ExecutionStore persists execution snapshots in the executions collection,
// keyed by (source_campaign_id, source_execution_id).
type ExecutionStore struct {
	collection *mongo.Collection
	log        *zap.Logger
}

// NewExecutionStore creates an execution store over the monitoring database.
func NewExecutionStore(client *Client, log *zap.Logger) *ExecutionStore {
	return &ExecutionStore{
		collection: client.Database().Collection("executions"),
		log:        log,
	}
}

// EnsureIndexes creates the natural-key index.
func (s *ExecutionStore) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys: bson.D{
			{Key: "source_campaign_id", Value: 1},
			{Key: "source_execution_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	if _, err := s.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create execution indexes: %w", err)
	}
	return nil
}

// Upsert creates or replaces the execution snapshot by its natural key.
// Re-checks of the same execution are idempotent.
func (s *ExecutionStore) Upsert(ctx context.Context, execution *domain.Execution) error {
	filter := bson.M{
		"source_campaign_id":  execution.SourceCampaignID,
		"source_execution_id": execution.SourceExecutionID,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, filter, execution, opts); err != nil {
		return fmt.Errorf("failed to upsert execution %s/%s: %w",
			execution.SourceCampaignID, execution.SourceExecutionID, err)
	}
	return nil
}
