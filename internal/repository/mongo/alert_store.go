package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// AlertRuleStore reads alert rules from the alert_rules collection.
type AlertRuleStore struct {
	collection *mongo.Collection
	log        *zap.Logger
}

// NewAlertRuleStore creates an alert rule store over the monitoring database.
func NewAlertRuleStore(client *Client, log *zap.Logger) *AlertRuleStore {
	return &AlertRuleStore{
		collection: client.Database().Collection("alert_rules"),
		log:        log,
	}
}

// ListByScope returns the rules registered for the given scope. A nil tenant
// id selects the global rules, stored without a tenant_id.
func (s *AlertRuleStore) ListByScope(ctx context.Context, tenantID *string) ([]domain.AlertRule, error) {
	filter := bson.M{"tenant_id": nil}
	if tenantID != nil {
		filter = bson.M{"tenant_id": *tenantID}
	}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert rules: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			s.log.Error("Failed to close alert rules cursor", zap.Error(err))
		}
	}()

	var rules []domain.AlertRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode alert rules: %w", err)
	}
	return rules, nil
}

// AlertHistoryStore appends dispatch audit records to the alert_history
// collection. Records are insert-only.
type AlertHistoryStore struct {
	collection *mongo.Collection
	log        *zap.Logger
}

// NewAlertHistoryStore creates an alert history store over the monitoring
// database.
func NewAlertHistoryStore(client *Client, log *zap.Logger) *AlertHistoryStore {
	return &AlertHistoryStore{
		collection: client.Database().Collection("alert_history"),
		log:        log,
	}
}

// Append inserts one audit record.
func (s *AlertHistoryStore) Append(ctx context.Context, entry *domain.AlertHistoryEntry) error {
	if entry.DispatchedAt.IsZero() {
		entry.DispatchedAt = time.Now().UTC()
	}

	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append alert history: %w", err)
	}
	return nil
}
