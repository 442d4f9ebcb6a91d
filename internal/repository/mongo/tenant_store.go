package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// TenantStore reads the monitored clients from the clients collection.
type TenantStore struct {
	collection *mongo.Collection
	log        *zap.Logger
}

// NewTenantStore creates a tenant store over the monitoring database.
func NewTenantStore(client *Client, log *zap.Logger) *TenantStore {
	return &TenantStore{
		collection: client.Database().Collection("clients"),
		log:        log,
	}
}

// ListActive returns every active client.
func (s *TenantStore) ListActive(ctx context.Context) ([]domain.Tenant, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list active tenants: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			s.log.Error("Failed to close tenants cursor", zap.Error(err))
		}
	}()

	var tenants []domain.Tenant
	if err := cursor.All(ctx, &tenants); err != nil {
		return nil, fmt.Errorf("failed to decode tenants: %w", err)
	}
	return tenants, nil
}
