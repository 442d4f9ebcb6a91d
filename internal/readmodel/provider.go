package readmodel

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// SourceReaders resolves per-tenant campaign readers on the shared source
// cluster. Each tenant's campaigns live in its own database.
type SourceReaders struct {
	client *mongo.Client
	log    *zap.Logger
}

// NewSourceReaders creates a reader provider over the source cluster.
func NewSourceReaders(client *mongo.Client, log *zap.Logger) *SourceReaders {
	return &SourceReaders{
		client: client,
		log:    log,
	}
}

// ForTenant returns the campaign reader for the tenant's source database.
func (s *SourceReaders) ForTenant(tenant *domain.Tenant) (CampaignReader, error) {
	if tenant.Campaign.Database == "" {
		return nil, fmt.Errorf("tenant %s has no campaign source database configured", tenant.Name)
	}
	return NewMongoCampaignReader(s.client.Database(tenant.Campaign.Database), s.log), nil
}
