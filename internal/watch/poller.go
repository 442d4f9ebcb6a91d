package watch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
	"github.com/RodriigoSC/campaign-watch-worker/internal/queue"
	"github.com/RodriigoSC/campaign-watch-worker/internal/repository"
)

// PollerConfig carries the polling cadences
type PollerConfig struct {
	PollInterval      time.Duration
	DiscoveryInterval time.Duration
	MaxConcurrent     int
}

// Poller drives the monitoring schedule across tenants. Each poll tick it
// enqueues a check request for every campaign whose next check has arrived;
// each discovery tick it enqueues untracked active campaigns so new
// campaigns enter monitoring without manual registration.
type Poller struct {
	tenants   repository.TenantStore
	campaigns repository.CampaignStore
	readers   ReaderProvider
	publisher queue.CheckPublisher
	config    PollerConfig
	log       *zap.Logger
}

// NewPoller creates a new poller
func NewPoller(
	tenants repository.TenantStore,
	campaigns repository.CampaignStore,
	readers ReaderProvider,
	publisher queue.CheckPublisher,
	config PollerConfig,
	log *zap.Logger,
) *Poller {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	return &Poller{
		tenants:   tenants,
		campaigns: campaigns,
		readers:   readers,
		publisher: publisher,
		config:    config,
		log:       log,
	}
}

// Run blocks until the context is cancelled, ticking through poll and
// discovery cycles. Both run once at startup so a fresh deployment begins
// monitoring immediately.
func (p *Poller) Run(ctx context.Context) error {
	p.discoverAll(ctx)
	p.pollAll(ctx)

	pollTicker := time.NewTicker(p.config.PollInterval)
	defer pollTicker.Stop()
	discoveryTicker := time.NewTicker(p.config.DiscoveryInterval)
	defer discoveryTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Poller shutting down")
			return nil
		case <-pollTicker.C:
			p.pollAll(ctx)
		case <-discoveryTicker.C:
			p.discoverAll(ctx)
		}
	}
}

// pollAll enqueues due campaigns for every active tenant, with bounded
// tenant-level parallelism.
func (p *Poller) pollAll(ctx context.Context) {
	p.forEachTenant(ctx, "poll", p.enqueueDue)
}

// discoverAll enqueues untracked campaigns for every active tenant.
func (p *Poller) discoverAll(ctx context.Context) {
	p.forEachTenant(ctx, "discovery", p.enqueueUntracked)
}

func (p *Poller) forEachTenant(ctx context.Context, cycle string, fn func(context.Context, *domain.Tenant) error) {
	tenants, err := p.tenants.ListActive(ctx)
	if err != nil {
		p.log.Error("Failed to list active tenants",
			zap.String("cycle", cycle),
			zap.Error(err))
		return
	}

	sem := make(chan struct{}, p.config.MaxConcurrent)
	var wg sync.WaitGroup

	for i := range tenants {
		tenant := &tenants[i]

		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := fn(ctx, tenant); err != nil {
				p.log.Error("Tenant cycle failed",
					zap.String("cycle", cycle),
					zap.String("tenant", tenant.Name),
					zap.Error(err))
			}
		}()
	}

	wg.Wait()
}

func (p *Poller) enqueueDue(ctx context.Context, tenant *domain.Tenant) error {
	now := time.Now().UTC()

	due, err := p.campaigns.ListDue(ctx, tenant.Name, now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	p.log.Info("Enqueueing due campaigns",
		zap.String("tenant", tenant.Name),
		zap.Int("count", len(due)))

	for _, campaign := range due {
		req := &domain.CheckRequest{
			TenantName: tenant.Name,
			CampaignID: campaign.SourceID,
			Reason:     domain.CheckReasonDue,
			EnqueuedAt: now,
		}
		if err := p.publisher.PublishCheck(ctx, req); err != nil {
			p.log.Error("Failed to enqueue due campaign",
				zap.String("tenant", tenant.Name),
				zap.String("campaign_id", campaign.SourceID),
				zap.Error(err))
		}
	}
	return nil
}

func (p *Poller) enqueueUntracked(ctx context.Context, tenant *domain.Tenant) error {
	reader, err := p.readers.ForTenant(tenant)
	if err != nil {
		return err
	}

	ids, err := reader.ListActiveCampaignIDs(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	enqueued := 0

	for _, id := range ids {
		tracked, err := p.campaigns.Get(ctx, tenant.Name, id)
		if err != nil {
			p.log.Warn("Failed to check campaign tracking state",
				zap.String("tenant", tenant.Name),
				zap.String("campaign_id", id),
				zap.Error(err))
			continue
		}
		if tracked != nil {
			continue
		}

		req := &domain.CheckRequest{
			TenantName: tenant.Name,
			CampaignID: id,
			Reason:     domain.CheckReasonDiscovery,
			EnqueuedAt: now,
		}
		if err := p.publisher.PublishCheck(ctx, req); err != nil {
			p.log.Error("Failed to enqueue discovered campaign",
				zap.String("tenant", tenant.Name),
				zap.String("campaign_id", id),
				zap.Error(err))
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		p.log.Info("Discovered new campaigns",
			zap.String("tenant", tenant.Name),
			zap.Int("count", enqueued))
	}
	return nil
}
