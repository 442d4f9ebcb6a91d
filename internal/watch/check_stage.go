package watch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CampaignChecker runs one monitoring cycle for a campaign
type CampaignChecker interface {
	ProcessByName(ctx context.Context, tenantName, campaignID string) error
}

// CheckStageConfig configures the check stage
type CheckStageConfig struct {
	Workers int
}

// CheckStage consumes check request envelopes and runs the monitoring cycle
// for each. Successful checks are acked; failed ones are nacked and retried
// through queue redelivery.
type CheckStage struct {
	checker CampaignChecker
	config  CheckStageConfig
	log     *zap.Logger
}

// NewCheckStage creates a new check stage
func NewCheckStage(checker CampaignChecker, config CheckStageConfig, log *zap.Logger) *CheckStage {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &CheckStage{
		checker: checker,
		config:  config,
		log:     log,
	}
}

// Start begins processing envelopes with a bounded worker pool
func (s *CheckStage) Start(ctx context.Context, in <-chan *Envelope) {
	var wg sync.WaitGroup
	wg.Add(s.config.Workers)

	for i := 0; i < s.config.Workers; i++ {
		go func() {
			defer wg.Done()
			s.work(ctx, in)
		}()
	}

	wg.Wait()
	s.log.Info("Check stage shut down")
}

func (s *CheckStage) work(ctx context.Context, in <-chan *Envelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case envelope, ok := <-in:
			if !ok {
				return
			}
			s.process(ctx, envelope)
		}
	}
}

func (s *CheckStage) process(ctx context.Context, envelope *Envelope) {
	req := envelope.Request
	started := time.Now()

	err := s.checker.ProcessByName(ctx, req.TenantName, req.CampaignID)
	if err != nil {
		s.log.Error("Check request failed",
			zap.String("tenant", req.TenantName),
			zap.String("campaign_id", req.CampaignID),
			zap.String("reason", req.Reason),
			zap.Error(err))
		if err := envelope.Nack(ctx); err != nil {
			s.log.Error("Failed to nack check request", zap.Error(err))
		}
		return
	}

	s.log.Debug("Check request completed",
		zap.String("tenant", req.TenantName),
		zap.String("campaign_id", req.CampaignID),
		zap.Duration("elapsed", time.Since(started)))

	if err := envelope.Ack(ctx); err != nil {
		s.log.Error("Failed to ack check request",
			zap.String("tenant", req.TenantName),
			zap.String("campaign_id", req.CampaignID),
			zap.Error(err))
	}
}
