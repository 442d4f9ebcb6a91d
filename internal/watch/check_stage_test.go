package watch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

type MockCampaignChecker struct {
	mock.Mock
}

func (m *MockCampaignChecker) ProcessByName(ctx context.Context, tenantName, campaignID string) error {
	args := m.Called(ctx, tenantName, campaignID)
	return args.Error(0)
}

func testEnvelope(tenant, campaignID string, acked, nacked *atomic.Int32) *Envelope {
	return NewEnvelope(
		&domain.CheckRequest{TenantName: tenant, CampaignID: campaignID, Reason: domain.CheckReasonDue},
		func(context.Context) error {
			acked.Add(1)
			return nil
		},
		func(context.Context) error {
			nacked.Add(1)
			return nil
		},
	)
}

func TestCheckStage_SuccessfulCheckAcked(t *testing.T) {
	checker := new(MockCampaignChecker)
	checker.On("ProcessByName", mock.Anything, "acme", "c1").Return(nil)

	stage := NewCheckStage(checker, CheckStageConfig{Workers: 1}, zap.NewNop())

	var acked, nacked atomic.Int32
	in := make(chan *Envelope, 1)
	in <- testEnvelope("acme", "c1", &acked, &nacked)
	close(in)

	stage.Start(context.Background(), in)

	assert.Equal(t, int32(1), acked.Load())
	assert.Equal(t, int32(0), nacked.Load())
	checker.AssertExpectations(t)
}

func TestCheckStage_FailedCheckNacked(t *testing.T) {
	checker := new(MockCampaignChecker)
	checker.On("ProcessByName", mock.Anything, "acme", "c1").Return(errors.New("source unavailable"))

	stage := NewCheckStage(checker, CheckStageConfig{Workers: 1}, zap.NewNop())

	var acked, nacked atomic.Int32
	in := make(chan *Envelope, 1)
	in <- testEnvelope("acme", "c1", &acked, &nacked)
	close(in)

	stage.Start(context.Background(), in)

	assert.Equal(t, int32(0), acked.Load())
	assert.Equal(t, int32(1), nacked.Load())
}

func TestCheckStage_ProcessesAllEnvelopes(t *testing.T) {
	checker := new(MockCampaignChecker)
	checker.On("ProcessByName", mock.Anything, "acme", mock.Anything).Return(nil)

	stage := NewCheckStage(checker, CheckStageConfig{Workers: 4}, zap.NewNop())

	var acked, nacked atomic.Int32
	in := make(chan *Envelope, 10)
	for i := 0; i < 10; i++ {
		in <- testEnvelope("acme", "c1", &acked, &nacked)
	}
	close(in)

	stage.Start(context.Background(), in)

	assert.Equal(t, int32(10), acked.Load())
	checker.AssertNumberOfCalls(t, "ProcessByName", 10)
}

func TestCheckStage_ContextCancellationStops(t *testing.T) {
	checker := new(MockCampaignChecker)
	stage := NewCheckStage(checker, CheckStageConfig{Workers: 1}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan *Envelope)

	done := make(chan struct{})
	go func() {
		stage.Start(ctx, in)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("check stage did not stop on context cancellation")
	}
}
