package watch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

type MockCheckPublisher struct {
	mock.Mock
}

func (m *MockCheckPublisher) PublishCheck(ctx context.Context, req *domain.CheckRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func newPollerFixture(reader *MockCampaignReader) (*Poller, *MockTenantStore, *MockCampaignStore, *MockCheckPublisher) {
	tenants := new(MockTenantStore)
	campaigns := new(MockCampaignStore)
	publisher := new(MockCheckPublisher)
	poller := NewPoller(tenants, campaigns, staticReaderProvider{reader: reader}, publisher, PollerConfig{
		MaxConcurrent: 2,
	}, zap.NewNop())
	return poller, tenants, campaigns, publisher
}

func TestPoller_EnqueueDueCampaigns(t *testing.T) {
	poller, _, campaigns, publisher := newPollerFixture(new(MockCampaignReader))
	tenant := testTenant()

	campaigns.On("ListDue", mock.Anything, "acme", mock.Anything).Return([]*domain.Campaign{
		{TenantName: "acme", SourceID: "c1"},
		{TenantName: "acme", SourceID: "c2"},
	}, nil)
	publisher.On("PublishCheck", mock.Anything, mock.MatchedBy(func(req *domain.CheckRequest) bool {
		return req.TenantName == "acme" && req.Reason == domain.CheckReasonDue
	})).Return(nil)

	err := poller.enqueueDue(context.Background(), tenant)

	require.NoError(t, err)
	publisher.AssertNumberOfCalls(t, "PublishCheck", 2)
}

func TestPoller_NoDueCampaignsNoPublish(t *testing.T) {
	poller, _, campaigns, publisher := newPollerFixture(new(MockCampaignReader))

	campaigns.On("ListDue", mock.Anything, "acme", mock.Anything).Return([]*domain.Campaign{}, nil)

	err := poller.enqueueDue(context.Background(), testTenant())

	require.NoError(t, err)
	publisher.AssertNotCalled(t, "PublishCheck")
}

func TestPoller_PublishFailureDoesNotAbortBatch(t *testing.T) {
	poller, _, campaigns, publisher := newPollerFixture(new(MockCampaignReader))

	campaigns.On("ListDue", mock.Anything, "acme", mock.Anything).Return([]*domain.Campaign{
		{TenantName: "acme", SourceID: "c1"},
		{TenantName: "acme", SourceID: "c2"},
	}, nil)
	publisher.On("PublishCheck", mock.Anything, mock.Anything).Return(errors.New("queue down"))

	err := poller.enqueueDue(context.Background(), testTenant())

	require.NoError(t, err)
	publisher.AssertNumberOfCalls(t, "PublishCheck", 2)
}

func TestPoller_DiscoveryEnqueuesUntrackedOnly(t *testing.T) {
	reader := new(MockCampaignReader)
	poller, _, campaigns, publisher := newPollerFixture(reader)

	reader.On("ListActiveCampaignIDs", mock.Anything).Return([]string{"c1", "c2"}, nil)
	campaigns.On("Get", mock.Anything, "acme", "c1").Return(&domain.Campaign{SourceID: "c1"}, nil)
	campaigns.On("Get", mock.Anything, "acme", "c2").Return(nil, nil)
	publisher.On("PublishCheck", mock.Anything, mock.MatchedBy(func(req *domain.CheckRequest) bool {
		return req.CampaignID == "c2" && req.Reason == domain.CheckReasonDiscovery
	})).Return(nil)

	err := poller.enqueueUntracked(context.Background(), testTenant())

	require.NoError(t, err)
	publisher.AssertNumberOfCalls(t, "PublishCheck", 1)
}

func TestPoller_DiscoverySourceFailurePropagates(t *testing.T) {
	reader := new(MockCampaignReader)
	poller, _, _, publisher := newPollerFixture(reader)

	reader.On("ListActiveCampaignIDs", mock.Anything).Return(nil, errors.New("source down"))

	err := poller.enqueueUntracked(context.Background(), testTenant())

	assert.Error(t, err)
	publisher.AssertNotCalled(t, "PublishCheck")
}
