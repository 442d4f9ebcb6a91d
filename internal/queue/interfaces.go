package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// CheckPublisher defines the interface for enqueueing campaign check requests
type CheckPublisher interface {
	PublishCheck(ctx context.Context, req *domain.CheckRequest) error
}

// QueueConsumer defines the interface for consuming messages from a queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
