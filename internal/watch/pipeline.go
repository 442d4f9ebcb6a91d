package watch

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/config"
	"github.com/RodriigoSC/campaign-watch-worker/internal/queue"
)

// Pipeline orchestrates the stages that turn SQS messages into completed
// monitoring cycles
type Pipeline struct {
	receiver *Receiver
	parser   *ParserStage
	checker  *CheckStage
}

// NewPipeline creates the check request pipeline
func NewPipeline(cfg *config.Config, queueConsumer queue.QueueConsumer, checker CampaignChecker, log *zap.Logger) *Pipeline {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     10,
		WaitTimeSeconds: 20,
		BufferSize:      100,
	}, log)

	parser := NewParserStage(queueConsumer, NewJSONRequestParser(), log)

	checkStage := NewCheckStage(checker, CheckStageConfig{
		Workers: cfg.Monitor.MaxConcurrentTenants,
	}, log)

	return &Pipeline{
		receiver: receiver,
		parser:   parser,
		checker:  checkStage,
	}
}

// Start begins the pipeline
func (p *Pipeline) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, 100)
	envelopeChan := make(chan *Envelope, 100)

	var wg sync.WaitGroup

	// Start all pipeline stages
	wg.Add(3)

	// Stage 1: Receive messages from SQS
	go func() {
		defer wg.Done()
		p.receiver.Start(ctx, messageChan)
	}()

	// Stage 2: Parse messages into envelopes
	go func() {
		defer wg.Done()
		p.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Stage 3: Run the monitoring cycles
	go func() {
		defer wg.Done()
		p.checker.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
