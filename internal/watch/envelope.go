package watch

import (
	"context"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// Envelope wraps a check request with acknowledgment callbacks
type Envelope struct {
	Request *domain.CheckRequest
	ack     func(context.Context) error
	nack    func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(req *domain.CheckRequest, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Request: req,
		ack:     ack,
		nack:    nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
