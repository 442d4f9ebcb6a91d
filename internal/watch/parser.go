package watch

import (
	"encoding/json"
	"fmt"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// RequestParser parses raw message bodies into check requests
type RequestParser interface {
	Parse(body []byte) (*domain.CheckRequest, error)
}

// JSONRequestParser parses JSON check request messages
type JSONRequestParser struct{}

// NewJSONRequestParser creates a new JSON request parser
func NewJSONRequestParser() *JSONRequestParser {
	return &JSONRequestParser{}
}

// Parse decodes and validates a check request body
func (p *JSONRequestParser) Parse(body []byte) (*domain.CheckRequest, error) {
	var req domain.CheckRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal check request: %w", err)
	}

	if req.TenantName == "" {
		return nil, fmt.Errorf("check request missing tenant_name")
	}
	if req.CampaignID == "" {
		return nil, fmt.Errorf("check request missing campaign_id")
	}

	return &req, nil
}
