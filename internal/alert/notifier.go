package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// Notifier delivers one alert over a single transport. Failures are returned
// to the orchestrator, which logs them and moves on.
type Notifier interface {
	Send(ctx context.Context, rule domain.AlertRule, campaign *domain.Campaign, issue domain.StepDiagnostic) error
}

// LogEmailNotifier records email alerts on the log instead of sending mail.
// Outbound SMTP lives behind the same interface when a deployment wires it.
type LogEmailNotifier struct {
	log *zap.Logger
}

// NewLogEmailNotifier creates a log-backed email notifier.
func NewLogEmailNotifier(log *zap.Logger) *LogEmailNotifier {
	return &LogEmailNotifier{log: log}
}

// Send logs the alert that would have been mailed.
func (n *LogEmailNotifier) Send(_ context.Context, rule domain.AlertRule, campaign *domain.Campaign, issue domain.StepDiagnostic) error {
	n.log.Warn("email alert dispatched",
		zap.String("recipient", rule.Recipient),
		zap.String("rule", rule.Name),
		zap.String("campaign", campaign.Name),
		zap.String("severity", issue.Severity.String()),
		zap.String("message", issue.Message))
	return nil
}

// WebhookNotifier POSTs the alert as JSON to the rule's recipient URL.
type WebhookNotifier struct {
	client *http.Client
	log    *zap.Logger
}

// NewWebhookNotifier creates a webhook notifier with a bounded request timeout.
func NewWebhookNotifier(timeout time.Duration, log *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

type webhookPayload struct {
	Rule         string         `json:"rule"`
	CampaignName string         `json:"campaign_name"`
	CampaignID   string         `json:"campaign_id"`
	Tenant       string         `json:"tenant"`
	StepName     string         `json:"step_name"`
	Severity     string         `json:"severity"`
	Type         string         `json:"type"`
	Message      string         `json:"message"`
	DetectedAt   time.Time      `json:"detected_at"`
	Details      map[string]any `json:"details,omitempty"`
}

// Send delivers the alert to the webhook endpoint. Non-2xx responses count as
// delivery failures.
func (n *WebhookNotifier) Send(ctx context.Context, rule domain.AlertRule, campaign *domain.Campaign, issue domain.StepDiagnostic) error {
	payload := webhookPayload{
		Rule:         rule.Name,
		CampaignName: campaign.Name,
		CampaignID:   campaign.SourceID,
		Tenant:       campaign.TenantName,
		StepName:     issue.StepName,
		Severity:     issue.Severity.String(),
		Type:         string(issue.Type),
		Message:      issue.Message,
		DetectedAt:   issue.DetectedAt,
		Details:      issue.AdditionalData,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rule.Recipient, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}

	n.log.Info("webhook alert dispatched",
		zap.String("rule", rule.Name),
		zap.String("campaign", campaign.Name))
	return nil
}
