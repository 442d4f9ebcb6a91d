package alert

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
	"github.com/RodriigoSC/campaign-watch-worker/internal/repository"
)

// Orchestrator matches detected step problems against the active alert rules
// and dispatches notifications, recording each dispatch in the history.
type Orchestrator struct {
	rules   repository.AlertRuleStore
	history repository.AlertHistoryStore
	email   Notifier
	webhook Notifier
	log     *zap.Logger
}

// NewOrchestrator creates an alert orchestrator.
func NewOrchestrator(rules repository.AlertRuleStore, history repository.AlertHistoryStore, email, webhook Notifier, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		rules:   rules,
		history: history,
		email:   email,
		webhook: webhook,
		log:     log,
	}
}

// ProcessAlerts evaluates the execution's step diagnostics against the
// tenant's rules plus globally scoped rules. Dispatch failures are logged per
// rule/issue pair and never abort the remaining work.
func (o *Orchestrator) ProcessAlerts(ctx context.Context, tenantID *string, campaign *domain.Campaign, diag *domain.ExecutionDiagnostic) error {
	if diag == nil || len(diag.StepDiagnostics) == 0 {
		return nil
	}

	rules, err := o.loadActiveRules(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}

	for _, issue := range diag.StepDiagnostics {
		if issue.Severity == domain.SeverityHealthy {
			continue
		}

		for _, rule := range FindMatchingRules(issue, rules) {
			o.dispatch(ctx, rule, campaign, issue)
		}
	}

	return nil
}

// loadActiveRules concatenates the tenant-scoped and globally scoped rule
// sets, keeping only active rules.
func (o *Orchestrator) loadActiveRules(ctx context.Context, tenantID *string) ([]domain.AlertRule, error) {
	tenantRules, err := o.rules.ListByScope(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant alert rules: %w", err)
	}

	globalRules, err := o.rules.ListByScope(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load global alert rules: %w", err)
	}

	var active []domain.AlertRule
	for _, rule := range append(tenantRules, globalRules...) {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

// dispatch sends one alert over the rule's channel and appends the audit
// record. Failures stay local to this rule/issue pair.
func (o *Orchestrator) dispatch(ctx context.Context, rule domain.AlertRule, campaign *domain.Campaign, issue domain.StepDiagnostic) {
	var notifier Notifier
	switch rule.Type {
	case domain.AlertChannelEmail:
		notifier = o.email
	case domain.AlertChannelWebhook:
		notifier = o.webhook
	default:
		o.log.Warn("alert rule with unknown channel type",
			zap.String("rule_id", rule.ID),
			zap.String("channel_type", string(rule.Type)))
		return
	}

	if err := notifier.Send(ctx, rule, campaign, issue); err != nil {
		o.log.Error("failed to dispatch alert",
			zap.String("rule_id", rule.ID),
			zap.String("rule", rule.Name),
			zap.String("campaign", campaign.Name),
			zap.Error(err))
		return
	}

	entry := &domain.AlertHistoryEntry{
		TenantID:     rule.TenantID,
		AlertRuleID:  rule.ID,
		Severity:     issue.Severity.String(),
		Message:      issue.Message,
		CampaignName: campaign.Name,
		StepName:     issue.StepName,
		DetectedAt:   issue.DetectedAt,
		DispatchedAt: time.Now().UTC(),
	}
	if err := o.history.Append(ctx, entry); err != nil {
		o.log.Error("failed to record alert history",
			zap.String("rule_id", rule.ID),
			zap.Error(err))
	}
}
