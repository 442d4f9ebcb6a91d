package domain

import "time"

// AlertChannel selects the transport used to deliver an alert.
type AlertChannel string

const (
	AlertChannelEmail   AlertChannel = "email"
	AlertChannelWebhook AlertChannel = "webhook"
)

// AlertCondition is the alert-side classification a rule can restrict itself to.
type AlertCondition string

const (
	AlertConditionStepFailed           AlertCondition = "step_failed"
	AlertConditionExecutionDelayed     AlertCondition = "execution_delayed"
	AlertConditionFilterStuck          AlertCondition = "filter_stuck"
	AlertConditionIntegrationError     AlertCondition = "integration_error"
	AlertConditionCampaignNotFinalized AlertCondition = "campaign_not_finalized"
)

// AlertRule configures one alert subscription. A nil TenantID scopes the rule
// globally, to all tenants. Rules are immutable during an evaluation pass.
type AlertRule struct {
	ID            string          `bson:"_id,omitempty"`
	TenantID      *string         `bson:"tenant_id,omitempty"`
	Name          string          `bson:"name"`
	Type          AlertChannel    `bson:"type"`
	MinSeverity   *Severity       `bson:"min_severity,omitempty"`
	ConditionType *AlertCondition `bson:"condition_type,omitempty"`
	Recipient     string          `bson:"recipient"`
	IsActive      bool            `bson:"is_active"`
	CreatedAt     time.Time       `bson:"created_at"`
}

// AlertHistoryEntry is the append-only audit record written once per
// dispatched alert.
type AlertHistoryEntry struct {
	ID           string    `bson:"_id,omitempty"`
	TenantID     *string   `bson:"tenant_id,omitempty"`
	AlertRuleID  string    `bson:"alert_rule_id"`
	Severity     string    `bson:"severity"`
	Message      string    `bson:"message"`
	CampaignName string    `bson:"campaign_name"`
	StepName     string    `bson:"step_name"`
	DetectedAt   time.Time `bson:"detected_at"`
	DispatchedAt time.Time `bson:"dispatched_at"`
}

// diagnosticConditions is the single shared mapping from diagnostic taxonomy
// to alert conditions. Many-to-one: delays and missed waits collapse into the
// same alert condition. Diagnostic types with no entry never match a
// condition-scoped rule.
var diagnosticConditions = map[DiagnosticType]AlertCondition{
	DiagnosticStepFailed:           AlertConditionStepFailed,
	DiagnosticExecutionDelayed:     AlertConditionExecutionDelayed,
	DiagnosticWaitStepMissed:       AlertConditionExecutionDelayed,
	DiagnosticFilterStuck:          AlertConditionFilterStuck,
	DiagnosticIntegrationError:     AlertConditionIntegrationError,
	DiagnosticCampaignNotFinalized: AlertConditionCampaignNotFinalized,
	DiagnosticIncompleteExecution:  AlertConditionCampaignNotFinalized,
}

// AlertConditionFor maps a diagnostic type to its alert condition. The second
// return is false for unmapped types.
func AlertConditionFor(t DiagnosticType) (AlertCondition, bool) {
	c, ok := diagnosticConditions[t]
	return c, ok
}
