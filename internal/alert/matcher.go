package alert

import "github.com/RodriigoSC/campaign-watch-worker/internal/domain"

// FindMatchingRules filters the rule set down to the rules that apply to one
// diagnosed issue. A rule matches when the issue's severity reaches the rule's
// minimum (if any) and the issue's diagnostic type maps to the rule's required
// condition (if any). Pure: no hidden state, same inputs yield same output.
func FindMatchingRules(issue domain.StepDiagnostic, rules []domain.AlertRule) []domain.AlertRule {
	var matching []domain.AlertRule

	for _, rule := range rules {
		if rule.MinSeverity != nil && issue.Severity < *rule.MinSeverity {
			continue
		}

		if rule.ConditionType != nil {
			condition, ok := domain.AlertConditionFor(issue.Type)
			if !ok || condition != *rule.ConditionType {
				continue
			}
		}

		matching = append(matching, rule)
	}

	return matching
}
