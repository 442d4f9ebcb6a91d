package diagnosis

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// ExecutionAnalyzer runs the step dispatcher over every step of an execution
// and rolls the results into one verdict.
type ExecutionAnalyzer struct {
	dispatcher *Dispatcher
	log        *zap.Logger
}

// NewExecutionAnalyzer creates an execution analyzer.
func NewExecutionAnalyzer(dispatcher *Dispatcher, log *zap.Logger) *ExecutionAnalyzer {
	return &ExecutionAnalyzer{
		dispatcher: dispatcher,
		log:        log,
	}
}

// Analyze diagnoses every step in stable original order and aggregates to the
// maximum severity. A fault while analyzing is contained here so sibling
// executions still get evaluated.
func (a *ExecutionAnalyzer) Analyze(execution *domain.Execution, campaign *domain.Campaign, now time.Time) (diag domain.ExecutionDiagnostic) {
	diag = domain.ExecutionDiagnostic{
		ExecutionID:     execution.SourceExecutionID,
		OverallHealth:   domain.SeverityHealthy,
		AnalyzedAt:      now,
		StepDiagnostics: make([]domain.StepDiagnostic, 0, len(execution.Steps)),
	}

	defer func() {
		if r := recover(); r != nil {
			a.log.Error("execution analysis failed",
				zap.String("execution_id", execution.SourceExecutionID),
				zap.Any("panic", r))
			diag.OverallHealth = domain.SeverityError
			diag.Summary = fmt.Sprintf("analysis failed: %v", r)
		}
	}()

	for _, step := range execution.Steps {
		stepDiag := a.dispatcher.Diagnose(step, execution, campaign, now)
		if stepDiag.Severity > domain.SeverityHealthy {
			a.log.Warn("step diagnostic",
				zap.String("execution_id", execution.SourceExecutionID),
				zap.String("step_id", stepDiag.StepID),
				zap.String("severity", stepDiag.Severity.String()),
				zap.String("message", stepDiag.Message))
		}
		diag.StepDiagnostics = append(diag.StepDiagnostics, stepDiag)
		if stepDiag.Severity > diag.OverallHealth {
			diag.OverallHealth = stepDiag.Severity
		}
	}

	diag.Summary = summarize(&diag, execution)
	return diag
}

// summarize emits the highest-severity count first; for a healthy execution
// it states the raw status.
func summarize(diag *domain.ExecutionDiagnostic, execution *domain.Execution) string {
	if n := diag.CountBySeverity(domain.SeverityCritical); n > 0 {
		return fmt.Sprintf("execution with %d critical issue(s), status: %s", n, execution.Status)
	}
	if n := diag.CountBySeverity(domain.SeverityError); n > 0 {
		return fmt.Sprintf("execution with %d error(s), status: %s", n, execution.Status)
	}
	if n := diag.CountBySeverity(domain.SeverityWarning); n > 0 {
		return fmt.Sprintf("execution with %d warning(s), status: %s", n, execution.Status)
	}
	return fmt.Sprintf("execution healthy, status: %s", execution.Status)
}
