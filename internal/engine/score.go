package engine

import "github.com/chemo-dose-safety-server/internal/domain"

// SafetyScore reduces an alert list to a 0-100 score. Each alert deducts a
// fixed amount by severity (critical 30, high 20, moderate 10, low 5); the
// deductions are purely additive and the score floors at zero. A score of
// zero therefore means "many serious findings", not a calibrated
// probability, and should be read together with the alert list.
func SafetyScore(alerts []domain.DoseCalculationAlert) int {
	score := 100
	for _, alert := range alerts {
		score -= severityDeductions[alert.Severity]
	}
	if score < 0 {
		score = 0
	}
	return score
}
