package engine

import (
	"fmt"
	"strings"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// contraindicationChecker matches the patient's problem list against the
// fixed condition-by-drug contraindication table. Conditions documented as
// resolved or inactive are skipped; active and unspecified statuses count.
type contraindicationChecker struct{}

func newContraindicationChecker() *contraindicationChecker { return &contraindicationChecker{} }

func (c *contraindicationChecker) Name() string { return "contraindication-checker" }

func (c *contraindicationChecker) Check(patient *domain.PatientProfile, rx Prescription) []domain.DoseCalculationAlert {
	var alerts []domain.DoseCalculationAlert

	for _, condition := range patient.Conditions {
		if conditionInactive(condition.Status) {
			continue
		}
		name := strings.ToLower(condition.Name)

		for _, rule := range contraindicationRules {
			if rule.drug != rx.Identity || !strings.Contains(name, rule.conditionSubstring) {
				continue
			}
			alerts = append(alerts, domain.DoseCalculationAlert{
				ID:                 newAlertID(),
				Type:               domain.AlertContraindication,
				Severity:           rule.severity,
				Message:            rule.message,
				Details:            fmt.Sprintf("Condition on file: %s (status %q)", condition.Name, condition.Status),
				RecommendedAction:  rule.action,
				AffectedMedication: rx.Name,
				Category:           rule.category,
				Source:             c.Name(),
				Priority:           rule.priority,
			})
		}
	}

	return alerts
}

func conditionInactive(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "resolved", "inactive":
		return true
	default:
		return false
	}
}
