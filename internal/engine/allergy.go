package engine

import (
	"fmt"
	"strings"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// allergyChecker flags documented allergies against the prescribed drug.
// A direct allergen/drug-name match blocks administration outright;
// fixed cross-sensitivity rules cover drug classes.
type allergyChecker struct{}

func newAllergyChecker() *allergyChecker { return &allergyChecker{} }

func (c *allergyChecker) Name() string { return "allergy-checker" }

func (c *allergyChecker) Check(patient *domain.PatientProfile, rx Prescription) []domain.DoseCalculationAlert {
	var alerts []domain.DoseCalculationAlert
	drugName := strings.ToLower(rx.Name)

	for _, allergy := range patient.Allergies {
		allergen := strings.ToLower(strings.TrimSpace(allergy.Allergen))
		if allergen == "" {
			continue
		}

		if strings.Contains(drugName, allergen) || strings.Contains(allergen, drugName) {
			alerts = append(alerts, domain.DoseCalculationAlert{
				ID:                 newAlertID(),
				Type:               domain.AlertAllergy,
				Severity:           allergySeverity(allergy.Severity),
				Message:            fmt.Sprintf("Patient has a documented allergy to %s", allergy.Allergen),
				Details:            fmt.Sprintf("Documented reaction severity: %s", allergy.Severity),
				RecommendedAction:  "DO NOT ADMINISTER",
				AffectedMedication: rx.Name,
				Category:           domain.CategoryGeneral,
				Source:             c.Name(),
				Priority:           10,
			})
			continue
		}

		// Cross-sensitivity rules.
		if strings.Contains(allergen, "platinum") && rx.Identity.IsPlatinum() {
			alerts = append(alerts, domain.DoseCalculationAlert{
				ID:                 newAlertID(),
				Type:               domain.AlertAllergy,
				Severity:           domain.SeverityHigh,
				Message:            fmt.Sprintf("Documented platinum sensitivity may cross-react with %s", rx.Name),
				Details:            fmt.Sprintf("Allergen on file: %s", allergy.Allergen),
				RecommendedAction:  "Consider desensitization protocol or alternative agent",
				AffectedMedication: rx.Name,
				Category:           domain.CategoryGeneral,
				Source:             c.Name(),
				Priority:           8,
			})
		}
		if strings.Contains(allergen, "sulfa") && rx.Identity == domain.DrugSulfamethoxazole {
			alerts = append(alerts, domain.DoseCalculationAlert{
				ID:                 newAlertID(),
				Type:               domain.AlertAllergy,
				Severity:           domain.SeverityHigh,
				Message:            "Documented sulfa allergy conflicts with sulfamethoxazole",
				Details:            fmt.Sprintf("Allergen on file: %s", allergy.Allergen),
				RecommendedAction:  "Select a non-sulfonamide alternative",
				AffectedMedication: rx.Name,
				Category:           domain.CategoryGeneral,
				Source:             c.Name(),
				Priority:           8,
			})
		}
	}

	return alerts
}

// allergySeverity maps a documented reaction severity onto an alert
// severity. Unrecognized wording defaults to moderate rather than low so a
// typo never downgrades an allergy.
func allergySeverity(documented string) domain.AlertSeverity {
	switch {
	case strings.Contains(strings.ToLower(documented), "life-threatening"):
		return domain.SeverityCritical
	case strings.Contains(strings.ToLower(documented), "severe"):
		return domain.SeverityHigh
	default:
		return domain.SeverityModerate
	}
}
