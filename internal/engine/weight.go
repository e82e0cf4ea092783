package engine

import (
	"fmt"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// weightChecker surfaces body-habitus findings. It never changes the dose:
// BSA-based recalculation is the prescriber's job, the engine only flags
// when the inputs for it are missing or unusual.
type weightChecker struct{}

func newWeightChecker() *weightChecker { return &weightChecker{} }

func (c *weightChecker) Name() string { return "weight-bsa-checker" }

func (c *weightChecker) Check(patient *domain.PatientProfile, rx Prescription) []domain.DoseCalculationAlert {
	var alerts []domain.DoseCalculationAlert

	if !patient.HasWeight() {
		alerts = append(alerts, domain.DoseCalculationAlert{
			ID:                 newAlertID(),
			Type:               domain.AlertDosing,
			Severity:           domain.SeverityHigh,
			Message:            "Patient weight is not recorded",
			Details:            "Weight is required for safe chemotherapy dosing",
			RecommendedAction:  "Obtain current weight before administration",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryWeight,
			Source:             c.Name(),
			Priority:           8,
		})
	}

	if bmi, ok := patient.BMI(); ok {
		switch {
		case bmi < bmiUnderweight:
			alerts = append(alerts, domain.DoseCalculationAlert{
				ID:                 newAlertID(),
				Type:               domain.AlertMonitoring,
				Severity:           domain.SeverityModerate,
				Message:            fmt.Sprintf("Underweight patient (BMI %.1f)", bmi),
				Details:            "Low body mass may increase toxicity at BSA-based doses",
				RecommendedAction:  "Monitor nutritional status and tolerance closely",
				AffectedMedication: rx.Name,
				Category:           domain.CategoryWeight,
				Source:             c.Name(),
				Priority:           6,
			})
		case bmi > bmiObese:
			alerts = append(alerts, domain.DoseCalculationAlert{
				ID:                 newAlertID(),
				Type:               domain.AlertMonitoring,
				Severity:           domain.SeverityModerate,
				Message:            fmt.Sprintf("Obese patient (BMI %.1f)", bmi),
				Details:            "Verify whether actual or adjusted body weight should drive BSA dosing",
				RecommendedAction:  "Confirm dosing weight strategy per protocol",
				AffectedMedication: rx.Name,
				Category:           domain.CategoryWeight,
				Source:             c.Name(),
				Priority:           5,
			})
		}
	}

	// Carboplatin is dosed by AUC, not BSA, regardless of other findings.
	if rx.Identity == domain.DrugCarboplatin {
		alerts = append(alerts, domain.DoseCalculationAlert{
			ID:                 newAlertID(),
			Type:               domain.AlertDosing,
			Severity:           domain.SeverityModerate,
			Message:            "Carboplatin should be dosed by AUC, not BSA",
			Details:            "Use the Calvert formula (dose = AUC x (GFR + 25)) with a current creatinine clearance",
			RecommendedAction:  "Confirm the ordered dose was derived from the Calvert formula",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryBSA,
			Source:             c.Name(),
			Priority:           7,
		})
	}

	return alerts
}
