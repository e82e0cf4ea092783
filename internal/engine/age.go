package engine

import (
	"fmt"
	"time"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// ageEvaluator reduces doses for elderly patients. Bands are checked in
// descending age order and the first match wins.
type ageEvaluator struct {
	now func() time.Time
}

func newAgeEvaluator(now func() time.Time) *ageEvaluator {
	if now == nil {
		now = time.Now
	}
	return &ageEvaluator{now: now}
}

func (e *ageEvaluator) Name() string { return "age-evaluator" }

func (e *ageEvaluator) Evaluate(patient *domain.PatientProfile, rx Prescription) FactorResult {
	age, ok := patient.AgeYears(e.now())
	if !ok {
		// Unknown age: fail open on the dose but surface the data gap.
		return FactorResult{Alerts: []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertLab,
			Severity:           domain.SeverityModerate,
			Message:            "Date of birth is missing from the patient profile",
			Details:            "Age-based dose adjustment could not be evaluated",
			RecommendedAction:  "Record the patient's date of birth and re-run the dose check",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryAge,
			Source:             e.Name(),
			Priority:           6,
		}}}
	}

	factor, reason := ageFactor(age, rx.Identity)
	if factor == 1.0 {
		return FactorResult{}
	}

	severity := domain.SeverityModerate
	if factor < 0.7 {
		severity = domain.SeverityHigh
	}

	return FactorResult{
		Factors: []AppliedFactor{{
			Factor:     factor,
			Reason:     reason,
			Confidence: domain.ConfidenceHigh,
			References: []string{"Geriatric oncology dosing guidance"},
		}},
		Alerts: []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertDosing,
			Severity:           severity,
			Message:            fmt.Sprintf("Age-based dose reduction applied (age %d)", age),
			Details:            reason,
			RecommendedAction:  fmt.Sprintf("Reduce dose to %.0f%% of standard", factor*100),
			AffectedMedication: rx.Name,
			Category:           domain.CategoryAge,
			Source:             e.Name(),
			Priority:           7,
		}},
	}
}

// ageFactor returns the multiplicative factor and its reason for the given
// age and drug. Factor 1.0 means no adjustment.
func ageFactor(age int, drug domain.DrugIdentity) (float64, string) {
	switch {
	case age >= 75:
		switch drug {
		case domain.DrugDoxorubicin:
			return 0.75, "Increased cardiotoxicity risk in patients 75 and older"
		case domain.DrugCarboplatin, domain.DrugCisplatin:
			return 0.8, "Reduced renal reserve in patients 75 and older"
		case domain.DrugFluorouracil:
			return 0.85, "Increased fluoropyrimidine toxicity in patients 75 and older"
		default:
			return 0.9, "General elderly dose reduction for patients 75 and older"
		}
	case age >= 65:
		if drug == domain.DrugDoxorubicin {
			return 0.85, "Elevated cardiotoxicity risk in patients 65-74"
		}
		return 0.95, "Modest dose reduction for patients 65-74"
	default:
		return 1.0, ""
	}
}
