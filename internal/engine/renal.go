package engine

import (
	"fmt"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// renalEvaluator adjusts platinum dosing on creatinine clearance. The rule
// set deliberately treats carboplatin and cisplatin differently at severe
// impairment: carboplatin is dose-reduced, cisplatin is flagged unsuitable
// and left at full dose so the contraindication cannot be mistaken for a
// workable reduction.
type renalEvaluator struct{}

func newRenalEvaluator() *renalEvaluator { return &renalEvaluator{} }

func (e *renalEvaluator) Name() string { return "renal-evaluator" }

func (e *renalEvaluator) Evaluate(patient *domain.PatientProfile, rx Prescription) FactorResult {
	lab, ok := patient.LatestLab("creatinine clearance", "crcl")
	if !ok {
		return FactorResult{Alerts: []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertLab,
			Severity:           domain.SeverityModerate,
			Message:            "No creatinine clearance on file",
			Details:            "Renal dose adjustment could not be evaluated; normal renal function was NOT assumed",
			RecommendedAction:  "Obtain creatinine clearance before administration",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryRenal,
			Source:             e.Name(),
			Priority:           6,
		}}}
	}

	crcl := lab.Value
	switch {
	case crcl < crclSevere:
		return e.severeImpairment(crcl, rx)
	case crcl < crclModerate:
		return e.moderateImpairment(crcl, rx)
	case crcl < crclMild:
		return FactorResult{Alerts: []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertMonitoring,
			Severity:           domain.SeverityModerate,
			Message:            fmt.Sprintf("Mild renal impairment (CrCl %.0f mL/min)", crcl),
			Details:            "No dose change required at this level",
			RecommendedAction:  "Monitor renal function during treatment",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryRenal,
			Source:             e.Name(),
			Priority:           5,
		}}}
	default:
		return FactorResult{}
	}
}

func (e *renalEvaluator) severeImpairment(crcl float64, rx Prescription) FactorResult {
	switch rx.Identity {
	case domain.DrugCarboplatin:
		reason := fmt.Sprintf("Severe renal impairment (CrCl %.0f mL/min) requires 50%% carboplatin dose reduction", crcl)
		return FactorResult{
			Factors: []AppliedFactor{{
				Factor:     0.5,
				Reason:     reason,
				Confidence: domain.ConfidenceHigh,
				References: []string{"Carboplatin renal dosing guidance"},
			}},
			Alerts: []domain.DoseCalculationAlert{{
				ID:                 newAlertID(),
				Type:               domain.AlertDosing,
				Severity:           domain.SeverityCritical,
				Message:            "Severe renal impairment: carboplatin dose halved",
				Details:            reason,
				RecommendedAction:  "Verify CrCl and consider Calvert-formula AUC dosing",
				AffectedMedication: rx.Name,
				Category:           domain.CategoryRenal,
				Source:             e.Name(),
				Priority:           9,
			}},
		}
	case domain.DrugCisplatin:
		// Intentional asymmetry: cisplatin is not dose-reduced here, it is
		// unsuitable at this level of renal function.
		return FactorResult{Alerts: []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertContraindication,
			Severity:           domain.SeverityCritical,
			Message:            fmt.Sprintf("Cisplatin is contraindicated with severe renal impairment (CrCl %.0f mL/min)", crcl),
			Details:            "Cisplatin should not be dose-reduced at this CrCl; it should be avoided entirely",
			RecommendedAction:  "Do not administer; substitute carboplatin or a non-platinum regimen",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryRenal,
			Source:             e.Name(),
			Priority:           10,
		}}}
	default:
		return FactorResult{}
	}
}

func (e *renalEvaluator) moderateImpairment(crcl float64, rx Prescription) FactorResult {
	if rx.Identity != domain.DrugCarboplatin && rx.Identity != domain.DrugCisplatin {
		return FactorResult{}
	}
	reason := fmt.Sprintf("Moderate renal impairment (CrCl %.0f mL/min) requires 25%% platinum dose reduction", crcl)
	return FactorResult{
		Factors: []AppliedFactor{{
			Factor:     0.75,
			Reason:     reason,
			Confidence: domain.ConfidenceHigh,
			References: []string{"Platinum agent renal dosing guidance"},
		}},
		Alerts: []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertDosing,
			Severity:           domain.SeverityHigh,
			Message:            "Moderate renal impairment: platinum dose reduced by 25%",
			Details:            reason,
			RecommendedAction:  "Recheck renal function before each cycle",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryRenal,
			Source:             e.Name(),
			Priority:           8,
		}},
	}
}
