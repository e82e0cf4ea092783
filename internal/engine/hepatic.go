package engine

import (
	"fmt"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// hepaticEvaluator adjusts dosing on liver function. All three of AST, ALT
// and total bilirubin must be on file for any band to fire; partial data
// yields no factor and no alert from this evaluator. Bands are checked
// highest severity first and only the first match fires.
type hepaticEvaluator struct{}

func newHepaticEvaluator() *hepaticEvaluator { return &hepaticEvaluator{} }

func (e *hepaticEvaluator) Name() string { return "hepatic-evaluator" }

func (e *hepaticEvaluator) Evaluate(patient *domain.PatientProfile, rx Prescription) FactorResult {
	ast, okAST := patient.LatestLab("ast", "aspartate aminotransferase")
	alt, okALT := patient.LatestLab("alt", "alanine aminotransferase")
	bili, okBili := patient.LatestLab("bilirubin")
	if !okAST || !okALT || !okBili {
		return FactorResult{}
	}

	details := fmt.Sprintf("AST %.0f U/L, ALT %.0f U/L, total bilirubin %.1f mg/dL", ast.Value, alt.Value, bili.Value)

	switch {
	case ast.Value > astAltSevere || alt.Value > astAltSevere || bili.Value > bilirubinSevere:
		reason := "Severe hepatic impairment requires 50% dose reduction"
		return FactorResult{
			Factors: []AppliedFactor{{
				Factor:     0.5,
				Reason:     reason,
				Confidence: domain.ConfidenceHigh,
				References: []string{"Hepatic impairment chemotherapy dosing guidance"},
			}},
			Alerts: []domain.DoseCalculationAlert{{
				ID:                 newAlertID(),
				Type:               domain.AlertDosing,
				Severity:           domain.SeverityCritical,
				Message:            "Severe hepatic impairment: dose halved",
				Details:            details,
				RecommendedAction:  "Confirm liver function and consider hepatology consult before administration",
				AffectedMedication: rx.Name,
				Category:           domain.CategoryHepatic,
				Source:             e.Name(),
				Priority:           9,
			}},
		}
	case ast.Value > astAltModerate || alt.Value > astAltModerate || bili.Value > bilirubinModerate:
		reason := "Moderate hepatic impairment requires 25% dose reduction"
		return FactorResult{
			Factors: []AppliedFactor{{
				Factor:     0.75,
				Reason:     reason,
				Confidence: domain.ConfidenceHigh,
				References: []string{"Hepatic impairment chemotherapy dosing guidance"},
			}},
			Alerts: []domain.DoseCalculationAlert{{
				ID:                 newAlertID(),
				Type:               domain.AlertDosing,
				Severity:           domain.SeverityHigh,
				Message:            "Moderate hepatic impairment: dose reduced by 25%",
				Details:            details,
				RecommendedAction:  "Repeat liver panel before each cycle",
				AffectedMedication: rx.Name,
				Category:           domain.CategoryHepatic,
				Source:             e.Name(),
				Priority:           8,
			}},
		}
	case ast.Value > astAltMild || alt.Value > astAltMild || bili.Value > bilirubinMild:
		return FactorResult{Alerts: []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertMonitoring,
			Severity:           domain.SeverityModerate,
			Message:            "Mildly elevated liver function tests",
			Details:            details,
			RecommendedAction:  "Monitor liver function during treatment; no dose change required",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryHepatic,
			Source:             e.Name(),
			Priority:           5,
		}}}
	default:
		return FactorResult{}
	}
}
