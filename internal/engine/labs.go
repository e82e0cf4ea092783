package engine

import (
	"fmt"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// labChecker gates treatment on hematologic and cardiac lab values. It is
// independent of the renal and hepatic evaluators, which consume different
// lab parameters; this checker never adjusts the dose.
type labChecker struct{}

func newLabChecker() *labChecker { return &labChecker{} }

func (c *labChecker) Name() string { return "lab-value-checker" }

func (c *labChecker) Check(patient *domain.PatientProfile, rx Prescription) []domain.DoseCalculationAlert {
	var alerts []domain.DoseCalculationAlert
	alerts = append(alerts, c.checkANC(patient, rx)...)
	alerts = append(alerts, c.checkPlatelets(patient, rx)...)
	alerts = append(alerts, c.checkLVEF(patient, rx)...)
	return alerts
}

func (c *labChecker) checkANC(patient *domain.PatientProfile, rx Prescription) []domain.DoseCalculationAlert {
	if !rx.Identity.IsMyelosuppressive() {
		return nil
	}
	anc, ok := patient.LatestLab("anc", "absolute neutrophil")
	if !ok {
		return nil
	}

	switch {
	case anc.Value < ancHold:
		return []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertLab,
			Severity:           domain.SeverityCritical,
			Message:            fmt.Sprintf("Severe neutropenia (ANC %.0f): hold chemotherapy", anc.Value),
			Details:            "ANC below 1000 with a myelosuppressive agent",
			RecommendedAction:  "Hold treatment until count recovery; consider growth factor support",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryHematologic,
			Source:             c.Name(),
			Priority:           10,
		}}
	case anc.Value < ancCaution:
		return []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertLab,
			Severity:           domain.SeverityHigh,
			Message:            fmt.Sprintf("Borderline neutropenia (ANC %.0f)", anc.Value),
			Details:            "ANC 1000-1499 with a myelosuppressive agent",
			RecommendedAction:  "Recheck CBC before administration; anticipate deeper nadir",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryHematologic,
			Source:             c.Name(),
			Priority:           8,
		}}
	default:
		return nil
	}
}

func (c *labChecker) checkPlatelets(patient *domain.PatientProfile, rx Prescription) []domain.DoseCalculationAlert {
	plt, ok := patient.LatestLab("platelet", "platelets")
	if !ok {
		return nil
	}

	switch {
	case plt.Value < plateletHold:
		return []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertLab,
			Severity:           domain.SeverityCritical,
			Message:            fmt.Sprintf("Severe thrombocytopenia (platelets %.0f)", plt.Value),
			Details:            "Platelet count below 50 x10^9/L",
			RecommendedAction:  "Hold treatment; evaluate bleeding risk and transfusion need",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryHematologic,
			Source:             c.Name(),
			Priority:           10,
		}}
	case plt.Value < plateletCaution:
		return []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertLab,
			Severity:           domain.SeverityHigh,
			Message:            fmt.Sprintf("Moderate thrombocytopenia (platelets %.0f)", plt.Value),
			Details:            "Platelet count 50-99 x10^9/L",
			RecommendedAction:  "Recheck platelets before administration",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryHematologic,
			Source:             c.Name(),
			Priority:           8,
		}}
	default:
		return nil
	}
}

func (c *labChecker) checkLVEF(patient *domain.PatientProfile, rx Prescription) []domain.DoseCalculationAlert {
	if !rx.Identity.IsCardiotoxic() {
		return nil
	}
	lvef, ok := patient.LatestLab("lvef", "ejection fraction")
	if !ok {
		return nil
	}

	switch {
	case lvef.Value < lvefHold:
		return []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertLab,
			Severity:           domain.SeverityCritical,
			Message:            fmt.Sprintf("Reduced cardiac function (LVEF %.0f%%)", lvef.Value),
			Details:            "LVEF below 40% with a cardiotoxic agent",
			RecommendedAction:  "Hold cardiotoxic therapy; obtain cardiology evaluation",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryCardiac,
			Source:             c.Name(),
			Priority:           9,
		}}
	case lvef.Value < lvefCaution:
		return []domain.DoseCalculationAlert{{
			ID:                 newAlertID(),
			Type:               domain.AlertLab,
			Severity:           domain.SeverityHigh,
			Message:            fmt.Sprintf("Borderline cardiac function (LVEF %.0f%%)", lvef.Value),
			Details:            "LVEF 40-49% with a cardiotoxic agent",
			RecommendedAction:  "Repeat echocardiogram before continuing therapy",
			AffectedMedication: rx.Name,
			Category:           domain.CategoryCardiac,
			Source:             c.Name(),
			Priority:           9,
		}}
	default:
		return nil
	}
}
