package engine

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// Engine orchestrates the dose-safety pipeline: factor evaluators run in a
// fixed order and fold their factors into the running dose, independent
// checkers contribute alerts only, and the result is scored and sorted.
// The engine is stateless; one instance serves any number of concurrent
// callers.
type Engine struct {
	logger     *logrus.Logger
	evaluators []FactorEvaluator
	checkers   []SafetyChecker
}

// New creates a dose-safety engine with the standard evaluator and checker
// set.
func New(logger *logrus.Logger) *Engine {
	return &Engine{
		logger: logger,
		evaluators: []FactorEvaluator{
			newAgeEvaluator(nil),
			newRenalEvaluator(),
			newHepaticEvaluator(),
			newGeneticEvaluator(),
		},
		checkers: []SafetyChecker{
			newWeightChecker(),
			newAllergyChecker(),
			newLabChecker(),
			newContraindicationChecker(),
		},
	}
}

// CalculateDoseWithAlerts runs the full safety check for a prescribed drug
// and standard dose, resolving the drug identity from its free-text name.
// Missing or abnormal clinical data surfaces as alerts on the result;
// only structurally invalid input returns an error.
func (e *Engine) CalculateDoseWithAlerts(patient *domain.PatientProfile, drug *domain.Drug, standardDose float64, unit, indication string) (*domain.EngineResult, error) {
	if err := validateInput(patient, drug, standardDose); err != nil {
		return nil, err
	}
	return e.CalculateWithIdentity(patient, drug, domain.ResolveDrugIdentity(drug.Name), standardDose, unit, indication)
}

// CalculateWithIdentity runs the safety check with a pre-resolved drug
// identity, for callers that normalize drug names at their own boundary.
func (e *Engine) CalculateWithIdentity(patient *domain.PatientProfile, drug *domain.Drug, identity domain.DrugIdentity, standardDose float64, unit, indication string) (*domain.EngineResult, error) {
	if err := validateInput(patient, drug, standardDose); err != nil {
		return nil, err
	}

	rx := Prescription{Identity: identity, Name: drug.Name}
	e.logger.WithFields(logrus.Fields{
		"drug":          drug.Name,
		"drug_identity": identity.String(),
		"standard_dose": standardDose,
		"unit":          unit,
		"indication":    indication,
	}).Debug("Starting dose safety check")

	alerts := make([]domain.DoseCalculationAlert, 0, 8)
	adjustments := make([]domain.DoseRecommendation, 0, 4)
	runningDose := standardDose

	for _, evaluator := range e.evaluators {
		result := evaluator.Evaluate(patient, rx)
		alerts = append(alerts, result.Alerts...)
		for _, applied := range result.Factors {
			adjusted := runningDose * applied.Factor
			adjustments = append(adjustments, domain.DoseRecommendation{
				OriginalDose:     round2(runningDose),
				RecommendedDose:  round2(adjusted),
				Unit:             unit,
				AdjustmentReason: applied.Reason,
				AdjustmentFactor: applied.Factor,
				Confidence:       applied.Confidence,
				References:       applied.References,
			})
			runningDose = adjusted
		}
	}

	for _, checker := range e.checkers {
		alerts = append(alerts, checker.Check(patient, rx)...)
	}

	// Stable sort keeps the evaluation order among equal priorities, so
	// identical inputs always produce the same alert ordering.
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Priority > alerts[j].Priority
	})

	result := &domain.EngineResult{
		RecommendedDose: round2(runningDose),
		Alerts:          alerts,
		Adjustments:     adjustments,
		SafetyScore:     SafetyScore(alerts),
	}

	e.logger.WithFields(logrus.Fields{
		"drug":             drug.Name,
		"drug_identity":    identity.String(),
		"standard_dose":    standardDose,
		"recommended_dose": result.RecommendedDose,
		"adjustments":      len(result.Adjustments),
		"alerts":           len(result.Alerts),
		"safety_score":     result.SafetyScore,
	}).Info("Completed dose safety check")

	return result, nil
}

// MonitoringRecommendations returns the scheduled monitoring the drug
// requires. The schedule is fixed per drug identity.
func (e *Engine) MonitoringRecommendations(patient *domain.PatientProfile, drug *domain.Drug) ([]domain.MonitoringRecommendation, error) {
	if patient == nil {
		return nil, domain.ErrNilPatient
	}
	if drug == nil {
		return nil, domain.ErrNilDrug
	}
	if drug.Name == "" {
		return nil, domain.ErrEmptyDrugName
	}

	identity := domain.ResolveDrugIdentity(drug.Name)
	recs := monitoringRecommendations(identity)
	e.logger.WithFields(logrus.Fields{
		"drug":            drug.Name,
		"drug_identity":   identity.String(),
		"recommendations": len(recs),
	}).Debug("Collected monitoring recommendations")
	return recs, nil
}

func validateInput(patient *domain.PatientProfile, drug *domain.Drug, standardDose float64) error {
	if patient == nil {
		return domain.ErrNilPatient
	}
	if drug == nil {
		return domain.ErrNilDrug
	}
	if drug.Name == "" {
		return domain.ErrEmptyDrugName
	}
	if standardDose <= 0 {
		return domain.ErrInvalidDose
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
