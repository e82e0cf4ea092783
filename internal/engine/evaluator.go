// Package engine implements the chemotherapy dose-safety engine: a pure,
// single-pass pipeline that composes drug-specific dose adjustment factors
// and independent safety checks into a recommended dose, a prioritized
// alert list, and a 0-100 safety score.
//
// The engine holds no mutable state and performs no I/O; one invocation
// reads only its own inputs and allocates fresh outputs, so it is safe to
// call concurrently.
package engine

import (
	"github.com/google/uuid"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// Prescription pairs the resolved drug identity with the free-text name it
// was resolved from. Rule tables branch on Identity; the name survives only
// for allergy matching and alert display.
type Prescription struct {
	Identity domain.DrugIdentity
	Name     string
}

// AppliedFactor is one multiplicative dose adjustment an evaluator decided
// to apply. Factors are always in (0, 1]: the rule set only ever reduces a
// dose.
type AppliedFactor struct {
	Factor     float64
	Reason     string
	Confidence domain.Confidence
	References []string
}

// FactorResult is the tagged output of a factor evaluator: zero or more
// applied factors plus any alerts raised along the way. An evaluator that
// finds nothing returns an empty result.
type FactorResult struct {
	Factors []AppliedFactor
	Alerts  []domain.DoseCalculationAlert
}

// FactorEvaluator inspects the patient and drug and decides whether a dose
// adjustment applies. Evaluators run in a fixed order and each sees only
// the original inputs, never another evaluator's output.
type FactorEvaluator interface {
	Name() string
	Evaluate(patient *domain.PatientProfile, rx Prescription) FactorResult
}

// SafetyChecker raises alerts without affecting the dose.
type SafetyChecker interface {
	Name() string
	Check(patient *domain.PatientProfile, rx Prescription) []domain.DoseCalculationAlert
}

// newAlertID generates the per-invocation alert identifier. IDs are the
// only nondeterministic part of a result.
func newAlertID() string {
	return uuid.New().String()
}
