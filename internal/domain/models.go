package domain

// DoseCalculationAlert is a single actionable safety finding produced during
// a dose check. Alerts are created fresh per invocation and never persisted
// by the engine; the ID exists so callers can reference an alert within one
// response.
type DoseCalculationAlert struct {
	ID                 string        `json:"id"`
	Type               AlertType     `json:"type"`
	Severity           AlertSeverity `json:"severity"`
	Message            string        `json:"message"`
	Details            string        `json:"details,omitempty"`
	RecommendedAction  string        `json:"recommended_action"`
	AffectedMedication string        `json:"affected_medication,omitempty"`
	Category           AlertCategory `json:"category"`
	Source             string        `json:"source"`
	// Priority is fixed per rule, 1-10, 10 being most urgent. The final
	// alert list is sorted by priority descending.
	Priority int `json:"priority"`
}

// DoseRecommendation records one applied multiplicative dose adjustment.
// OriginalDose is the running dose before this specific factor was applied,
// so the entries replay the composition in evaluation order.
type DoseRecommendation struct {
	OriginalDose     float64    `json:"original_dose"`
	RecommendedDose  float64    `json:"recommended_dose"`
	Unit             string     `json:"unit"`
	AdjustmentReason string     `json:"adjustment_reason"`
	AdjustmentFactor float64    `json:"adjustment_factor"`
	Confidence       Confidence `json:"confidence"`
	References       []string   `json:"references,omitempty"`
}

// EngineResult is the combined output of a dose-safety check.
type EngineResult struct {
	// RecommendedDose is standardDose times the product of all applied
	// factors, rounded to two decimals.
	RecommendedDose float64 `json:"recommended_dose"`
	// Alerts sorted by priority descending.
	Alerts      []DoseCalculationAlert `json:"alerts"`
	Adjustments []DoseRecommendation   `json:"adjustments"`
	// SafetyScore is 0-100; 100 means no findings. Deductions are additive
	// per alert and floored at zero.
	SafetyScore int `json:"safety_score"`
}

// MonitoringRecommendation describes a lab or exam the care team should
// schedule for a given drug.
type MonitoringRecommendation struct {
	Parameter string  `json:"parameter"`
	Frequency string  `json:"frequency"`
	Rationale string  `json:"rationale"`
	Urgency   Urgency `json:"urgency"`
}

// Validate ensures an alert is safe to surface to clinical consumers.
func (a *DoseCalculationAlert) Validate() error {
	if !a.Type.IsValid() {
		return ErrInvalidAlertType
	}
	if !a.Severity.IsValid() {
		return ErrInvalidSeverity
	}
	if !a.Category.IsValid() {
		return ErrInvalidCategory
	}
	if a.Priority < 1 || a.Priority > 10 {
		return ErrInvalidPriority
	}
	return nil
}
