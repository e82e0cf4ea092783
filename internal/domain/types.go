// Package domain contains the core business entities and types for
// chemotherapy dose-safety checking: patient profiles, drug identities,
// dose recommendations, and safety alerts.
//
// The engine that consumes these types produces deterministic, explainable
// recommendations from a fixed rule set; it supports but never replaces
// clinician judgment.
package domain

// AlertType categorizes what kind of safety finding an alert represents.
type AlertType string

const (
	AlertDosing           AlertType = "dosing"
	AlertAllergy          AlertType = "allergy"
	AlertInteraction      AlertType = "interaction"
	AlertContraindication AlertType = "contraindication"
	AlertMonitoring       AlertType = "monitoring"
	AlertLab              AlertType = "lab"
)

// AlertSeverity grades the clinical urgency of an alert.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityModerate AlertSeverity = "moderate"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertCategory identifies the organ system or dosing concern an alert
// belongs to.
type AlertCategory string

const (
	CategoryRenal       AlertCategory = "renal"
	CategoryHepatic     AlertCategory = "hepatic"
	CategoryCardiac     AlertCategory = "cardiac"
	CategoryHematologic AlertCategory = "hematologic"
	CategoryAge         AlertCategory = "age"
	CategoryWeight      AlertCategory = "weight"
	CategoryBSA         AlertCategory = "bsa"
	CategoryGenetic     AlertCategory = "genetic"
	CategoryGeneral     AlertCategory = "general"
)

// Confidence expresses how well-supported a dose adjustment is.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceLow      Confidence = "low"
)

// Urgency grades a monitoring recommendation.
type Urgency string

const (
	UrgencyRoutine  Urgency = "routine"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// IsValid validates the alert type. Only valid types may reach clinical
// display surfaces.
func (t AlertType) IsValid() bool {
	switch t {
	case AlertDosing, AlertAllergy, AlertInteraction, AlertContraindication, AlertMonitoring, AlertLab:
		return true
	default:
		return false
	}
}

// String returns the string representation of the alert type.
func (t AlertType) String() string { return string(t) }

// IsValid validates the alert severity.
func (s AlertSeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s AlertSeverity) String() string { return string(s) }

// IsValid validates the alert category.
func (c AlertCategory) IsValid() bool {
	switch c {
	case CategoryRenal, CategoryHepatic, CategoryCardiac, CategoryHematologic,
		CategoryAge, CategoryWeight, CategoryBSA, CategoryGenetic, CategoryGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c AlertCategory) String() string { return string(c) }

// IsValid validates the confidence level.
func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceModerate, ConfidenceLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the confidence level.
func (c Confidence) String() string { return string(c) }

// IsValid validates the monitoring urgency.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyRoutine, UrgencyUrgent, UrgencyCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the urgency.
func (u Urgency) String() string { return string(u) }
