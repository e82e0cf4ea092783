package domain

import (
	"strings"
	"time"
	"unicode"
)

// Demographics holds the patient attributes used for dose adjustment.
// HeightCm and WeightKg are optional; zero means not recorded.
type Demographics struct {
	DateOfBirth time.Time `json:"date_of_birth"`
	Sex         string    `json:"sex,omitempty"`
	HeightCm    float64   `json:"height_cm,omitempty"`
	WeightKg    float64   `json:"weight_kg,omitempty"`
}

// LabResult is one entry in the patient's append-only lab history.
type LabResult struct {
	Type      string    `json:"lab_type"`
	Value     float64   `json:"value"`
	Units     string    `json:"units,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GeneticRecord is a pharmacogenomic finding for one gene.
type GeneticRecord struct {
	GeneSymbol        string `json:"gene_symbol"`
	Phenotype         string `json:"phenotype,omitempty"`
	MetabolizerStatus string `json:"metabolizer_status,omitempty"`
}

// Allergy is a documented patient allergy with its reaction severity.
type Allergy struct {
	Allergen string `json:"allergen"`
	Severity string `json:"severity,omitempty"`
}

// Condition is a diagnosis on the patient's problem list.
type Condition struct {
	Name   string `json:"condition"`
	Status string `json:"status,omitempty"`
}

// PatientProfile is the read-only clinical picture a dose check runs
// against. It is owned by the caller and assumed already validated; the
// engine only reads it.
type PatientProfile struct {
	Demographics Demographics    `json:"demographics"`
	LabValues    []LabResult     `json:"lab_values,omitempty"`
	Genetics     []GeneticRecord `json:"genetics,omitempty"`
	Allergies    []Allergy       `json:"allergies,omitempty"`
	Conditions   []Condition     `json:"conditions,omitempty"`
}

// AgeYears returns the patient's age in whole years at the given time,
// accounting for a birthday that has not yet occurred this year. The second
// return is false when no date of birth is recorded.
func (p *PatientProfile) AgeYears(at time.Time) (int, bool) {
	dob := p.Demographics.DateOfBirth
	if dob.IsZero() || dob.After(at) {
		return 0, false
	}
	years := at.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years, true
}

// LatestLab returns the most recent lab result matching any of the given
// matchers, case-insensitively. A multi-word matcher is a substring match
// against the lab type; a single-word matcher must equal a whole word of
// the type, so a short code like "anc" cannot hit inside "Creatinine
// Clearance". The lab history is unordered input; recency is decided by
// timestamp.
func (p *PatientProfile) LatestLab(matchers ...string) (LabResult, bool) {
	var latest LabResult
	found := false
	for _, lab := range p.LabValues {
		if !labTypeMatches(lab.Type, matchers) {
			continue
		}
		if !found || lab.Timestamp.After(latest.Timestamp) {
			latest = lab
			found = true
		}
	}
	return latest, found
}

func labTypeMatches(labType string, matchers []string) bool {
	labType = strings.ToLower(labType)
	var words []string
	for _, m := range matchers {
		m = strings.ToLower(m)
		if strings.Contains(m, " ") {
			if strings.Contains(labType, m) {
				return true
			}
			continue
		}
		if words == nil {
			words = strings.FieldsFunc(labType, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
		}
		for _, w := range words {
			if w == m {
				return true
			}
		}
	}
	return false
}

// HasWeight reports whether a usable body weight is recorded.
func (p *PatientProfile) HasWeight() bool {
	return p.Demographics.WeightKg > 0
}

// BMI computes body mass index from recorded height and weight. The second
// return is false when either measurement is missing.
func (p *PatientProfile) BMI() (float64, bool) {
	w := p.Demographics.WeightKg
	h := p.Demographics.HeightCm
	if w <= 0 || h <= 0 {
		return 0, false
	}
	m := h / 100.0
	return w / (m * m), true
}
