package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemo-dose-safety-server/internal/domain"
)

func patientWithCrCl(value float64) *domain.PatientProfile {
	return &domain.PatientProfile{
		LabValues: []domain.LabResult{
			{Type: "Creatinine Clearance", Value: value, Units: "mL/min", Timestamp: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestRenalEvaluator_SevereImpairmentCarboplatin(t *testing.T) {
	e := newRenalEvaluator()
	rx := Prescription{Identity: domain.DrugCarboplatin, Name: "Carboplatin"}

	result := e.Evaluate(patientWithCrCl(25), rx)
	require.Len(t, result.Factors, 1)
	assert.Equal(t, 0.5, result.Factors[0].Factor)

	require.Len(t, result.Alerts, 1)
	assert.Equal(t, domain.AlertDosing, result.Alerts[0].Type)
	assert.Equal(t, domain.SeverityCritical, result.Alerts[0].Severity)
	assert.Equal(t, 9, result.Alerts[0].Priority)
}

func TestRenalEvaluator_SevereImpairmentCisplatinAsymmetry(t *testing.T) {
	e := newRenalEvaluator()
	rx := Prescription{Identity: domain.DrugCisplatin, Name: "Cisplatin"}

	result := e.Evaluate(patientWithCrCl(25), rx)
	// Cisplatin is flagged unsuitable, never dose-reduced, at severe
	// impairment.
	assert.Empty(t, result.Factors)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, domain.AlertContraindication, result.Alerts[0].Type)
	assert.Equal(t, domain.SeverityCritical, result.Alerts[0].Severity)
	assert.Equal(t, 10, result.Alerts[0].Priority)
}

func TestRenalEvaluator_ModerateImpairment(t *testing.T) {
	e := newRenalEvaluator()

	for _, identity := range []domain.DrugIdentity{domain.DrugCarboplatin, domain.DrugCisplatin} {
		result := e.Evaluate(patientWithCrCl(40), Prescription{Identity: identity, Name: identity.String()})
		require.Len(t, result.Factors, 1, "drug %s", identity)
		assert.Equal(t, 0.75, result.Factors[0].Factor)
		require.Len(t, result.Alerts, 1)
		assert.Equal(t, domain.SeverityHigh, result.Alerts[0].Severity)
		assert.Equal(t, 8, result.Alerts[0].Priority)
	}

	// Non-platinum drugs are not adjusted in this band.
	result := e.Evaluate(patientWithCrCl(40), Prescription{Identity: domain.DrugPaclitaxel, Name: "Paclitaxel"})
	assert.Empty(t, result.Factors)
	assert.Empty(t, result.Alerts)
}

func TestRenalEvaluator_MildImpairmentMonitoringOnly(t *testing.T) {
	e := newRenalEvaluator()
	rx := Prescription{Identity: domain.DrugPaclitaxel, Name: "Paclitaxel"}

	result := e.Evaluate(patientWithCrCl(65), rx)
	assert.Empty(t, result.Factors)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, domain.AlertMonitoring, result.Alerts[0].Type)
	assert.Equal(t, domain.SeverityModerate, result.Alerts[0].Severity)
	assert.Equal(t, 5, result.Alerts[0].Priority)
}

func TestRenalEvaluator_NormalFunction(t *testing.T) {
	e := newRenalEvaluator()
	rx := Prescription{Identity: domain.DrugCarboplatin, Name: "Carboplatin"}

	result := e.Evaluate(patientWithCrCl(95), rx)
	assert.Empty(t, result.Factors)
	assert.Empty(t, result.Alerts)
}

func TestRenalEvaluator_MissingCrCl(t *testing.T) {
	e := newRenalEvaluator()
	rx := Prescription{Identity: domain.DrugCarboplatin, Name: "Carboplatin"}

	result := e.Evaluate(&domain.PatientProfile{}, rx)
	assert.Empty(t, result.Factors, "missing data fails open on the dose")
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, domain.AlertLab, result.Alerts[0].Type)
	assert.Equal(t, domain.SeverityModerate, result.Alerts[0].Severity)
	assert.Equal(t, 6, result.Alerts[0].Priority)
	assert.Equal(t, domain.CategoryRenal, result.Alerts[0].Category)
}

func TestRenalEvaluator_UsesMostRecentValue(t *testing.T) {
	e := newRenalEvaluator()
	rx := Prescription{Identity: domain.DrugCarboplatin, Name: "Carboplatin"}

	p := &domain.PatientProfile{
		LabValues: []domain.LabResult{
			{Type: "CrCl", Value: 90, Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Type: "Creatinine Clearance", Value: 40, Timestamp: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	result := e.Evaluate(p, rx)
	require.Len(t, result.Factors, 1)
	assert.Equal(t, 0.75, result.Factors[0].Factor, "the newer, lower CrCl must win")
}
