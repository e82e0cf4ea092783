package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemo-dose-safety-server/internal/domain"
)

func patientWithLFTs(ast, alt, bili float64) *domain.PatientProfile {
	ts := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return &domain.PatientProfile{
		LabValues: []domain.LabResult{
			{Type: "AST", Value: ast, Units: "U/L", Timestamp: ts},
			{Type: "ALT", Value: alt, Units: "U/L", Timestamp: ts},
			{Type: "Total Bilirubin", Value: bili, Units: "mg/dL", Timestamp: ts},
		},
	}
}

func TestHepaticEvaluator_Bands(t *testing.T) {
	e := newHepaticEvaluator()
	rx := Prescription{Identity: domain.DrugDoxorubicin, Name: "Doxorubicin"}

	tests := []struct {
		name         string
		ast, alt     float64
		bili         float64
		wantFactor   float64
		wantSeverity domain.AlertSeverity
		wantPriority int
		wantType     domain.AlertType
	}{
		{"severe by AST", 130, 30, 0.8, 0.5, domain.SeverityCritical, 9, domain.AlertDosing},
		{"severe by bilirubin", 30, 30, 3.5, 0.5, domain.SeverityCritical, 9, domain.AlertDosing},
		{"moderate by ALT", 30, 95, 0.8, 0.75, domain.SeverityHigh, 8, domain.AlertDosing},
		{"moderate by bilirubin", 30, 30, 2.5, 0.75, domain.SeverityHigh, 8, domain.AlertDosing},
		{"mild by AST", 55, 30, 0.8, 0, domain.SeverityModerate, 5, domain.AlertMonitoring},
		{"mild by bilirubin", 30, 30, 1.5, 0, domain.SeverityModerate, 5, domain.AlertMonitoring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Evaluate(patientWithLFTs(tt.ast, tt.alt, tt.bili), rx)
			require.Len(t, result.Alerts, 1)
			assert.Equal(t, tt.wantType, result.Alerts[0].Type)
			assert.Equal(t, tt.wantSeverity, result.Alerts[0].Severity)
			assert.Equal(t, tt.wantPriority, result.Alerts[0].Priority)
			assert.Equal(t, domain.CategoryHepatic, result.Alerts[0].Category)

			if tt.wantFactor > 0 {
				require.Len(t, result.Factors, 1)
				assert.Equal(t, tt.wantFactor, result.Factors[0].Factor)
			} else {
				assert.Empty(t, result.Factors)
			}
		})
	}
}

func TestHepaticEvaluator_OnlyHighestBandFires(t *testing.T) {
	e := newHepaticEvaluator()
	rx := Prescription{Identity: domain.DrugDoxorubicin, Name: "Doxorubicin"}

	// All three values abnormal across different bands: only the severe
	// band may fire.
	result := e.Evaluate(patientWithLFTs(130, 95, 1.5), rx)
	require.Len(t, result.Factors, 1)
	assert.Equal(t, 0.5, result.Factors[0].Factor)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, domain.SeverityCritical, result.Alerts[0].Severity)
}

func TestHepaticEvaluator_PartialDataIsSilent(t *testing.T) {
	e := newHepaticEvaluator()
	rx := Prescription{Identity: domain.DrugDoxorubicin, Name: "Doxorubicin"}

	ts := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	p := &domain.PatientProfile{
		LabValues: []domain.LabResult{
			{Type: "AST", Value: 200, Timestamp: ts},
			{Type: "ALT", Value: 200, Timestamp: ts},
			// No bilirubin on file.
		},
	}

	result := e.Evaluate(p, rx)
	assert.Empty(t, result.Factors)
	assert.Empty(t, result.Alerts)
}

func TestHepaticEvaluator_NormalValues(t *testing.T) {
	e := newHepaticEvaluator()
	rx := Prescription{Identity: domain.DrugDoxorubicin, Name: "Doxorubicin"}

	result := e.Evaluate(patientWithLFTs(25, 22, 0.8), rx)
	assert.Empty(t, result.Factors)
	assert.Empty(t, result.Alerts)
}
