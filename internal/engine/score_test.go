package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chemo-dose-safety-server/internal/domain"
)

func alertsWithSeverities(severities ...domain.AlertSeverity) []domain.DoseCalculationAlert {
	alerts := make([]domain.DoseCalculationAlert, len(severities))
	for i, s := range severities {
		alerts[i] = domain.DoseCalculationAlert{Severity: s}
	}
	return alerts
}

func TestSafetyScore(t *testing.T) {
	tests := []struct {
		name       string
		severities []domain.AlertSeverity
		want       int
	}{
		{"no alerts", nil, 100},
		{"one low", []domain.AlertSeverity{domain.SeverityLow}, 95},
		{"one moderate", []domain.AlertSeverity{domain.SeverityModerate}, 90},
		{"one high", []domain.AlertSeverity{domain.SeverityHigh}, 80},
		{"one critical", []domain.AlertSeverity{domain.SeverityCritical}, 70},
		{"mixed additive", []domain.AlertSeverity{domain.SeverityCritical, domain.SeverityHigh, domain.SeverityModerate}, 40},
		{"floors at zero", []domain.AlertSeverity{
			domain.SeverityCritical, domain.SeverityCritical, domain.SeverityCritical, domain.SeverityCritical,
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafetyScore(alertsWithSeverities(tt.severities...)))
		})
	}
}
