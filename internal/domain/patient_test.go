package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientProfile_AgeYears(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dob     time.Time
		want    int
		wantOK  bool
	}{
		{
			name:   "birthday already passed this year",
			dob:    time.Date(1946, 3, 1, 0, 0, 0, 0, time.UTC),
			want:   80,
			wantOK: true,
		},
		{
			name:   "birthday not yet reached this year",
			dob:    time.Date(1946, 9, 1, 0, 0, 0, 0, time.UTC),
			want:   79,
			wantOK: true,
		},
		{
			name:   "birthday today",
			dob:    time.Date(1961, 6, 15, 0, 0, 0, 0, time.UTC),
			want:   65,
			wantOK: true,
		},
		{
			name:   "no date of birth",
			dob:    time.Time{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PatientProfile{Demographics: Demographics{DateOfBirth: tt.dob}}
			got, ok := p.AgeYears(now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPatientProfile_LatestLab(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &PatientProfile{
		LabValues: []LabResult{
			{Type: "Creatinine Clearance", Value: 55, Units: "mL/min", Timestamp: base},
			{Type: "CrCl", Value: 42, Units: "mL/min", Timestamp: base.AddDate(0, 2, 0)},
			{Type: "ALT", Value: 30, Units: "U/L", Timestamp: base},
		},
	}

	lab, ok := p.LatestLab("creatinine clearance", "crcl")
	require.True(t, ok)
	assert.Equal(t, 42.0, lab.Value, "most recent by timestamp wins")

	_, ok = p.LatestLab("total bilirubin")
	assert.False(t, ok)
}

func TestPatientProfile_LatestLab_ShortCodesMatchWholeWordsOnly(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &PatientProfile{
		LabValues: []LabResult{
			{Type: "Creatinine Clearance", Value: 95, Units: "mL/min", Timestamp: ts},
			{Type: "Total Bilirubin", Value: 0.8, Units: "mg/dL", Timestamp: ts},
		},
	}

	// "anc" is a word inside "Creatinine Clearance" only as a fragment;
	// it must never read the CrCl value as a neutrophil count.
	_, ok := p.LatestLab("anc", "absolute neutrophil")
	assert.False(t, ok)
	_, ok = p.LatestLab("alt")
	assert.False(t, ok)

	withANC := &PatientProfile{
		LabValues: []LabResult{
			{Type: "ANC (cells/uL)", Value: 800, Timestamp: ts},
		},
	}
	lab, ok := withANC.LatestLab("anc", "absolute neutrophil")
	require.True(t, ok)
	assert.Equal(t, 800.0, lab.Value)
}

func TestPatientProfile_BMI(t *testing.T) {
	p := &PatientProfile{Demographics: Demographics{HeightCm: 170, WeightKg: 65}}
	bmi, ok := p.BMI()
	require.True(t, ok)
	assert.InDelta(t, 22.49, bmi, 0.01)

	noHeight := &PatientProfile{Demographics: Demographics{WeightKg: 65}}
	_, ok = noHeight.BMI()
	assert.False(t, ok)
	assert.True(t, noHeight.HasWeight())
	assert.False(t, (&PatientProfile{}).HasWeight())
}
