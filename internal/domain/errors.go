package domain

import "errors"

// Boundary validation errors. Missing or abnormal clinical data never
// produces an error: it degrades to an alert on the result. These errors
// cover only structurally invalid requests, which fail fast before any
// evaluator runs.
var (
	ErrNilPatient       = errors.New("patient profile is required")
	ErrNilDrug          = errors.New("drug is required")
	ErrEmptyDrugName    = errors.New("drug name is required")
	ErrInvalidDose      = errors.New("standard dose must be positive")
	ErrInvalidAlertType = errors.New("invalid alert type")
	ErrInvalidSeverity  = errors.New("invalid alert severity")
	ErrInvalidCategory  = errors.New("invalid alert category")
	ErrInvalidPriority  = errors.New("alert priority must be between 1 and 10")
)
