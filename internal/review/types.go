// Package review provides storage for clinician reviews of dose checks.
// It records whether the clinician accepted, modified, or overrode each
// recommendation, so the rule tables can be audited against real practice.
package review

import (
	"context"
	"io"
	"time"
)

// Action is the clinician's decision on a dose recommendation.
type Action string

const (
	ActionAccepted   Action = "accepted"
	ActionModified   Action = "modified"
	ActionOverridden Action = "overridden"
)

// Review represents a clinician's review of one dose check.
type Review struct {
	ID              int64     `json:"id,omitempty"`
	PatientRef      string    `json:"patient_ref"`      // De-identified patient reference
	DrugName        string    `json:"drug_name"`        // Normalized drug name
	StandardDose    float64   `json:"standard_dose"`
	RecommendedDose float64   `json:"recommended_dose"`
	SafetyScore     int       `json:"safety_score"`
	Action          Action    `json:"action"`
	Agreed          bool      `json:"agreed"` // Did the clinician agree with the recommendation?
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Store defines the interface for review storage operations.
type Store interface {
	// Save stores or updates a review. If a review for the same
	// patient_ref+drug_name exists, it will be updated.
	Save(ctx context.Context, review *Review) error

	// Get retrieves the review for a patient/drug pair. Returns nil when
	// no review exists.
	Get(ctx context.Context, patientRef, drugName string) (*Review, error)

	// List returns review entries newest first with pagination.
	List(ctx context.Context, limit, offset int) ([]*Review, error)

	// Count returns the total number of review entries.
	Count(ctx context.Context) (int64, error)

	// Delete removes a review entry by ID.
	Delete(ctx context.Context, id int64) error

	// ExportJSON exports all reviews to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports reviews from a JSON reader. Existing entries are
	// skipped, never overwritten.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Reviews    []*Review `json:"reviews"`
}
