package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemo-dose-safety-server/internal/database"
	"github.com/chemo-dose-safety-server/internal/domain"
	"github.com/chemo-dose-safety-server/internal/engine"
	"github.com/chemo-dose-safety-server/internal/formulary"
	"github.com/chemo-dose-safety-server/internal/review"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	resolver, err := formulary.NewCachedResolver(formulary.Options{}, logger)
	require.NoError(t, err)

	store, err := review.NewSQLiteStore(filepath.Join(t.TempDir(), "reviews.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &domain.Config{
		Server:  domain.ServerConfig{Host: "127.0.0.1", Port: 0},
		Logging: domain.LoggingConfig{Level: "info"},
	}

	return NewServer(cfg, logger, engine.New(logger), resolver, store, nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestDoseCheckEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := map[string]interface{}{
		"patient": map[string]interface{}{
			"demographics": map[string]interface{}{
				"date_of_birth": time.Now().AddDate(-80, 0, -1).Format(time.RFC3339),
			},
		},
		"drug_name":     "Carboplatin",
		"standard_dose": 300,
		"unit":          "mg",
		"indication":    "ovarian cancer",
	}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/dose-check", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp DoseCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "carboplatin", resp.DrugIdentity)
	assert.Equal(t, 240.0, resp.Result.RecommendedDose)
	assert.NotEmpty(t, resp.Result.Alerts)
	assert.Less(t, resp.Result.SafetyScore, 100)
}

func TestDoseCheckEndpoint_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing drug name", map[string]interface{}{
			"patient":       map[string]interface{}{"demographics": map[string]interface{}{}},
			"standard_dose": 300,
		}},
		{"zero dose", map[string]interface{}{
			"patient":       map[string]interface{}{"demographics": map[string]interface{}{}},
			"drug_name":     "Carboplatin",
			"standard_dose": 0,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/v1/dose-check", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMonitoringEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := map[string]interface{}{
		"patient":   map[string]interface{}{"demographics": map[string]interface{}{}},
		"drug_name": "Cisplatin",
	}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/monitoring", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		DrugName        string                            `json:"drug_name"`
		Recommendations []domain.MonitoringRecommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Cisplatin", resp.DrugName)
	assert.Len(t, resp.Recommendations, 4)
}

func TestMonitoringEndpoint_UnknownDrugIsEmpty(t *testing.T) {
	s := newTestServer(t)

	body := map[string]interface{}{
		"patient":   map[string]interface{}{"demographics": map[string]interface{}{}},
		"drug_name": "InvestigationalDrug",
	}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/monitoring", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recommendations":[]`)
}

func TestReviewEndpoints(t *testing.T) {
	s := newTestServer(t)

	rv := map[string]interface{}{
		"patient_ref":      "pt-0042",
		"drug_name":        "carboplatin",
		"standard_dose":    300,
		"recommended_dose": 240,
		"safety_score":     50,
		"action":           "accepted",
		"agreed":           true,
	}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/reviews", rv)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Lookup by patient and drug.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/reviews?patient_ref=pt-0042&drug_name=carboplatin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got review.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, review.ActionAccepted, got.Action)
	assert.Equal(t, 240.0, got.RecommendedDose)

	// Paginated list.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/reviews?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Reviews []*review.Review `json:"reviews"`
		Total   int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Reviews, 1)
	assert.EqualValues(t, 1, list.Total)

	// Missing review.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/reviews?patient_ref=pt-none&drug_name=carboplatin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewEndpoint_Validation(t *testing.T) {
	s := newTestServer(t)

	rv := map[string]interface{}{
		"patient_ref":      "pt-0042",
		"drug_name":        "carboplatin",
		"standard_dose":    300,
		"recommended_dose": 240,
		"action":           "shredded",
	}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/reviews", rv)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestHealthEndpoint_DegradedDatabase(t *testing.T) {
	s := newTestServer(t)
	s.dbHealth = failingHealth{}

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

type failingHealth struct{}

func (failingHealth) Health(ctx context.Context) error {
	return fmt.Errorf("connection refused")
}

func TestHealthEndpoint_NilDatabasePointer(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	resolver, err := formulary.NewCachedResolver(formulary.Options{}, logger)
	require.NoError(t, err)

	store, err := review.NewSQLiteStore(filepath.Join(t.TempDir(), "reviews.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &domain.Config{
		Server:  domain.ServerConfig{Host: "127.0.0.1", Port: 0},
		Logging: domain.LoggingConfig{Level: "info"},
	}

	// On the sqlite backend there is no pool; a nil *database.DB passed
	// through the interface must read as healthy, not panic on Ping.
	var db *database.DB
	s := NewServer(cfg, logger, engine.New(logger), resolver, store, db)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_total")
}

func TestCorrelationIDHeader(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}
