package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chemo-dose-safety-server/internal/domain"
	"github.com/chemo-dose-safety-server/internal/metrics"
	"github.com/chemo-dose-safety-server/internal/review"
)

// DoseCheckRequest is the body of POST /api/v1/dose-check.
type DoseCheckRequest struct {
	Patient      domain.PatientProfile `json:"patient" binding:"required"`
	DrugName     string                `json:"drug_name" binding:"required"`
	StandardDose float64               `json:"standard_dose" binding:"required,gt=0"`
	Unit         string                `json:"unit"`
	Indication   string                `json:"indication"`
}

// DoseCheckResponse pairs the engine result with the resolved drug.
type DoseCheckResponse struct {
	DrugName       string                      `json:"drug_name"`
	DrugIdentity   string                      `json:"drug_identity"`
	NormalizedName string                      `json:"normalized_name,omitempty"`
	StandardDose   float64                     `json:"standard_dose"`
	Unit           string                      `json:"unit,omitempty"`
	Result         *domain.EngineResult        `json:"result"`
}

// MonitoringRequest is the body of POST /api/v1/monitoring.
type MonitoringRequest struct {
	Patient  domain.PatientProfile `json:"patient" binding:"required"`
	DrugName string                `json:"drug_name" binding:"required"`
}

// handleDoseCheck runs a full dose safety check.
func (s *Server) handleDoseCheck(c *gin.Context) {
	var req DoseCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	resolution, err := s.resolver.Resolve(c.Request.Context(), req.DrugName)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	drug := &domain.Drug{Name: req.DrugName}
	result, err := s.engine.CalculateWithIdentity(&req.Patient, drug, resolution.Identity, req.StandardDose, req.Unit, req.Indication)
	if err != nil {
		metrics.DoseChecksTotal.WithLabelValues(resolution.Identity.String(), "error").Inc()
		s.badRequest(c, err)
		return
	}

	outcome := "clear"
	for _, alert := range result.Alerts {
		metrics.DoseCheckAlertsTotal.WithLabelValues(alert.Severity.String()).Inc()
		if alert.Severity == domain.SeverityCritical {
			outcome = "critical"
		} else if outcome == "clear" {
			outcome = "flagged"
		}
	}
	metrics.DoseChecksTotal.WithLabelValues(resolution.Identity.String(), outcome).Inc()

	s.logger.WithFields(logrus.Fields{
		"correlation_id": c.GetString("correlation_id"),
		"drug":           req.DrugName,
		"drug_identity":  resolution.Identity.String(),
		"safety_score":   result.SafetyScore,
		"alerts":         len(result.Alerts),
	}).Info("Dose check served")

	c.JSON(http.StatusOK, DoseCheckResponse{
		DrugName:       req.DrugName,
		DrugIdentity:   resolution.Identity.String(),
		NormalizedName: resolution.NormalizedName,
		StandardDose:   req.StandardDose,
		Unit:           req.Unit,
		Result:         result,
	})
}

// handleMonitoring returns the monitoring schedule for a drug.
func (s *Server) handleMonitoring(c *gin.Context) {
	var req MonitoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	recs, err := s.engine.MonitoringRecommendations(&req.Patient, &domain.Drug{Name: req.DrugName})
	if err != nil {
		s.badRequest(c, err)
		return
	}
	if recs == nil {
		recs = []domain.MonitoringRecommendation{}
	}

	c.JSON(http.StatusOK, gin.H{
		"drug_name":       req.DrugName,
		"recommendations": recs,
	})
}

// handleSaveReview records a clinician's review of a dose check.
func (s *Server) handleSaveReview(c *gin.Context) {
	var rv review.Review
	if err := c.ShouldBindJSON(&rv); err != nil {
		s.badRequest(c, err)
		return
	}
	if rv.PatientRef == "" || rv.DrugName == "" {
		s.badRequestMsg(c, "patient_ref and drug_name are required")
		return
	}
	switch rv.Action {
	case review.ActionAccepted, review.ActionModified, review.ActionOverridden:
	default:
		s.badRequestMsg(c, "action must be accepted, modified, or overridden")
		return
	}

	if err := s.reviews.Save(c.Request.Context(), &rv); err != nil {
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rv)
}

// handleListReviews lists stored reviews with pagination, or a single
// review when patient_ref and drug_name are both given.
func (s *Server) handleListReviews(c *gin.Context) {
	patientRef := c.Query("patient_ref")
	drugName := c.Query("drug_name")
	if patientRef != "" && drugName != "" {
		rv, err := s.reviews.Get(c.Request.Context(), patientRef, drugName)
		if err != nil {
			s.internalError(c, err)
			return
		}
		if rv == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusOK, rv)
		return
	}

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := s.reviews.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if reviews == nil {
		reviews = []*review.Review{}
	}

	total, err := s.reviews.Count(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{"engine": "ok"}

	if s.dbHealth != nil {
		if err := s.dbHealth.Health(c.Request.Context()); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}

	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"checks":    checks,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":          err.Error(),
		"correlation_id": c.GetString("correlation_id"),
	})
}

func (s *Server) badRequestMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":          msg,
		"correlation_id": c.GetString("correlation_id"),
	})
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.WithError(err).WithField("correlation_id", c.GetString("correlation_id")).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":          "internal error",
		"correlation_id": c.GetString("correlation_id"),
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
