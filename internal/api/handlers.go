package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/heart-risk-server/internal/domain"
	"github.com/heart-risk-server/internal/report"
)

// AssessmentRequest is the payload for creating a new risk assessment
type AssessmentRequest struct {
	PatientLabel string               `json:"patient_label"`
	Input        domain.ClinicalInput `json:"input"`
}

// AssessmentListResponse wraps a page of archived assessments
type AssessmentListResponse struct {
	Count   int                    `json:"count"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
	Records []*domain.ReportRecord `json:"records"`
}

// ModelInsightsResponse carries the fitted model coefficients
type ModelInsightsResponse struct {
	Count    int                     `json:"count"`
	Features []domain.FeatureInsight `json:"features"`
}

// session resolves the caller's session from the X-Session-ID header,
// creating one on first contact, and echoes the ID on the response.
func (s *Server) session(c *gin.Context) *clientSession {
	id, cs := s.sessions.acquire(c.GetHeader(sessionHeader))
	c.Header(sessionHeader, id)
	return cs
}

// handleCreateAssessment runs the full assessment cycle for the caller's
// session: submit, encode, score, classify, assemble, archive. Any failure
// before a score rolls the submission back with the history untouched.
func (s *Server) handleCreateAssessment(c *gin.Context) {
	var req AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput,
			"Request body is not a valid assessment", err.Error())
		return
	}

	cs := s.session(c)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.session.Submit(); err != nil {
		s.log.WithError(err).Error("Session refused submission")
		s.respondError(c, http.StatusConflict, domain.ErrCodeInternalServer,
			"A submission is already in progress for this session", "")
		return
	}

	features, err := s.deps.Encoder.Encode(req.Input)
	if err != nil {
		cs.session.SubmissionFailed()
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput,
				domainErr.Message, fmt.Sprintf("field: %s", domainErr.Field))
			return
		}
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput,
			"Clinical input could not be encoded", err.Error())
		return
	}

	probability, err := s.deps.Model.PredictProbability(features)
	if err != nil {
		cs.session.SubmissionFailed()
		if errors.Is(err, domain.ErrModelUnavailable) {
			s.respondError(c, http.StatusServiceUnavailable, domain.ErrCodeModelUnavailable,
				"Scoring model is not available", "")
			return
		}
		s.log.WithError(err).Error("Prediction failed")
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer,
			"Prediction failed", "")
		return
	}

	score := domain.ScoreResult{Probability: probability}
	band, recommendation, err := s.deps.Classifier.Classify(score.Percent())
	if err != nil {
		cs.session.SubmissionFailed()
		s.log.WithError(err).WithField("probability", probability).Error("Classification failed")
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer,
			"Risk classification failed", "")
		return
	}
	score.Band = band
	score.Recommendation = recommendation

	record := report.Assemble(req.Input, score, req.PatientLabel, time.Now())

	if s.deps.Archive != nil {
		if err := s.deps.Archive.Save(c.Request.Context(), record); err != nil {
			cs.session.SubmissionFailed()
			s.log.WithError(err).WithField("record_id", record.ID).Error("Failed to archive assessment")
			s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError,
				"Assessment could not be archived", "")
			return
		}
	}

	if err := cs.session.Scored(record); err != nil {
		s.log.WithError(err).WithField("record_id", record.ID).Error("Session refused scored record")
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer,
			"Assessment could not be recorded", "")
		return
	}

	s.log.WithFields(logrus.Fields{
		"record_id":   record.ID,
		"probability": probability,
		"band":        band,
	}).Info("Assessment completed")

	c.JSON(http.StatusCreated, record)
}

// handleListAssessments returns archived assessments, most recent first.
// Without an archive backend it serves the caller's session history.
func (s *Server) handleListAssessments(c *gin.Context) {
	limit := parsePositiveInt(c.Query("limit"), 20)
	offset := parsePositiveInt(c.Query("offset"), 0)
	if limit > 100 {
		limit = 100
	}

	if s.deps.Archive == nil {
		cs := s.session(c)
		cs.mu.Lock()
		records := cs.session.Recent()
		cs.mu.Unlock()

		c.JSON(http.StatusOK, AssessmentListResponse{
			Count:   len(records),
			Limit:   limit,
			Offset:  offset,
			Records: records,
		})
		return
	}

	records, err := s.deps.Archive.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.log.WithError(err).Error("Failed to list assessments")
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError,
			"Assessments could not be listed", "")
		return
	}

	c.JSON(http.StatusOK, AssessmentListResponse{
		Count:   len(records),
		Limit:   limit,
		Offset:  offset,
		Records: records,
	})
}

// handleGetAssessment returns a single archived assessment by ID
func (s *Server) handleGetAssessment(c *gin.Context) {
	record, ok := s.lookupRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

// handleGetReport renders the archived assessment as a PDF document
func (s *Server) handleGetReport(c *gin.Context) {
	record, ok := s.lookupRecord(c)
	if !ok {
		return
	}
	s.renderReport(c, record)
}

// handleLatestReport renders the caller's most recently scored assessment.
// A session that has never scored refuses the render.
func (s *Server) handleLatestReport(c *gin.Context) {
	cs := s.session(c)
	cs.mu.Lock()
	record, err := cs.session.Report()
	cs.mu.Unlock()

	if err != nil {
		if errors.Is(err, domain.ErrNoScore) {
			s.respondError(c, http.StatusConflict, domain.ErrCodeNoScore,
				"No scored assessment exists for this session", "")
			return
		}
		s.log.WithError(err).Error("Failed to resolve latest report")
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer,
			"Report could not be resolved", "")
		return
	}
	s.renderReport(c, record)
}

// handleModelInsights returns the fitted model coefficients by influence
func (s *Server) handleModelInsights(c *gin.Context) {
	insights, err := s.deps.Model.Insights()
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			s.respondError(c, http.StatusServiceUnavailable, domain.ErrCodeModelUnavailable,
				"Scoring model is not available", "")
			return
		}
		s.log.WithError(err).Error("Failed to compute model insights")
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer,
			"Model insights could not be computed", "")
		return
	}

	c.JSON(http.StatusOK, ModelInsightsResponse{
		Count:    len(insights),
		Features: insights,
	})
}

// renderReport writes the record as a PDF attachment
func (s *Server) renderReport(c *gin.Context, record *domain.ReportRecord) {
	pdfBytes, err := s.deps.Renderer.Render(record)
	if err != nil {
		s.log.WithError(err).WithField("record_id", record.ID).Error("Report rendering failed")
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer,
			"Report could not be rendered", "")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment_%s.pdf"`, record.ID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// lookupRecord resolves the :id parameter against the archive, falling back
// to the caller's session history when no archive backend is configured.
func (s *Server) lookupRecord(c *gin.Context) (*domain.ReportRecord, bool) {
	id := c.Param("id")

	if s.deps.Archive == nil {
		cs := s.session(c)
		cs.mu.Lock()
		record, ok := cs.session.Find(id)
		cs.mu.Unlock()

		if !ok {
			s.respondError(c, http.StatusNotFound, domain.ErrCodeNotFound,
				"Assessment not found", fmt.Sprintf("id: %s", id))
			return nil, false
		}
		return record, true
	}

	record, err := s.deps.Archive.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrCodeNotFound,
				"Assessment not found", fmt.Sprintf("id: %s", id))
			return nil, false
		}
		s.log.WithError(err).WithField("record_id", id).Error("Failed to load assessment")
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError,
			"Assessment could not be loaded", "")
		return nil, false
	}
	return record, true
}

// respondError writes a standardized error envelope
func (s *Server) respondError(c *gin.Context, status int, code, message, details string) {
	apiErr := domain.NewAPIError(code, message, details, c.GetString("correlation_id"))
	c.AbortWithStatusJSON(status, gin.H{"error": apiErr})
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
