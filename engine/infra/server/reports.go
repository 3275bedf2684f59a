package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/compozy/standup-digest/engine/orchestrator"
	"github.com/compozy/standup-digest/engine/report"
	"github.com/compozy/standup-digest/engine/summarize"
	"github.com/compozy/standup-digest/pkg/logger"
)

// ReportService is the surface the HTTP layer needs from the orchestrator.
type ReportService interface {
	GenerateReport(ctx context.Context, req *orchestrator.Request) (*orchestrator.Response, error)
}

type reportRequest struct {
	ProjectName string   `json:"projectName" binding:"required"`
	From        string   `json:"from"        binding:"required"`
	To          string   `json:"to"          binding:"required"`
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	Mode        string   `json:"mode"`
	OutputName  string   `json:"outputName"`
}

// createReportHandler generates a structured status report for a date window.
// Path: POST /api/v0/reports
func (s *Server) createReportHandler(c *gin.Context) {
	var body reportRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "detail": err.Error()})
		return
	}
	from, err := parseDate(body.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "detail": fmt.Sprintf("invalid from: %s", err)})
		return
	}
	to, err := parseDate(body.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "detail": fmt.Sprintf("invalid to: %s", err)})
		return
	}

	resp, err := s.reports.GenerateReport(c.Request.Context(), &orchestrator.Request{
		ProjectName: body.ProjectName,
		From:        from,
		To:          to,
		Provider:    body.Provider,
		Model:       body.Model,
		Temperature: body.Temperature,
		Mode:        summarize.Strategy(body.Mode),
		OutputName:  body.OutputName,
	})
	if err != nil {
		respondReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orchestrator.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "detail": err.Error()})
	case errors.Is(err, orchestrator.ErrNoContent):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no_content", "detail": err.Error()})
	case errors.Is(err, report.ErrMalformedPayload):
		// The upstream model answered but not in the expected shape.
		c.JSON(http.StatusBadGateway, gin.H{"error": "malformed_model_output", "detail": err.Error()})
	default:
		logger.FromContext(c.Request.Context()).Error("report generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
