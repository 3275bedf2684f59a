package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/compozy/standup-digest/pkg/logger"
	"github.com/compozy/standup-digest/pkg/version"
)

func (s *Server) buildRouter(ctx context.Context) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(ctx))
	if s.monitoring != nil {
		r.Use(s.monitoring.GinMiddleware())
		path := s.cfg.Monitoring.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(s.monitoring.ExporterHandler()))
	}

	api := r.Group("/api/v0")
	api.GET("/health", healthHandler)
	api.POST("/reports", s.createReportHandler)
	return r
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": version.Get().Version,
	})
}

// requestLogger attaches a request-scoped logger carrying a request ID and
// logs request completion.
func requestLogger(base context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		log := logger.FromContext(base).With("request_id", requestID)
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), log))
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		log.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
