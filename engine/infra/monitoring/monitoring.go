package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/compozy/standup-digest/pkg/config"
	"github.com/compozy/standup-digest/pkg/logger"
)

const meterName = "standup-digest"

// Service owns the OpenTelemetry meter provider and its Prometheus exporter.
// When monitoring is disabled the service degrades to a no-op meter so callers
// never need to branch on it.
type Service struct {
	meter       metric.Meter
	provider    *sdkmetric.MeterProvider
	registry    *prom.Registry
	initialized bool

	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
}

// NewService creates the monitoring service. A nil or disabled config yields
// a no-op service.
func NewService(ctx context.Context, cfg *config.MonitoringConfig) (*Service, error) {
	log := logger.FromContext(ctx)
	if cfg == nil || !cfg.Enabled {
		log.Debug("monitoring disabled, using no-op meter")
		return &Service{meter: noop.NewMeterProvider().Meter(meterName)}, nil
	}
	registry := prom.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	service := &Service{
		meter:       provider.Meter(meterName),
		provider:    provider,
		registry:    registry,
		initialized: true,
	}
	if err := service.initHTTPInstruments(); err != nil {
		return nil, err
	}
	log.Info("monitoring service initialized")
	return service, nil
}

func (s *Service) initHTTPInstruments() error {
	var err error
	s.httpRequestsTotal, err = s.meter.Int64Counter(
		"digest_http_requests_total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http requests counter: %w", err)
	}
	s.httpRequestDuration, err = s.meter.Float64Histogram(
		"digest_http_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithExplicitBucketBoundaries(.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("failed to create http request duration histogram: %w", err)
	}
	return nil
}

// Meter returns the OpenTelemetry meter for custom instrumentation.
func (s *Service) Meter() metric.Meter {
	return s.meter
}

// IsInitialized reports whether a real exporter is backing the meter.
func (s *Service) IsInitialized() bool {
	return s.initialized
}

// GinMiddleware returns Gin middleware that records request counts and
// latencies. It is a pass-through when monitoring is disabled.
func (s *Service) GinMiddleware() gin.HandlerFunc {
	if !s.initialized {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", path),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		s.httpRequestsTotal.Add(c.Request.Context(), 1, attrs)
		s.httpRequestDuration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}

// ExporterHandler serves the Prometheus scrape endpoint.
func (s *Service) ExporterHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.initialized {
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, err := w.Write([]byte("monitoring is disabled")); err != nil {
				logger.FromContext(r.Context()).Error("failed to write response", "error", err)
			}
			return
		}
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}

// Shutdown flushes and stops the meter provider.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.provider != nil {
		return s.provider.Shutdown(ctx)
	}
	return nil
}
