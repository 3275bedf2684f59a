package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/compozy/standup-digest/engine/infra/monitoring"
	"github.com/compozy/standup-digest/pkg/config"
	"github.com/compozy/standup-digest/pkg/logger"
)

const (
	httpReadTimeout       = 15 * time.Second
	httpIdleTimeout       = 60 * time.Second
	serverShutdownTimeout = 5 * time.Second
)

// Server ties the HTTP surface together: router, report service, monitoring.
type Server struct {
	cfg        *config.Config
	reports    ReportService
	monitoring *monitoring.Service
	httpServer *http.Server
}

// NewServer wires a server. monitoring may be nil.
func NewServer(cfg *config.Config, reports ReportService, mon *monitoring.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if reports == nil {
		return nil, fmt.Errorf("report service must not be nil")
	}
	return &Server{cfg: cfg, reports: reports, monitoring: mon}, nil
}

// Run serves HTTP until ctx is canceled, then drains in-flight requests.
// Report generation can outlive slow model calls, so the write timeout follows
// the configured server timeout instead of a fixed short value.
func (s *Server) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	writeTimeout := s.cfg.Server.Timeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Minute
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.buildRouter(ctx),
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  httpIdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.monitoring != nil {
		if err := s.monitoring.Shutdown(shutdownCtx); err != nil {
			log.Error("monitoring shutdown failed", "error", err)
		}
	}
	return nil
}
