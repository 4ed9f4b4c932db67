// Package server provides HTTP server lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/solatis/disku/internal/core/api"
	"github.com/solatis/disku/internal/core/auth"
	"github.com/solatis/disku/internal/core/config"
)

// HTTPServer manages the report server lifecycle.
type HTTPServer struct {
	server *http.Server
	config *config.ServerConfig
}

// NewHTTPServer builds the router and server. When secret is non-empty the
// report endpoint is wrapped in the HMAC auth middleware; status, health
// and metrics stay open (they expose no agent-supplied data beyond what
// the operator asked the server to hold).
func NewHTTPServer(cfg *config.ServerConfig, service *api.Service, secret []byte, log logrus.FieldLogger) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("log cannot be nil")
	}

	r := mux.NewRouter()

	var reportHandler http.Handler = http.HandlerFunc(service.HandleReport)
	if len(secret) > 0 {
		reportHandler = auth.Middleware(secret, log)(reportHandler)
	}
	r.Path("/disku/report").Methods(http.MethodPost).Handler(reportHandler)

	r.Path("/disku/status").Methods(http.MethodGet).HandlerFunc(service.HandleStatus)
	r.Path("/").Methods(http.MethodGet).HandlerFunc(service.HandleIndex)
	r.Path("/healthz").Methods(http.MethodGet).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Path("/metrics").Methods(http.MethodGet).Handler(promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	return &HTTPServer{server: srv, config: cfg}, nil
}

// Start binds the listener and serves requests until Shutdown.
// Context is provided for API consistency but Serve blocks until Shutdown
// is called.
func (s *HTTPServer) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.server.Addr, err)
	}

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server with a 30-second timeout, then
// forces the remaining connections closed.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.server.Close()
		return fmt.Errorf("graceful shutdown failed, forced stop: %w", err)
	}
	return nil
}
