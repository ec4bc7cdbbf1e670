// Package server exposes the consignment REST API and orchestrates the
// external collaborators: accounts service, depot resolution, persistence
// and label rendering.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parceldirect/consign/internal/auth"
	"github.com/parceldirect/consign/internal/model"
	"github.com/parceldirect/consign/internal/telemetry"
)

// AccountsClient is the accounts-service surface the server depends on.
// *accounts.Client is the production implementation; tests substitute
// their own.
type AccountsClient interface {
	Validate(ctx context.Context, accountNo string) error
	NextConsignmentNumber(ctx context.Context, accountNo string) (int64, error)
}

// DepotClient resolves a region to a delivery depot code.
type DepotClient interface {
	Resolve(ctx context.Context, area string) (int, error)
}

// LabelRenderer writes a shipping label for a persisted consignment.
type LabelRenderer interface {
	Render(c *model.Consignment) (string, error)
}

// Config holds server configuration.
type Config struct {
	Port int
}

// Deps are the collaborators the server orchestrates.
type Deps struct {
	DB       *sql.DB
	Accounts AccountsClient
	Depot    DepotClient
	Labels   LabelRenderer
	Verifier auth.Verifier
	Logger   *otelzap.Logger

	// Registerer for metrics; defaults to the global registry.
	Registerer prometheus.Registerer
}

// Server is the HTTP server for the consignment service.
type Server struct {
	cfg      Config
	db       *sql.DB
	accounts AccountsClient
	depot    DepotClient
	labels   LabelRenderer
	verifier auth.Verifier
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
}

// New creates a new server instance.
func New(cfg Config, deps Deps) *Server {
	reg := deps.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &Server{
		cfg:      cfg,
		db:       deps.DB,
		accounts: deps.Accounts,
		depot:    deps.Depot,
		labels:   deps.Labels,
		verifier: deps.Verifier,
		logger:   deps.Logger,
		metrics:  telemetry.NewMetrics(reg),
	}
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	authMW := s.authMiddleware

	mux.Handle("GET /api/consignment", authMW(http.HandlerFunc(s.handleList)))
	mux.Handle("POST /api/consignment", authMW(http.HandlerFunc(s.handleCreate)))
	mux.Handle("GET /api/consignment/{id}", authMW(http.HandlerFunc(s.handleGet)))
	mux.Handle("PATCH /api/consignment/{id}", authMW(http.HandlerFunc(s.handlePatch)))
	mux.Handle("DELETE /api/consignment/{id}", authMW(http.HandlerFunc(s.handleDelete)))
	mux.Handle("GET /api/consignment/by-number/{number}", authMW(http.HandlerFunc(s.handleGetByNumber)))
	mux.Handle("GET /api/consignment/account/{account_no}", authMW(http.HandlerFunc(s.handleListAccount)))

	return s.requestMiddleware(mux)
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
