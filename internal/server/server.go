// Package server exposes invoice generation over HTTP. The generate route is
// gated to non-production environments.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rezonia/customs-invoice/internal/aggregate"
	"github.com/rezonia/customs-invoice/internal/config"
	"github.com/rezonia/customs-invoice/internal/model"
	"github.com/rezonia/customs-invoice/internal/render"
	"github.com/rezonia/customs-invoice/internal/repository"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	app      *config.Config
	router   *gin.Engine
	repo     repository.Repository
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewServer creates a new API server. The renderer is constructed once so a
// missing asset fails at startup rather than per request.
func NewServer(cfg *Config, app *config.Config, repo repository.Repository, logger *zap.Logger) (*Server, error) {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer, err := render.New(app)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		config:   cfg,
		app:      app,
		router:   router,
		repo:     repo,
		renderer: renderer,
		logger:   logger,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/invoices/:id/commercial-invoice", s.handleGenerate)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleGenerate renders the commercial invoice for one invoice id and
// returns it inline as application/pdf.
func (s *Server) handleGenerate(c *gin.Context) {
	if !s.app.GenerationAllowed() {
		c.String(http.StatusForbidden, "Error 403: Forbidden")
		return
	}

	id := c.Param("id")

	group, err := s.repo.ShipmentGroup(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no invoice found"})
			return
		}
		s.logger.Error("shipment group lookup failed", zap.String("invoice", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	agg, err := aggregate.Build(group, aggregate.Options{
		FromAddress: s.app.FromAddress(),
		OriginCity:  s.app.OriginCity,
	})
	if err != nil {
		s.fail(c, id, err)
		return
	}

	pdf, err := s.renderer.Render(agg)
	if err != nil {
		s.fail(c, id, err)
		return
	}

	s.logger.Info("commercial invoice generated",
		zap.String("invoice", id),
		zap.Int("bytes", len(pdf)),
		zap.String("invoices", agg.InvoiceIDs))

	c.Header("Content-Disposition", "inline; filename=commercial-invoice.pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// fail maps the error taxonomy onto HTTP statuses: validation faults are the
// caller's data problem, everything else is ours.
func (s *Server) fail(c *gin.Context, id string, err error) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error("invoice generation failed", zap.String("invoice", id), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
