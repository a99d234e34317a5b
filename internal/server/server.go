package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"PriceBoard/internal/monitoring"
	"PriceBoard/internal/notifier"
	"PriceBoard/internal/ranges"
	"PriceBoard/internal/render"
)

// Options configures a Server.
type Options struct {
	Addr        string
	Mode        string // gin mode: debug, release, test
	RateRPS     float64
	RateBurst   int
	MetricsPath string // empty disables /metrics
	Settings    Settings
}

// Settings is the read-only generator configuration shown on the Settings tab.
type Settings struct {
	BasePrice      float64
	NoiseAmplitude float64
	Timezone       string
}

// Server hosts the dashboard, the JSON API and the live feed.
type Server struct {
	opts       Options
	ctrl       *ranges.Controller
	hub        *notifier.Hub
	metrics    *monitoring.Metrics
	tmpl       *template.Template
	router     *gin.Engine
	httpServer *http.Server
}

// New builds the router. hub and metrics may be nil.
func New(ctrl *ranges.Controller, hub *notifier.Hub, metrics *monitoring.Metrics, opts Options) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("server needs a range controller")
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:    opts,
		ctrl:    ctrl,
		hub:     hub,
		metrics: metrics,
		tmpl:    tmpl,
		router:  gin.New(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), accessLogMiddleware())
	if s.metrics != nil {
		s.router.Use(s.metrics.MetricsMiddleware())
	}
	limit := rateLimitMiddleware(s.opts.RateRPS, s.opts.RateBurst)

	s.router.GET("/", s.handleDashboard)
	s.router.POST("/select/:id", limit, s.handleSelectForm)
	s.router.GET("/chart.png", s.handleChart(render.PNG))
	s.router.GET("/chart.svg", s.handleChart(render.SVG))
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/ranges", s.handleRanges)
		api.GET("/selection", s.handleGetSelection)
		api.PUT("/selection", limit, s.handlePutSelection)
		api.GET("/indicators", s.handleIndicators)
		api.GET("/outlook", s.handleOutlook)
		api.GET("/chart", s.handleChartQuery)
	}

	if s.hub != nil {
		s.router.GET("/ws", gin.WrapH(s.hub))
	}
	if s.metrics != nil && s.opts.MetricsPath != "" {
		s.router.GET(s.opts.MetricsPath, gin.WrapH(s.metrics.Handler()))
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address until Stop is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.WithField("addr", s.opts.Addr).Info("starting dashboard server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	log.Info("shutting down dashboard server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// recordFailure logs and counts a failed selection and returns the HTTP
// status for it. Ids outside the catalog are counted under "unknown".
func (s *Server) recordFailure(id string, err error) int {
	status, label, outcome := http.StatusInternalServerError, id, "error"
	if errors.Is(err, ranges.ErrUnknownRange) {
		status, label, outcome = http.StatusNotFound, "unknown", "unknown_range"
	}
	if s.metrics != nil {
		s.metrics.RecordSelectionFailure(label, outcome)
	}
	log.WithError(err).WithField("range", id).Warn("range selection failed")
	return status
}
