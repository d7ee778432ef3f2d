// Package server exposes the schedule as a JSON HTTP API.
//
// Routes:
//
//	GET    /api/days/:date            tasks, overlap groups, dashboard and stats
//	GET    /api/days/:date/dashboard  dashboard buckets only
//	POST   /api/tasks                 create (409 on overlap unless force)
//	PATCH  /api/tasks/:id             partial edit
//	POST   /api/tasks/:id/toggle      flip completion
//	DELETE /api/tasks/:id             delete
//	GET    /healthz                   liveness
//	GET    /metrics                   Prometheus metrics
//
// The :date parameter accepts YYYY-MM-DD or a relative keyword such as
// "today" or "tomorrow".
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jborjas31/my-scheduler/internal/cache"
	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/logging"
	"github.com/jborjas31/my-scheduler/internal/planner"
)

// Defaults applied to zero Options fields.
const (
	DefaultAddr      = "127.0.0.1:8080"
	DefaultRateLimit = 2
	DefaultBurst     = 20

	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr      string
	RateLimit float64 // requests per second
	Burst     int
	Upcoming  int // upcoming tasks returned by the dashboard route, 0 means all
	Log       logrus.FieldLogger
	Clock     dateutil.Clock

	// CacheStats, when set, is exported as gauges.
	CacheStats func() cache.Stats
}

// Server serves the HTTP API.
type Server struct {
	planner  *planner.Planner
	clock    dateutil.Clock
	log      logrus.FieldLogger
	addr     string
	upcoming int

	engine   *gin.Engine
	registry *prometheus.Registry
	metrics  *metrics
	limiter  *rate.Limiter
}

// New builds the router. Nothing listens until Run.
func New(p *planner.Planner, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = dateutil.SystemClock{}
	}

	registerValidators()

	registry := prometheus.NewRegistry()
	s := &Server{
		planner:  p,
		clock:    opts.Clock,
		log:      opts.Log.WithField("component", "server"),
		addr:     opts.Addr,
		upcoming: opts.Upcoming,
		registry: registry,
		metrics:  newMetrics(registry, opts.CacheStats),
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.instrument())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(s.rateLimit())
	{
		api.GET("/days/:date", s.getDay)
		api.GET("/days/:date/dashboard", s.getDashboard)

		api.POST("/tasks", s.createTask)
		api.PATCH("/tasks/:id", s.updateTask)
		api.POST("/tasks/:id/toggle", s.toggleTask)
		api.DELETE("/tasks/:id", s.deleteTask)
	}
	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
