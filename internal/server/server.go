// Package server provides the HTTP server and routing for qscope.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/qscope/internal/analytics"
	"github.com/aristath/qscope/internal/cache"
	"github.com/aristath/qscope/internal/config"
	"github.com/aristath/qscope/internal/education"
	"github.com/aristath/qscope/internal/qchat"
	"github.com/aristath/qscope/internal/queue"
	"github.com/aristath/qscope/internal/simulation"
)

// Config holds server configuration and the wired services.
type Config struct {
	Log          zerolog.Logger
	Config       *config.Config
	Simulation   *simulation.Service
	Analytics    *analytics.Service
	Education    *education.Engine
	QChat        *qchat.Service
	QueueManager *queue.Manager
	CacheRepo    *cache.Repository
}

// Server represents the HTTP server.
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	simHandlers    *simulation.Handler
	analyticsH     *analytics.Handler
	educationH     *education.Handler
	qchatH         *qchat.Handler
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg.Config,
		simHandlers:    simulation.NewHandler(cfg.Simulation, cfg.Log),
		analyticsH:     analytics.NewHandler(cfg.Analytics, cfg.Log),
		educationH:     education.NewHandler(cfg.Education, cfg.Log),
		qchatH:         qchat.NewHandler(cfg.QChat, cfg.Log),
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.Config.DataDir, cfg.QueueManager, cfg.CacheRepo),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout: bounded by the configured simulation budget, since
	// simulations are the slowest requests served.
	timeout := s.cfg.SimulationTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	s.router.Use(middleware.Timeout(timeout))

	// CORS
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/quantum", func(r chi.Router) {
			r.Post("/simulate", s.simHandlers.HandleSimulate)
			r.Post("/simulate-steps", s.simHandlers.HandleSimulateSteps)
			r.Post("/simulate-steps-async", s.simHandlers.HandleSimulateStepsAsync)
			r.Get("/simulation-result/{jobID}", s.simHandlers.HandleSimulationResult)
			r.Delete("/simulation-result/{jobID}", s.simHandlers.HandleCancelJob)
			r.Post("/validate-circuit", s.simHandlers.HandleValidateCircuit)
			r.Get("/gates", s.simHandlers.HandleGates)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/metrics", s.analyticsH.HandleMetrics)
			r.Post("/complexity", s.analyticsH.HandleComplexity)
			r.Post("/suggestions", s.analyticsH.HandleSuggestions)
			r.Post("/export", s.analyticsH.HandleExport)
		})

		r.Route("/education", func(r chi.Router) {
			r.Get("/concepts", s.educationH.HandleConcepts)
			r.Get("/concepts/{id}", s.educationH.HandleConcept)
			r.Post("/explain", s.educationH.HandleExplain)
			r.Get("/algorithms", s.educationH.HandleAlgorithms)
			r.Get("/algorithms/{name}", s.educationH.HandleAlgorithm)
			r.Get("/tutorials/{level}", s.educationH.HandleTutorial)
			r.Post("/learning-path", s.educationH.HandleLearningPath)
			r.Post("/questions", s.educationH.HandleQuestions)
		})

		r.Route("/qchat", func(r chi.Router) {
			r.Post("/query", s.qchatH.HandleQuery)
			r.Get("/status", s.qchatH.HandleStatus)
			r.Post("/generate-circuit", s.qchatH.HandleGenerateCircuit)
		})

		r.Get("/system/status", s.systemHandlers.HandleStatus)
	})
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
