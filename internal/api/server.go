// Package api provides the HTTP API for the book recommender.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/http/response"
	"github.com/listenupapp/bookrec/internal/ratelimit"
	"github.com/listenupapp/bookrec/internal/service"
	"github.com/listenupapp/bookrec/internal/store"
)

// Services groups the business services used by the API server.
type Services struct {
	Recommend *service.RecommendService
	Covers    *service.CoverService
	Cache     *store.Store       // cover cache, for health reporting
	Info      domain.CatalogInfo // snapshot served by Recommend
}

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	RateLimiter    *ratelimit.KeyedRateLimiter // nil disables rate limiting
	AccessLog      bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		router:   chi.NewRouter(),
		limiter:  opts.RateLimiter,
		logger:   logger,
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("bookrec API", "1.0.0")
	humaConfig.Info.Description = "Genre-based book recommendations"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	if opts.AccessLog {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "method not allowed", s.logger)
	})
}

func (s *Server) registerRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())

	s.registerHealthRoutes()
	s.registerCatalogRoutes()
	s.registerRecommendationRoutes()
	s.registerCoverRoutes()
}
