// Package api provides the HTTP API server and handlers for the storefront.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/proboots/storefront/internal/http/response"
	"github.com/proboots/storefront/internal/ratelimit"
	"github.com/proboots/storefront/internal/sse"
)

// adminPrefix marks routes that change the catalog.
const adminPrefix = "/api/v1/admin/"

// Options configures cross-cutting HTTP behavior.
type Options struct {
	AllowedOrigins []string
	AdminLimiter   *ratelimit.KeyedRateLimiter // nil disables admin rate limiting
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services     *Services
	sseHandler   *sse.Handler
	adminLimiter *ratelimit.KeyedRateLimiter
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, sseHandler *sse.Handler, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		services:     services,
		sseHandler:   sseHandler,
		adminLimiter: opts.AdminLimiter,
		router:       chi.NewRouter(),
		logger:       logger,
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("ProBoots Storefront API", "1.0.0")
	humaConfig.Info.Description = "Catalog, cart and WhatsApp checkout for the ProBoots storefront"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API { return s.api }

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", sse.SessionHeader},
		ExposedHeaders:   []string{sse.SessionHeader, "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.adminLimiter != nil {
		s.router.Use(s.adminRateLimit)
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found: "+r.URL.Path, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})
}

// adminRateLimit applies the per-IP limiter to admin routes only.
func (s *Server) adminRateLimit(next http.Handler) http.Handler {
	limited := ratelimit.Middleware(s.adminLimiter, s.logger, func(w http.ResponseWriter, _ *http.Request) {
		response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, adminPrefix) {
			limited.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setupRoutes registers every operation.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerBannerRoutes()
	s.registerCategoryRoutes()
	s.registerProductRoutes()
	s.registerCatalogRoutes()
	s.registerCartRoutes()
	s.registerFormatRoutes()

	// The event stream is plain net/http; huma does not model SSE bodies.
	if s.sseHandler != nil {
		s.router.Get("/api/v1/cart/stream", s.sseHandler.ServeHTTP)
	}
}
