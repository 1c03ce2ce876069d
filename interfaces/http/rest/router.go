package rest

import (
	"net/http"

	"funder/infrastructure/config"
	"funder/interfaces/http/rest/handlers"
	"funder/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// MetricsExporter is the observability surface the router needs
type MetricsExporter interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

// Router creates and configures the HTTP router
type Router struct {
	service handlers.EntityService
	metrics MetricsExporter
	config  *config.Config
	logger  *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil.
func NewRouter(
	service handlers.EntityService,
	metrics MetricsExporter,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		service: service,
		metrics: metrics,
		config:  cfg,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Location"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	if rt.metrics != nil && rt.config.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	entityHandler := handlers.NewEntityHandler(rt.service, rt.logger)
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/entities", func(r chi.Router) {
			r.Post("/", entityHandler.CreateEntity)
			r.Get("/{type}/{id}", entityHandler.GetEntity)
		})

		r.Route("/parents/{parent}", func(r chi.Router) {
			r.Get("/entities", entityHandler.ListEntities)
			r.Get("/scoped-data", entityHandler.ListScopedData)
		})

		r.Get("/projects/{id}/current-goal", entityHandler.GetCurrentGoal)
		r.Post("/render/xml", entityHandler.RenderXML)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","environment":"` + rt.config.Environment + `"}`))
}
