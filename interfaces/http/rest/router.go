package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"canvas-backend/application/commands/bus"
	"canvas-backend/application/ports"
	querybus "canvas-backend/application/queries/bus"
	"canvas-backend/interfaces/http/rest/handlers"
	"canvas-backend/interfaces/http/rest/middleware"
	"canvas-backend/interfaces/websocket"
	appErrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	presence   ports.PresenceChannel
	wsServer   *websocket.Server
	metrics    *observability.Collector
	enableCORS bool
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	presence ports.PresenceChannel,
	wsServer *websocket.Server,
	metrics *observability.Collector,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		presence:   presence,
		wsServer:   wsServer,
		metrics:    metrics,
		enableCORS: enableCORS,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(appErrors.NewErrorHandler(rt.logger, false).Middleware)
	router.Use(middleware.Logger(rt.logger, rt.metrics))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-User-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(rt.metrics.Registry(), promhttp.HandlerOpts{}))

	// Presence WebSocket
	router.Get("/ws", rt.wsServer.HandleWebSocket)

	sceneHandler := handlers.NewSceneHandler(rt.commandBus, rt.queryBus, rt.logger)
	editHandler := handlers.NewEditHandler(rt.commandBus, rt.logger)
	presenceHandler := handlers.NewPresenceHandler(rt.presence, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/scene", sceneHandler.GetScene)
			r.Get("/presence", presenceHandler.List)

			r.Route("/objects", func(r chi.Router) {
				r.Post("/", sceneHandler.AddObject)
				r.Patch("/", sceneHandler.BatchUpdate)
				r.Post("/duplicate", editHandler.Duplicate)

				r.Route("/{objectID}", func(r chi.Router) {
					r.Get("/", sceneHandler.GetObject)
					r.Patch("/", sceneHandler.UpdateObject)
					r.Delete("/", sceneHandler.RemoveObject)
					r.Get("/children", sceneHandler.GetChildren)
					r.Put("/parent", editHandler.SetParent)
					r.Post("/lock", editHandler.ToggleLock)
					r.Post("/visibility", editHandler.ToggleVisibility)
					r.Post("/collapse", editHandler.ToggleCollapse)
					r.Post("/reorder", editHandler.Reorder)
				})
			})

			r.Put("/selection", editHandler.Select)
			r.Post("/selection/{objectID}/toggle", editHandler.ToggleSelection)

			r.Post("/groups", editHandler.Group)
			r.Post("/groups/dissolve", editHandler.Ungroup)

			r.Post("/clipboard/copy", editHandler.Copy)
			r.Post("/clipboard/paste", editHandler.Paste)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
