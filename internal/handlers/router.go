package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/middleware"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps holds everything the router wires together
type RouterDeps struct {
	Handler     *Handler
	Auth        *middleware.AuthMiddleware
	RateLimit   *middleware.RateLimitMiddleware
	Health      Pinger
	CORSOrigins []string
}

// NewRouter builds the HTTP routes
func NewRouter(deps RouterDeps) http.Handler {
	h := deps.Handler
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer(h.exposeDetails))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit.RateLimit)
	}

	r.Get("/health", healthHandler(deps.Health))

	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)

		r.Route("/api/mechanic", func(r chi.Router) {
			// worker-authenticated completion lives under the mechanic prefix
			r.With(deps.Auth.RequireRole(models.RoleWorker)).
				Put("/assign-worker/{requestId}/complete", h.CompleteTask)

			r.Group(func(r chi.Router) {
				r.Use(deps.Auth.RequireRole(models.RoleMechanic))

				r.With(deps.Auth.RequirePermission(models.PermAssignWorker)).
					Post("/assign-worker", h.AssignWorker)

				r.Group(func(r chi.Router) {
					r.Use(deps.Auth.RequirePermission(models.PermManageWorkers))
					r.Get("/workers", h.ListWorkers)
					r.Post("/workers", h.AddWorker)
					r.Put("/workers/{id}", h.UpdateWorker)
					r.Delete("/workers/{id}", h.DeleteWorker)
					r.Get("/available-workers", h.ListAvailableWorkers)
				})

				r.With(deps.Auth.RequirePermission(models.PermViewRequests)).
					Get("/requests", h.ListMechanicRequests)

				r.Group(func(r chi.Router) {
					r.Use(deps.Auth.RequirePermission(models.PermUpdateStatus))
					r.Patch("/requests/{requestId}/status", h.UpdateRequestStatus)
					r.Put("/mechanic-request/{requestId}/status", h.UpdateRequestStatus)
				})
			})
		})

		r.Route("/api/worker", func(r chi.Router) {
			r.Use(deps.Auth.RequireRole(models.RoleWorker))
			r.With(deps.Auth.RequirePermission(models.PermViewTasks)).Get("/profile", h.WorkerProfile)
			r.With(deps.Auth.RequirePermission(models.PermViewTasks)).Get("/current-task", h.CurrentTask)
			r.With(deps.Auth.RequirePermission(models.PermViewTasks)).Get("/tasks", h.CompletedTasks)
			r.With(deps.Auth.RequirePermission(models.PermCompleteTask)).Post("/tasks/{taskId}/complete", h.CompleteTask)
		})

		r.Route("/api/user/services", func(r chi.Router) {
			r.Use(deps.Auth.RequireRole(models.RoleUser))
			r.With(deps.Auth.RequirePermission(models.PermCreateRequest)).Post("/requests", h.CreateRequest)
			r.With(deps.Auth.RequirePermission(models.PermViewRequests)).Get("/requests", h.ListUserRequests)
			r.With(deps.Auth.RequirePermission(models.PermCancelRequest)).Post("/requests/{requestId}/cancel", h.CancelRequest)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "unreachable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
