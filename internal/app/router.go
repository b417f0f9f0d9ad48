package app

import (
	"net/http"

	"taskapi/internal/config"
	"taskapi/internal/handlers"
	"taskapi/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts the task API. Request logging covers the /api/tasks
// collection only.
func NewRouter(h *handlers.TaskHandler, corsCfg config.CORSConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsCfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}))

	r.Get("/test", h.Test)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.Ping)
		r.Post("/file", h.SaveFile)

		r.Route("/tasks", func(r chi.Router) {
			r.With(middleware.Logging("api")).Group(func(r chi.Router) {
				r.Get("/", h.ListTasks)
				r.Post("/", h.CreateTask)
			})

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetTask)
				r.Patch("/", h.EditTask)
				r.Delete("/", h.DeleteTask)
			})
		})
	})

	return r
}
