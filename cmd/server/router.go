package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/quizchain-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	tasks := func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.CORS(apiMiddleware.MethodsStart))
			r.Get("/start", app.taskHandler.Start)
			r.Options("/start", app.taskHandler.Preflight)
		})

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.CORS(apiMiddleware.MethodsTask))
			r.Get("/tasks/{id}", app.taskHandler.GetTask)
			r.Post("/tasks/{id}", app.taskHandler.SubmitAnswer)
			r.Options("/tasks/{id}", app.taskHandler.Preflight)
		})
	}

	if prefix := app.links.Prefix; prefix != "" {
		r.Route("/"+prefix, tasks)
	} else {
		r.Group(tasks)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
