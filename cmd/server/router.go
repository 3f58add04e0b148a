package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/kotoba-app/kotoba-api/internal/api/middleware"
	"github.com/kotoba-app/kotoba-api/internal/api/shared"
)

// setupRouter builds the HTTP routing table for the application.
func setupRouter(app *application) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/learners/{learnerID}", func(r chi.Router) {
			r.Post("/items/{itemID}/answer", app.studyHandler.SubmitAnswer)
			r.Get("/items/{itemID}/history", app.studyHandler.GetHistory)
			r.Get("/queue", app.studyHandler.GetQueue)
			r.Get("/readiness", app.studyHandler.GetReadiness)
			r.Delete("/progress", app.studyHandler.ResetProgress)
		})
	})

	return r
}
