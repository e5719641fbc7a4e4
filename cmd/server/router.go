package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maktab/hifdh-api/internal/api"
	apiMiddleware "github.com/maktab/hifdh-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware. Reads are public; mutations require an admin
// bearer token.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	ledgerHandler := api.NewLedgerHandler(app.ledgerService)
	progressHandler := api.NewProgressHandler(app.ledgerService, app.catalog)
	rosterHandler := api.NewRosterHandler(app.rosterService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Read endpoints (public)
		r.Get("/sections", progressHandler.ListSections)
		r.Get("/groups", rosterHandler.ListGroups)
		r.Get("/groups/{id}/leaderboard", progressHandler.GroupLeaderboard)
		r.Get("/groups/{id}/rollup", progressHandler.GroupRollup)
		r.Get("/students", rosterHandler.ListStudents)
		r.Get("/students/{id}", rosterHandler.GetStudent)
		r.Get("/students/{id}/status", progressHandler.StudentStatus)
		r.Get("/students/{id}/entries", progressHandler.StudentEntries)

		// Mutating endpoints (admin only)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(authMiddleware.RequireAdmin)

			r.Post("/students", rosterHandler.CreateStudent)
			r.Put("/students/{id}", rosterHandler.UpdateStudent)
			r.Delete("/students/{id}", rosterHandler.DeleteStudent)

			r.Post("/students/{id}/entries", ledgerHandler.CreateEntry)
			r.Post("/students/{id}/entries/bulk", ledgerHandler.CreateBulkEntries)
			r.Delete("/students/{id}/entries", ledgerHandler.DeleteBySections)
			r.Put("/entries/{id}", ledgerHandler.UpdateEntry)
			r.Delete("/entries/{id}", ledgerHandler.DeleteEntry)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
