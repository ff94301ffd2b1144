package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashdeck/internal/api"
	apiMiddleware "github.com/phrazzld/flashdeck/internal/api/middleware"
	"github.com/phrazzld/flashdeck/internal/redact"
)

// setupRouter mounts every route. Everything under /api except the auth
// endpoints requires a bearer token.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier, app.passwordHasher, app.logger)
	contentHandler := api.NewContentHandler(app.cardStore, app.categoryStore, app.logger)
	syncHandler := api.NewSyncHandler(app.cardStore, app.categoryStore, app.logger)
	settingsHandler := api.NewSettingsHandler(app.settingsStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/cards", contentHandler.ListCards)
			r.Post("/cards", contentHandler.CreateCard)
			r.Get("/categories", contentHandler.ListCategories)
			r.Post("/categories", contentHandler.CreateCategory)

			r.Post("/sync", syncHandler.Sync)

			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.PutSettings)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", redact.ErrorAttr(err))
		}
	})

	return r
}
