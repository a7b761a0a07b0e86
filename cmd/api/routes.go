package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *application) registerRoutes(router *chi.Mux) {
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/v1/health", http.StatusSeeOther)
	})

	router.Route("/v1", func(route chi.Router) {
		// long lived, so it stays outside the timeout group
		route.Get("/toasts/ws", app.stream.ServeHTTP)

		route.Group(func(route chi.Router) {
			route.Use(middleware.Timeout(60 * time.Second))

			route.Get("/health", app.healthCheckHandler)
			route.Get("/classnames", app.mergeClassNamesHandler)

			route.Route("/theme", func(route chi.Router) {
				route.With(app.OptionalAuthMiddleware).Get("/", app.getThemeHandler)
				route.With(app.AuthTokenMiddleware).Put("/", app.setThemeHandler)
			})

			route.With(app.BasicAuthMiddleware()).Post("/auth/token", app.issueTokenHandler)

			route.Group(func(route chi.Router) {
				route.Use(app.AuthTokenMiddleware)
				route.Post("/uploads", app.uploadImageHandler)
				route.Post("/toasts", app.publishToastHandler)
			})
		})
	})
}
