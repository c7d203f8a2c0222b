package handlers

import (
	"net/http"

	"apod-bot/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the admin HTTP API
func NewRouter(userHandler *UserHandler, validator middleware.TokenValidator, db Pinger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", Health(db))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(validator))
		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/{user_id}/favorites", userHandler.ListFavorites)
	})

	return r
}
