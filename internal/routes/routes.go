package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/medirec/medirec-backend/internal/auth"
	"github.com/medirec/medirec-backend/internal/handlers"
	"github.com/medirec/medirec-backend/internal/middleware"
)

// Setup registers every route. Public: register, login, user listing.
// Everything else sits behind the auth gate.
func Setup(r *chi.Mux, tokens *auth.TokenService, users *handlers.UserHandler, health *handlers.HealthInfoHandler, symptoms *handlers.SymptomHandler) {
	requireAuth := middleware.RequireAuth(tokens)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", users.Register)
		r.Post("/login", users.Login)
		r.Get("/", users.List)
		r.With(requireAuth).Get("/profile", users.Profile)
	})

	r.Route("/health-info", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", health.Create)
		r.Get("/", health.GetAll)
		r.Get("/search", health.Search)
		r.Get("/{id}", health.GetByID)
		r.Put("/{id}", health.Update)
		r.Delete("/{id}", health.Delete)
	})

	r.Route("/symptoms", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", symptoms.Create)
		r.Get("/", symptoms.GetAll)
		r.Get("/user/{userId}", symptoms.ListByUser)
		r.Get("/{id}", symptoms.GetByID)
		r.Put("/{id}", symptoms.Update)
		r.Delete("/{id}", symptoms.Delete)
	})
}
