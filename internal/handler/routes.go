package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth   *AuthHandler
	Todos  *TodoHandler
	Tags   *TagHandler
	Health *HealthHandler
}

// RegisterRoutes mounts every endpoint on r. Routes behind requireSession
// need a valid session; ownership of items is checked by the services.
func RegisterRoutes(r chi.Router, h Handlers, requireSession func(http.Handler) http.Handler) {
	r.Get("/health", h.Health.HandleHealth)

	r.Post("/auth/signup", h.Auth.HandleSignup)
	r.Post("/auth/login", h.Auth.HandleLogin)
	r.Post("/auth/logout", h.Auth.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(requireSession)

		r.Get("/auth/me", h.Auth.HandleMe)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", h.Todos.HandleListTodos)
			r.Post("/", h.Todos.HandleCreateTodo)
			r.Get("/{id}", h.Todos.HandleGetTodo)
			r.Put("/{id}", h.Todos.HandleUpdateTodo)
			r.Delete("/{id}", h.Todos.HandleDeleteTodo)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.Tags.HandleListTags)
			r.Post("/", h.Tags.HandleCreateTag)
			r.Get("/{id}", h.Tags.HandleGetTag)
			r.Put("/{id}", h.Tags.HandleUpdateTag)
			r.Delete("/{id}", h.Tags.HandleDeleteTag)
		})
	})
}
