package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover, mw.Cors)

	mux.Route("/api", func(r chi.Router) {
		r.HandleFunc("/health", h.HealthHandler)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.SignUp)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(mw.BearerAuth)
				r.Post("/logout", h.Logout)
				r.Get("/me", h.Me)
			})
		})

		r.Route("/clients", func(r chi.Router) {
			r.Use(mw.BearerAuth)
			r.Get("/", h.Clients)
			r.Post("/", h.CreateClient)
			r.Get("/dashboard", h.Dashboard)
			r.Put("/{id}", h.UpdateClient)
			r.Delete("/{id}", h.DeleteClient)
		})
	})

	return mux
}
