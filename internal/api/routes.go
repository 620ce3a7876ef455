package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router. Every form endpoint is POST-only;
// OPTIONS preflights are answered by the CORS middleware and any other
// method gets a 405 from the router.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// The storefront is served from a different origin, so the form
	// endpoints echo a wildcard origin with no credentials.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", h.AdminLogin)
		r.Post("/contact", h.ContactSubmit)
		r.Post("/access-request", h.AccessRequest)
		r.Post("/support/email", h.SupportEmail)
		r.Post("/support/ticket", h.SupportTicket)
		r.Post("/shopify-admin", h.ShopifyAdmin)
	})

	return r
}
