/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/settings        Configuration record
  /api/operators/*     Trainer management
  /api/modules/*       Training module management
  /api/clients/*       Client management
  /api/locations/*     Venue management
  /api/offers/*        Commercial offers + floor pricing
  /api/sessions/*      Sessions, lifecycle, costing
  /api/alerts          Full alert scan
  /api/dashboard       KPI rollup
  /api/simulator/*     Status comparison simulator
  /api/scenarios/*     Demo scenarios

SECURITY NOTE:
  No authentication middleware. Single-user local tool; all endpoints
  are public on the bound interface.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		// Operator routes
		r.Route("/operators", func(r chi.Router) {
			r.Get("/", h.ListOperators)
			r.Post("/", h.CreateOperator)
			r.Get("/{id}", h.GetOperator)
			r.Put("/{id}", h.UpdateOperator)
			r.Delete("/{id}", h.DeleteOperator)
		})

		// Module routes
		r.Route("/modules", func(r chi.Router) {
			r.Get("/", h.ListModules)
			r.Post("/", h.SaveModule)
			r.Get("/{id}", h.GetModule)
			r.Put("/{id}", h.SaveModule)
			r.Delete("/{id}", h.DeleteModule)
		})

		// Client routes
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.SaveClient)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.SaveClient)
			r.Delete("/{id}", h.DeleteClient)
		})

		// Location routes
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", h.ListLocations)
			r.Post("/", h.SaveLocation)
			r.Get("/{id}", h.GetLocation)
			r.Put("/{id}", h.SaveLocation)
			r.Delete("/{id}", h.DeleteLocation)
		})

		// Offer routes
		r.Route("/offers", func(r chi.Router) {
			r.Get("/", h.ListOffers)
			r.Post("/", h.SaveOffer)
			r.Post("/floor", h.EstimateOfferFloor)
			r.Get("/{id}", h.GetOffer)
			r.Put("/{id}", h.SaveOffer)
			r.Delete("/{id}", h.DeleteOffer)
		})

		// Session routes
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.ListSessions)
			r.Post("/", h.SaveSession)
			r.Post("/cost", h.CostDraftSession)
			r.Get("/{id}", h.GetSession)
			r.Put("/{id}", h.SaveSession)
			r.Delete("/{id}", h.DeleteSession)
			r.Put("/{id}/status", h.UpdateSessionStatus)
			r.Get("/{id}/cost", h.GetSessionCost)
		})

		// Computation routes
		r.Get("/alerts", h.ListAlerts)
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/simulator/status-comparison", h.CompareStatuses)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
