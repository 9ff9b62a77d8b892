package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Full catalog document, as stored on disk.
		r.Get("/all", s.handleGetAll)

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleRegisterDevice)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Put("/", s.handleUpdateDevice)
				r.Delete("/", s.handleDeleteDevice)
			})
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", s.handleListServices)
			r.Post("/", s.handleRegisterService)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetService)
				r.Put("/", s.handleUpdateService)
				r.Delete("/", s.handleDeleteService)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleRegisterUser)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetUser)
				r.Put("/", s.handleUpdateUser)
				r.Delete("/", s.handleDeleteUser)
				r.Get("/greenhouses", s.handleUserGreenhouses)
			})
		})

		r.Route("/greenhouses", func(r chi.Router) {
			r.Get("/", s.handleListGreenhouses)
			r.Post("/", s.handleRegisterGreenhouse)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetGreenhouse)
				r.Put("/", s.handleUpdateGreenhouse)
				r.Delete("/", s.handleDeleteGreenhouse)
				r.Get("/zones", s.handleGreenhouseZones)
				r.Get("/devices", s.handleGreenhouseDevices)
			})
		})

		r.Route("/zones", func(r chi.Router) {
			r.Get("/", s.handleListZones)
			r.Post("/", s.handleRegisterZone)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetZone)
				r.Put("/", s.handleUpdateZone)
				r.Delete("/", s.handleDeleteZone)
				r.Put("/threshold", s.handleApplyThreshold)
				r.Get("/devices", s.handleZoneDevices)
			})
		})

		// Bare ID list for the chat front-end's zone picker.
		r.Get("/zoneIDs", s.handleZoneIDs)

		r.Route("/audit", func(r chi.Router) {
			r.Get("/", s.handleListAudit)
		})
	})

	return r
}
