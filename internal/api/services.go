package api

import (
	"net/http"

	"github.com/verdantech/greenhouse-core/internal/catalog"
)

// handleListServices returns all registered services.
func (s *Server) handleListServices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"servicesList": s.registry.Services()})
}

// handleGetService returns a single service by ID.
func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "service ID must be an integer")
		return
	}
	svc, err := s.registry.Service(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// handleRegisterService registers a new service.
func (s *Server) handleRegisterService(w http.ResponseWriter, r *http.Request) {
	var svc catalog.Service
	if err := decodeBody(r, &svc); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	msg, err := s.registry.RegisterService(svc)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, msg)
}

// handleUpdateService refreshes a service record; the liveness heartbeat
// for services. An empty body is valid.
func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "service ID must be an integer")
		return
	}

	var svc catalog.Service
	if r.ContentLength > 0 {
		if err := decodeBody(r, &svc); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}
	svc.ServiceID = id

	msg, err := s.registry.UpdateService(svc)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// handleDeleteService removes a service.
func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "service ID must be an integer")
		return
	}
	msg, err := s.registry.RemoveService(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}
