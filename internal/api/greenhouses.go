package api

import (
	"net/http"
	"strconv"

	"github.com/verdantech/greenhouse-core/internal/catalog"
)

// greenhouseRequest is the registration payload: the greenhouse record
// plus its owning user.
type greenhouseRequest struct {
	catalog.Greenhouse
	UserID int `json:"userID"`
}

// handleListGreenhouses returns registered greenhouses. ?greenhouseID=
// narrows to one record, ?userID= to one user's greenhouses; the ID
// filter wins.
func (s *Server) handleListGreenhouses(w http.ResponseWriter, r *http.Request) {
	if idStr := r.URL.Query().Get("greenhouseID"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			writeBadRequest(w, "greenhouseID must be an integer")
			return
		}
		gh, err := s.registry.Greenhouse(id)
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, gh)
		return
	}
	if idStr := r.URL.Query().Get("userID"); idStr != "" {
		userID, err := strconv.Atoi(idStr)
		if err != nil {
			writeBadRequest(w, "userID must be an integer")
			return
		}
		ghs, err := s.registry.GreenhousesOfUser(userID)
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"greenhousesList": ghs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"greenhousesList": s.registry.Greenhouses()})
}

// handleGetGreenhouse returns a single greenhouse by ID.
func (s *Server) handleGetGreenhouse(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "greenhouse ID must be an integer")
		return
	}
	gh, err := s.registry.Greenhouse(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gh)
}

// handleRegisterGreenhouse registers a new greenhouse under a user.
func (s *Server) handleRegisterGreenhouse(w http.ResponseWriter, r *http.Request) {
	var req greenhouseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	msg, err := s.registry.RegisterGreenhouse(req.Greenhouse, req.UserID)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, msg)
}

// handleUpdateGreenhouse refreshes a greenhouse record.
func (s *Server) handleUpdateGreenhouse(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "greenhouse ID must be an integer")
		return
	}

	var gh catalog.Greenhouse
	if err := decodeBody(r, &gh); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	gh.GreenhouseID = id

	msg, err := s.registry.UpdateGreenhouse(gh)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// handleDeleteGreenhouse removes a greenhouse and everything inside it.
func (s *Server) handleDeleteGreenhouse(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "greenhouse ID must be an integer")
		return
	}
	msg, err := s.registry.RemoveGreenhouse(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// handleGreenhouseZones returns the zones of a greenhouse.
func (s *Server) handleGreenhouseZones(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "greenhouse ID must be an integer")
		return
	}
	zones, err := s.registry.ZonesOfGreenhouse(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zonesList": zones})
}

// handleGreenhouseDevices returns the devices owned by a greenhouse,
// including those owned by its zones.
func (s *Server) handleGreenhouseDevices(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "greenhouse ID must be an integer")
		return
	}
	devices, err := s.registry.DevicesOfGreenhouse(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devicesList": devices})
}
