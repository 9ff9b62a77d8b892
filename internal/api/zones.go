package api

import (
	"net/http"
	"strconv"

	"github.com/verdantech/greenhouse-core/internal/catalog"
)

// zoneRequest is the registration payload: the zone record plus its
// owning greenhouse.
type zoneRequest struct {
	catalog.Zone
	GreenhouseID int `json:"greenhouseID"`
}

// thresholdRequest carries an irrigation threshold adjustment. The
// control loop sends a signed delta, not an absolute setpoint.
type thresholdRequest struct {
	ThresholdDelta *float64 `json:"thresholdDelta"`
}

// handleListZones returns registered zones. ?zoneID= narrows to one
// zone, ?greenhouseID= to one greenhouse's zones; the ID filter wins.
func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	if idStr := r.URL.Query().Get("zoneID"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			writeBadRequest(w, "zoneID must be an integer")
			return
		}
		z, err := s.registry.Zone(id)
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, z)
		return
	}
	if idStr := r.URL.Query().Get("greenhouseID"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			writeBadRequest(w, "greenhouseID must be an integer")
			return
		}
		zones, err := s.registry.ZonesOfGreenhouse(id)
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"zonesList": zones})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zonesList": s.registry.Zones()})
}

// handleZoneIDs returns the zone IDs of a greenhouse.
func (s *Server) handleZoneIDs(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("greenhouseID")
	if idStr == "" {
		writeBadRequest(w, "greenhouseID query parameter is required")
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeBadRequest(w, "greenhouseID must be an integer")
		return
	}
	ids, err := s.registry.ZoneIDsOfGreenhouse(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zoneIDs": ids})
}

// handleGetZone returns a single zone by ID.
func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "zone ID must be an integer")
		return
	}
	z, err := s.registry.Zone(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

// handleRegisterZone registers a new zone under a greenhouse.
func (s *Server) handleRegisterZone(w http.ResponseWriter, r *http.Request) {
	var req zoneRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	msg, err := s.registry.RegisterZone(req.Zone, req.GreenhouseID)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, msg)
}

// handleUpdateZone refreshes a zone record, re-running the temperature
// and moisture checks.
func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "zone ID must be an integer")
		return
	}

	var z catalog.Zone
	if err := decodeBody(r, &z); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	z.ZoneID = id

	msg, err := s.registry.UpdateZone(z)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// handleApplyThreshold shifts a zone's moisture threshold by a delta.
// The irrigation loop nudges the setpoint up or down; the resulting
// value must stay within bounds.
func (s *Server) handleApplyThreshold(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "zone ID must be an integer")
		return
	}

	var req thresholdRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.ThresholdDelta == nil {
		writeBadRequest(w, "thresholdDelta is required")
		return
	}

	msg, err := s.registry.ApplyMoistureDelta(id, *req.ThresholdDelta)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// handleDeleteZone removes a zone and the devices it owns.
func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "zone ID must be an integer")
		return
	}
	msg, err := s.registry.RemoveZone(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// handleZoneDevices returns the devices owned by a zone.
func (s *Server) handleZoneDevices(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "zone ID must be an integer")
		return
	}
	devices, err := s.registry.DevicesOfZone(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devicesList": devices})
}
