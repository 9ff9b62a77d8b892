package api

import (
	"net/http"
	"strconv"

	"github.com/verdantech/greenhouse-core/internal/catalog"
)

// deviceRequest is the registration payload: the device record plus where
// it hangs in the hierarchy. Either owner field is enough on its own.
type deviceRequest struct {
	catalog.Device
	GreenhouseID *int `json:"greenhouseID,omitempty"`
	ZoneID       *int `json:"zoneID,omitempty"`
}

// handleListDevices returns registered devices, wrapped in the catalog's
// devicesList key.
//
// Query parameters:
//   - zoneID: only devices owned by this zone
//   - greenhouseID: devices owned by this greenhouse or its zones
//
// zoneID wins when both are given.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	if zoneStr := r.URL.Query().Get("zoneID"); zoneStr != "" {
		zoneID, err := strconv.Atoi(zoneStr)
		if err != nil {
			writeBadRequest(w, "zoneID must be an integer")
			return
		}
		devices, err := s.registry.DevicesOfZone(zoneID)
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"devicesList": devices})
		return
	}

	if ghStr := r.URL.Query().Get("greenhouseID"); ghStr != "" {
		greenhouseID, err := strconv.Atoi(ghStr)
		if err != nil {
			writeBadRequest(w, "greenhouseID must be an integer")
			return
		}
		devices, err := s.registry.DevicesOfGreenhouse(greenhouseID)
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"devicesList": devices})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"devicesList": s.registry.Devices()})
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "device ID must be an integer")
		return
	}
	dev, err := s.registry.Device(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// handleRegisterDevice registers a new device under a greenhouse or zone.
func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	msg, err := s.registry.RegisterDevice(req.Device, catalog.Owner{
		GreenhouseID: req.GreenhouseID,
		ZoneID:       req.ZoneID,
	})
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, msg)
}

// handleUpdateDevice refreshes a device record. Devices call this
// periodically as their liveness heartbeat; an empty body is valid.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "device ID must be an integer")
		return
	}

	var dev catalog.Device
	if r.ContentLength > 0 {
		if err := decodeBody(r, &dev); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}
	dev.DeviceID = id

	msg, err := s.registry.UpdateDevice(dev)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// handleDeleteDevice removes a device.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "device ID must be an integer")
		return
	}
	msg, err := s.registry.RemoveDevice(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}
