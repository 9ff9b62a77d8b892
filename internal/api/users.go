package api

import (
	"net/http"
	"strconv"

	"github.com/verdantech/greenhouse-core/internal/catalog"
)

// handleListUsers returns all registered users. The chat front-end passes
// ?userID= to fetch a single user without learning the path scheme.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if idStr := r.URL.Query().Get("userID"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			writeBadRequest(w, "userID must be an integer")
			return
		}
		u, err := s.registry.User(id)
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"usersList": s.registry.Users()})
}

// handleGetUser returns a single user by ID.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "user ID must be an integer")
		return
	}
	u, err := s.registry.User(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleRegisterUser registers a new user.
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var u catalog.User
	if err := decodeBody(r, &u); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	msg, err := s.registry.RegisterUser(u)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, msg)
}

// handleUpdateUser refreshes a user record.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "user ID must be an integer")
		return
	}

	var u catalog.User
	if err := decodeBody(r, &u); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	u.UserID = id

	msg, err := s.registry.UpdateUser(u)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// handleDeleteUser removes a user and everything the user owns.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "user ID must be an integer")
		return
	}
	msg, err := s.registry.RemoveUser(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// handleUserGreenhouses returns the greenhouses a user owns.
func (s *Server) handleUserGreenhouses(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeBadRequest(w, "user ID must be an integer")
		return
	}
	ghs, err := s.registry.GreenhousesOfUser(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"greenhousesList": ghs})
}
