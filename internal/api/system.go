package api

import (
	"net/http"
)

// handleHealth returns the server health status plus the state of the
// optional backing components.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{}

	if s.mqtt != nil {
		components["mqtt"] = healthWord(s.mqtt.HealthCheck(r.Context()) == nil)
	}
	if s.database != nil {
		components["database"] = healthWord(s.database.HealthCheck(r.Context()) == nil)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    s.version,
		"lastUpdate": s.registry.LastUpdate(),
		"components": components,
	})
}

func healthWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "unavailable"
}

// handleGetAll returns the whole catalog document in its on-disk shape.
// The telemetry relay and the chat front-end pull this once at startup
// and then follow MQTT events.
func (s *Server) handleGetAll(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Snapshot())
}
