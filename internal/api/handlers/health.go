package handlers

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	Started time.Time
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Health is a liveness check. It touches no upstream service.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.Started).Seconds()),
	})
}
