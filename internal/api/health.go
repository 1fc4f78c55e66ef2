package api

import (
	"net/http"
	"time"

	"github.com/GharsallahDev/memory-palace/internal/api/respond"
	"github.com/GharsallahDev/memory-palace/internal/health"
)

// Version is reported by GET /health.
const Version = "5.0.0"

type HealthResponse struct {
	Status    string          `json:"status"`
	Services  map[string]bool `json:"services"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
}

// HealthHandler reports per-component readiness. It always answers 200;
// a missing model shows up as status "degraded".
type HealthHandler struct {
	checker *health.ServiceHealthChecker
	now     func() time.Time
}

func NewHealthHandler(checker *health.ServiceHealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker, now: time.Now}
}

// CheckHealth handles GET /health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    h.checker.Status(),
		Services:  h.checker.Services(),
		Version:   Version,
		Timestamp: h.now().UTC(),
	})
}
