package health

import (
	"github.com/rs/zerolog"
)

// Component is implemented by every model-backed service. Readiness is
// decided once at construction and never changes afterwards.
type Component interface {
	Name() string
	IsReady() bool
}

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// ServiceHealthChecker aggregates component readiness into a single service status.
type ServiceHealthChecker struct {
	deps []Component
	log  zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...Component) *ServiceHealthChecker {
	return &ServiceHealthChecker{deps: deps, log: log}
}

// Services returns the readiness flag of every registered component keyed by name.
func (h *ServiceHealthChecker) Services() map[string]bool {
	out := make(map[string]bool, len(h.deps))
	for _, c := range h.deps {
		out[c.Name()] = c.IsReady()
	}
	return out
}

// IsHealthy reports whether every component is ready.
func (h *ServiceHealthChecker) IsHealthy() bool {
	for _, c := range h.deps {
		if !c.IsReady() {
			return false
		}
	}
	return true
}

// Status returns StatusHealthy when all components are ready, StatusDegraded otherwise.
func (h *ServiceHealthChecker) Status() string {
	if h.IsHealthy() {
		return StatusHealthy
	}
	return StatusDegraded
}

// LogSummary writes one line per component plus the aggregated status.
func (h *ServiceHealthChecker) LogSummary() {
	for _, c := range h.deps {
		if c.IsReady() {
			h.log.Info().Str("component", c.Name()).Msg("component ready")
		} else {
			h.log.Error().Str("component", c.Name()).Msg("component not ready")
		}
	}
	if h.IsHealthy() {
		h.log.Info().Msg("service health: UP")
	} else {
		h.log.Warn().Msg("service health: DEGRADED")
	}
}
