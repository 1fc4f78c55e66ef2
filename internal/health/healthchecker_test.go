package health

import (
	"testing"

	"github.com/rs/zerolog"
)

type stubComponent struct {
	name  string
	ready bool
}

func (s stubComponent) Name() string  { return s.name }
func (s stubComponent) IsReady() bool { return s.ready }

func TestServiceHealthChecker_AllReady(t *testing.T) {
	h := NewServiceHealthChecker(zerolog.Nop(),
		stubComponent{"chat_conversation", true},
		stubComponent{"embedding", true},
	)
	if !h.IsHealthy() || h.Status() != StatusHealthy {
		t.Fatalf("expected healthy, got %s", h.Status())
	}
	svc := h.Services()
	if len(svc) != 2 || !svc["chat_conversation"] || !svc["embedding"] {
		t.Fatalf("unexpected services map: %v", svc)
	}
	h.LogSummary()
}

func TestServiceHealthChecker_Degraded(t *testing.T) {
	h := NewServiceHealthChecker(zerolog.Nop(),
		stubComponent{"vision", true},
		stubComponent{"tts", false},
	)
	if h.IsHealthy() {
		t.Fatalf("expected degraded service")
	}
	if h.Status() != StatusDegraded {
		t.Fatalf("expected %q, got %q", StatusDegraded, h.Status())
	}
	if h.Services()["tts"] {
		t.Fatalf("tts should be reported not ready")
	}
	h.LogSummary()
}

func TestServiceHealthChecker_NoComponents(t *testing.T) {
	h := NewServiceHealthChecker(zerolog.Nop())
	if !h.IsHealthy() {
		t.Fatalf("empty checker should be healthy")
	}
}
