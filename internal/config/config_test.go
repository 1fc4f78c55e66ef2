package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PALACE_AI_HTTP_PORT", "PALACE_AI_CHAT_MODEL", "PALACE_AI_OLLAMA_URL", "PALACE_AI_FACE_TOLERANCE"} {
		_ = os.Unsetenv(k)
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 5000 || cfg.ChatModel != "gemma3n:e2b" || cfg.FaceTolerance != 0.6 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.OllamaURL != "http://localhost:11434" {
		t.Fatalf("unexpected ollama url: %s", cfg.OllamaURL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	t.Setenv("PALACE_AI_CHAT_MODEL", "llama3.2")
	t.Setenv("PALACE_AI_OLLAMA_URL", "ollama:11434/")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.ChatModel != "llama3.2" {
		t.Fatalf("chat model env override failed, got %s", cfg.ChatModel)
	}
	if cfg.OllamaURL != "http://ollama:11434" {
		t.Fatalf("expected scheme to be added and trailing slash trimmed, got %s", cfg.OllamaURL)
	}
}

func TestConfigLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("PALACE_AI_FACE_TOLERANCE", "0")
	if _, err := New(); err == nil {
		t.Fatalf("expected error for zero face tolerance")
	}
}

func TestResolveDefaults_Environment(t *testing.T) {
	cfg := NewForTesting()
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("testing config should be valid: %v", err)
	}
	if !cfg.IsTesting() || cfg.IsProduction() {
		t.Fatalf("unexpected environment flags")
	}

	cfg.Environment = "staging"
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatalf("expected unsupported environment error")
	}
}

func TestGetHTTPAddr(t *testing.T) {
	cfg := NewForTesting()
	cfg.HTTPHost = "0.0.0.0"
	cfg.HTTPPort = 9000
	if got := cfg.GetHTTPAddr(); got != "0.0.0.0:9000" {
		t.Fatalf("unexpected addr %s", got)
	}
}
