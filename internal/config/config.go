package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the AI service.
// Environment variables are automatically parsed from the PALACE_AI_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP Configuration
	HTTPHost string `envconfig:"HTTP_HOST" default:"127.0.0.1"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"5000"`

	// Zero disables the write deadline; model calls are not time-bounded by the service.
	HTTPWriteTimeoutSeconds int `envconfig:"HTTP_WRITE_TIMEOUT_SECONDS" default:"0"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Chat runtime (Ollama) used by the director, analysis and vision components
	OllamaURL            string  `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	ChatModel            string  `envconfig:"CHAT_MODEL" default:"gemma3n:e2b"`
	AnalysisModel        string  `envconfig:"ANALYSIS_MODEL" default:"gemma3n:e2b"`
	ChatTemperature      float64 `envconfig:"CHAT_TEMPERATURE" default:"0.1"`
	AnalysisSchemaFormat bool    `envconfig:"ANALYSIS_SCHEMA_FORMAT" default:"false"`
	VisionModel          string  `envconfig:"VISION_MODEL" default:"moondream"`
	VisionMaxTokens      int     `envconfig:"VISION_MAX_TOKENS" default:"50"`

	// OpenAI-compatible speech runtime (Whisper transcription, TTS)
	SpeechBaseURL         string `envconfig:"SPEECH_BASE_URL" default:"http://localhost:8000/v1"`
	SpeechAPIKey          string `envconfig:"SPEECH_API_KEY" default:"sk-local"`
	TranscriptionModel    string `envconfig:"TRANSCRIPTION_MODEL" default:"whisper-large-v3-turbo"`
	TranscriptionLanguage string `envconfig:"TRANSCRIPTION_LANGUAGE" default:"en"`
	TTSModel              string `envconfig:"TTS_MODEL" default:"tts-1"`
	TTSVoice              string `envconfig:"TTS_VOICE" default:"alloy"`

	// Local models
	FaceModelDir       string  `envconfig:"FACE_MODEL_DIR" default:"models/dlib"`
	FaceTolerance      float64 `envconfig:"FACE_TOLERANCE" default:"0.6"`
	EmbeddingModelPath string  `envconfig:"EMBEDDING_MODEL_PATH" default:"models/all-MiniLM-L6-v2"`
}

// ResolveDefaults validates the loaded values and normalizes URLs.
func (c *Config) ResolveDefaults() error {
	switch c.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return fmt.Errorf("unsupported ENVIRONMENT: %s", c.Environment)
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.HTTPWriteTimeoutSeconds < 0 {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT_SECONDS must not be negative")
	}

	c.OllamaURL = withScheme(c.OllamaURL)
	if _, err := url.Parse(c.OllamaURL); err != nil {
		return fmt.Errorf("invalid OLLAMA_URL: %w", err)
	}
	c.SpeechBaseURL = withScheme(c.SpeechBaseURL)
	if _, err := url.Parse(c.SpeechBaseURL); err != nil {
		return fmt.Errorf("invalid SPEECH_BASE_URL: %w", err)
	}

	if c.ChatTemperature < 0 || c.ChatTemperature > 2 {
		return fmt.Errorf("CHAT_TEMPERATURE must be in [0, 2], got %f", c.ChatTemperature)
	}
	if c.FaceTolerance <= 0 {
		return fmt.Errorf("FACE_TOLERANCE must be positive, got %f", c.FaceTolerance)
	}
	if c.VisionMaxTokens <= 0 {
		c.VisionMaxTokens = 50
	}
	if len(c.CORSAllowedOrigins) == 0 {
		c.CORSAllowedOrigins = []string{"*"}
	}
	return nil
}

func withScheme(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return base
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return "http://" + base
	}
	return base
}

// New creates a new Config by parsing environment variables
// Environment variables should be prefixed with PALACE_AI_
// Example: PALACE_AI_HTTP_PORT, PALACE_AI_CHAT_MODEL
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PALACE_AI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("http_addr", cfg.GetHTTPAddr()).
		Str("ollama_url", cfg.OllamaURL).
		Str("chat_model", cfg.ChatModel).
		Str("analysis_model", cfg.AnalysisModel).
		Str("vision_model", cfg.VisionModel).
		Str("speech_base_url", cfg.SpeechBaseURL).
		Str("transcription_model", cfg.TranscriptionModel).
		Str("tts_model", cfg.TTSModel).
		Str("face_model_dir", cfg.FaceModelDir).
		Str("embedding_model_path", cfg.EmbeddingModelPath).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	cfg := &Config{
		Environment: EnvTesting,
		LogLevel:    "debug",
		HTTPHost:    "127.0.0.1",
		HTTPPort:    5000,
	}

	cfg.CORSAllowedOrigins = []string{"*"}
	cfg.OllamaURL = "http://localhost:11434"
	cfg.ChatModel = "gemma3n:e2b"
	cfg.AnalysisModel = "gemma3n:e2b"
	cfg.ChatTemperature = 0.1
	cfg.VisionModel = "moondream"
	cfg.VisionMaxTokens = 50

	cfg.SpeechBaseURL = "http://localhost:8000/v1"
	cfg.SpeechAPIKey = "sk-test"
	cfg.TranscriptionModel = "whisper-large-v3-turbo"
	cfg.TranscriptionLanguage = "en"
	cfg.TTSModel = "tts-1"
	cfg.TTSVoice = "alloy"

	cfg.FaceModelDir = "testdata/dlib"
	cfg.FaceTolerance = 0.6
	cfg.EmbeddingModelPath = "testdata/all-MiniLM-L6-v2"

	return cfg
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}
