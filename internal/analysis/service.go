// Package analysis scores a single memory for proactive resurfacing using the
// chat runtime and validates the untrusted reply into a fixed shape.
package analysis

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/metrics"
)

const componentName = "proactive_analysis"

// Runtime is the chat runtime used for analysis.
type Runtime interface {
	Show(ctx context.Context, model string) error
	CompleteJSON(ctx context.Context, model, prompt string, format json.RawMessage, temperature float64) (string, error)
}

type Service struct {
	runtime     Runtime
	model       string
	temperature float64
	format      json.RawMessage
	ready       bool
	log         zerolog.Logger
}

// NewService verifies the model is resident. When schemaFormat is set the
// runtime is asked to follow the reply JSON schema instead of free JSON.
func NewService(ctx context.Context, runtime Runtime, model string, temperature float64, schemaFormat bool, log zerolog.Logger) *Service {
	s := &Service{runtime: runtime, model: model, temperature: temperature, log: log}
	if schemaFormat {
		format, err := ReplySchema()
		if err != nil {
			log.Warn().Err(err).Msg("analysis reply schema unavailable; using plain json format")
		} else {
			s.format = format
		}
	}
	if runtime == nil {
		log.Error().Msg("analysis: no chat runtime configured")
		return s
	}
	if err := runtime.Show(ctx, model); err != nil {
		log.Error().Stack().Err(err).Str("model", model).Msg("failed to initialize proactive analysis service")
		return s
	}
	s.ready = true
	log.Info().Str("model", model).Msg("proactive analysis ready")
	return s
}

func (s *Service) Name() string  { return componentName }
func (s *Service) IsReady() bool { return s.ready }

// Analyze returns the validated analysis for req, or Default() when the
// service is not ready or the model fails.
func (s *Service) Analyze(ctx context.Context, req Request) Result {
	if !s.ready {
		metrics.ObserveFallback(componentName, "not_ready")
		return Default()
	}

	raw, err := s.runtime.CompleteJSON(ctx, s.model, BuildPrompt(req), s.format, s.temperature)
	metrics.ObserveModelCall(componentName, err)
	if err != nil {
		s.log.Error().Stack().Err(err).Str("title", req.Title).Msg("memory analysis failed")
		metrics.ObserveFallback(componentName, "model_error")
		return Default()
	}

	res, err := Validate(raw)
	if err != nil {
		s.log.Error().Err(err).Str("raw", raw).Msg("failed to parse analysis JSON from model")
		metrics.ObserveFallback(componentName, "parse_error")
		return Default()
	}
	return res
}

// ReplySchema returns the JSON schema describing the expected model reply.
// "null" is part of the anniversary enum and is normalized to absent.
func ReplySchema() (json.RawMessage, error) {
	r := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := r.Reflect(&reply{})
	if prop, ok := schema.Properties.Get("anniversary_type"); ok {
		prop.Enum = append(prop.Enum, "null")
	}
	return json.Marshal(schema)
}
