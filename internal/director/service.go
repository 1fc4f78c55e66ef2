// Package director builds conversational prompts for the chat runtime and
// interprets its single JSON reply as a narrative or a cinematic show.
package director

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/metrics"
)

const componentName = "chat_conversation"

const (
	// FallbackMessage is returned whenever the model output cannot be used.
	FallbackMessage = "I'm sorry, I had a little trouble organizing my thoughts."
	// NotReadyMessage is returned when the chat model was not verified at startup.
	NotReadyMessage = "Error: The AI Director service is not available or the configured model is not installed."
)

// Runtime is the chat runtime the director depends on.
type Runtime interface {
	Show(ctx context.Context, model string) error
	CompleteJSON(ctx context.Context, model, prompt string, format json.RawMessage, temperature float64) (string, error)
}

// Service is the conversational director.
type Service struct {
	runtime     Runtime
	model       string
	temperature float64
	ready       bool
	log         zerolog.Logger
}

// NewService verifies that model is resident in the runtime. A failed check
// leaves the service permanently not ready.
func NewService(ctx context.Context, runtime Runtime, model string, temperature float64, log zerolog.Logger) *Service {
	s := &Service{runtime: runtime, model: model, temperature: temperature, log: log}
	if runtime == nil {
		log.Error().Msg("director: no chat runtime configured")
		return s
	}
	if err := runtime.Show(ctx, model); err != nil {
		log.Error().Stack().Err(err).Str("model", model).
			Msg("failed to initialize director; ensure Ollama is running and the model has been pulled")
		return s
	}
	s.ready = true
	log.Info().Str("model", model).Msg("director ready")
	return s
}

func (s *Service) Name() string  { return componentName }
func (s *Service) IsReady() bool { return s.ready }

// Respond runs one director turn. It never returns an error: any model or
// parsing failure is replaced by the fallback narrative.
func (s *Service) Respond(ctx context.Context, req Request) Response {
	if !s.ready {
		return Narrative{Message: NotReadyMessage}
	}

	start := time.Now()
	defer func() {
		s.log.Info().Dur("elapsed", time.Since(start)).Msg("director response generated")
	}()

	prompt := BuildPrompt(req)
	s.log.Debug().Str("prompt", prompt).Msg("constructed director prompt")
	s.log.Info().Str("query", req.Query).Str("model", s.model).Msg("generating director response")

	raw, err := s.runtime.CompleteJSON(ctx, s.model, prompt, nil, s.temperature)
	metrics.ObserveModelCall(componentName, err)
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("failed to get director response")
		metrics.ObserveFallback(componentName, "model_error")
		return Narrative{Message: FallbackMessage}
	}
	s.log.Debug().Str("raw", raw).Msg("raw director output")

	resp, err := ParseResponse(raw)
	if err != nil {
		s.log.Error().Err(err).Str("raw", raw).Msg("unusable director output")
		metrics.ObserveFallback(componentName, "parse_error")
		return Narrative{Message: FallbackMessage}
	}
	return resp
}

var errUnknownType = errors.New("unknown or missing response_type")

type rawReply struct {
	ResponseType string  `json:"response_type"`
	Message      *string `json:"message"`
	ShowTitle    *string `json:"show_title"`
	Scenes       *[]struct {
		MemoryID  *string `json:"memory_id"`
		Narration *string `json:"narration"`
	} `json:"scenes"`
}

// ParseResponse decodes a model reply into one of the two response shapes.
func ParseResponse(raw string) (Response, error) {
	var r rawReply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode director reply: %w", err)
	}

	switch r.ResponseType {
	case TypeNarrative:
		if r.Message == nil {
			return nil, errors.New("narrative reply without message")
		}
		return Narrative{Message: *r.Message}, nil
	case TypeCinematicShow:
		if r.ShowTitle == nil {
			return nil, errors.New("cinematic reply without show_title")
		}
		if r.Scenes == nil {
			return nil, errors.New("cinematic reply without scenes")
		}
		scenes := make([]Scene, 0, len(*r.Scenes))
		for i, sc := range *r.Scenes {
			if sc.MemoryID == nil || sc.Narration == nil {
				return nil, fmt.Errorf("scene %d is incomplete", i)
			}
			scenes = append(scenes, Scene{MemoryID: *sc.MemoryID, Narration: *sc.Narration})
		}
		return CinematicShow{ShowTitle: *r.ShowTitle, Scenes: scenes}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownType, r.ResponseType)
	}
}
