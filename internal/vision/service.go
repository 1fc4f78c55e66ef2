// Package vision produces short image captions using a vision model hosted
// by the chat runtime.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/imaging"
	"github.com/GharsallahDev/memory-palace/internal/metrics"
	"github.com/GharsallahDev/memory-palace/internal/ollama"
)

const componentName = "vision"

const captionPrompt = "Write a single short caption describing this image. Reply with the caption only."

// artifactPrefix is a known captioning artifact stripped from model output.
const artifactPrefix = "arafed image of"

var ErrNotReady = errors.New("vision service is not ready")

// Runtime is the subset of the chat runtime used for captioning.
type Runtime interface {
	Show(ctx context.Context, model string) error
	Chat(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error)
}

type Service struct {
	runtime   Runtime
	model     string
	maxTokens int
	ready     bool
	log       zerolog.Logger
}

func NewService(ctx context.Context, runtime Runtime, model string, maxTokens int, log zerolog.Logger) *Service {
	s := &Service{runtime: runtime, model: model, maxTokens: maxTokens, log: log}
	if runtime == nil {
		log.Error().Msg("vision: no runtime configured")
		return s
	}
	if err := runtime.Show(ctx, model); err != nil {
		log.Error().Stack().Err(err).Str("model", model).Msg("failed to initialize vision service")
		return s
	}
	s.ready = true
	log.Info().Str("model", model).Msg("vision service ready")
	return s
}

func (s *Service) Name() string  { return componentName }
func (s *Service) IsReady() bool { return s.ready }

// Caption decodes imageBytes and returns one cleaned caption.
func (s *Service) Caption(ctx context.Context, imageBytes []byte) (string, error) {
	if !s.ready {
		return "", ErrNotReady
	}

	img, err := imaging.Decode(imageBytes)
	if err != nil {
		return "", err
	}
	jpg, err := imaging.EncodeJPEG(img, 95)
	if err != nil {
		return "", err
	}

	temperature := 0.0
	resp, err := s.runtime.Chat(ctx, ollama.ChatRequest{
		Model: s.model,
		Messages: []ollama.Message{{
			Role:    "user",
			Content: captionPrompt,
			Images:  []string{base64.StdEncoding.EncodeToString(jpg)},
		}},
		Options: &ollama.Options{Temperature: &temperature, NumPredict: s.maxTokens},
	})
	metrics.ObserveModelCall(componentName, err)
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("failed to generate image caption")
		return "", fmt.Errorf("generate caption: %w", err)
	}

	caption := CleanCaption(resp.Message.Content)
	s.log.Info().Str("caption", caption).Msg("generated image caption")
	return caption, nil
}

// CleanCaption strips the known artifact prefix and capitalizes the caption:
// first letter upper case, the rest lower case.
func CleanCaption(caption string) string {
	caption = strings.TrimSpace(caption)
	if strings.HasPrefix(strings.ToLower(caption), artifactPrefix) {
		caption = strings.TrimSpace(caption[len(artifactPrefix):])
	}
	return capitalize(caption)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
