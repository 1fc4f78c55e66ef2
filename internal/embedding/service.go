// Package embedding turns text into fixed-length, unit-normalized vectors.
package embedding

import (
	"context"
	"errors"
	"math"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/metrics"
)

const componentName = "embedding"

var (
	ErrNotReady  = errors.New("embedding service is not ready")
	ErrEmptyText = errors.New("text is empty")
	ErrNoTokens  = errors.New("model returned no token embeddings")
)

// Encoder returns per-token embeddings and the matching attention mask.
// Backends that pool internally return one row with mask [1].
type Encoder interface {
	Encode(ctx context.Context, text string) ([][]float32, []int, error)
}

type Service struct {
	encoder Encoder
	log     zerolog.Logger
}

// NewService wraps encoder. A nil encoder yields a service that is never ready.
func NewService(encoder Encoder, log zerolog.Logger) *Service {
	if encoder == nil {
		log.Error().Msg("embedding: no encoder configured")
	} else {
		log.Info().Msg("embedding service ready")
	}
	return &Service{encoder: encoder, log: log}
}

func (s *Service) Name() string  { return componentName }
func (s *Service) IsReady() bool { return s.encoder != nil }

func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.encoder == nil {
		return nil, ErrNotReady
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	tokens, mask, err := s.encoder.Encode(ctx, text)
	metrics.ObserveModelCall(componentName, err)
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("embedding failed")
		return nil, pkgerrors.Wrap(err, "encode text")
	}

	pooled, err := MeanPool(tokens, mask)
	if err != nil {
		return nil, err
	}
	return Normalize(pooled), nil
}

// MeanPool averages token rows weighted by the attention mask. A nil mask
// counts every row.
func MeanPool(tokens [][]float32, mask []int) ([]float32, error) {
	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}
	dim := len(tokens[0])
	sum := make([]float64, dim)
	var weight float64
	for i, row := range tokens {
		if len(row) != dim {
			return nil, pkgerrors.Errorf("token %d has dimension %d, want %d", i, len(row), dim)
		}
		w := 1.0
		if mask != nil {
			if i >= len(mask) {
				break
			}
			w = float64(mask[i])
		}
		if w == 0 {
			continue
		}
		for j, v := range row {
			sum[j] += float64(v) * w
		}
		weight += w
	}

	// Matches the usual clamp of the mask sum to a tiny positive value.
	weight = math.Max(weight, 1e-9)
	out := make([]float32, dim)
	for j := range sum {
		out[j] = float32(sum[j] / weight)
	}
	return out, nil
}

// Normalize scales v to unit L2 norm. The zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sq float64
	for _, x := range v {
		sq += float64(x) * float64(x)
	}
	norm := math.Max(math.Sqrt(sq), 1e-12)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
