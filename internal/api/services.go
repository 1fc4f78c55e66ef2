package api

import (
	"context"

	"github.com/GharsallahDev/memory-palace/internal/analysis"
	"github.com/GharsallahDev/memory-palace/internal/director"
	"github.com/GharsallahDev/memory-palace/internal/face"
	"github.com/GharsallahDev/memory-palace/internal/health"
	"github.com/GharsallahDev/memory-palace/internal/transcription"
	"github.com/GharsallahDev/memory-palace/internal/tts"
)

// Director answers chat turns. It never fails; model problems become a
// safe narrative.
type Director interface {
	health.Component
	Respond(ctx context.Context, req director.Request) director.Response
}

type Analyzer interface {
	health.Component
	Analyze(ctx context.Context, req analysis.Request) analysis.Result
}

type Embedder interface {
	health.Component
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Speaker interface {
	health.Component
	Synthesize(ctx context.Context, text string) (tts.Speech, error)
}

type Captioner interface {
	health.Component
	Caption(ctx context.Context, image []byte) (string, error)
}

type Transcriber interface {
	health.Component
	Transcribe(ctx context.Context, audio []byte) (transcription.Result, error)
}

type FaceIdentifier interface {
	health.Component
	Identify(ctx context.Context, probeBase64 string, known []face.KnownFace) ([]face.Person, error)
}

// Services bundles every model-backed component behind the HTTP surface.
type Services struct {
	Director    Director
	Analyzer    Analyzer
	Embedder    Embedder
	Speaker     Speaker
	Captioner   Captioner
	Transcriber Transcriber
	Faces       FaceIdentifier
}

// Components lists the services in health report order.
func (s Services) Components() []health.Component {
	return []health.Component{s.Director, s.Analyzer, s.Captioner, s.Transcriber, s.Faces, s.Embedder, s.Speaker}
}
