// Package transcription converts recorded audio into text with segment
// timestamps.
package transcription

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/metrics"
)

const componentName = "transcription"

var (
	ErrNotReady   = errors.New("transcription service is not ready")
	ErrEmptyAudio = errors.New("audio payload is empty")
)

// Segment is one timestamped span returned by a backend, in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Backend runs speech recognition on an audio file.
type Backend interface {
	Ready(ctx context.Context) error
	TranscribeFile(ctx context.Context, path string) (string, []Segment, error)
}

// Chunk is the wire form of a segment.
type Chunk struct {
	Timestamp [2]float64 `json:"timestamp"`
	Text      string     `json:"text"`
}

type Result struct {
	Text   string  `json:"text"`
	Chunks []Chunk `json:"chunks"`
}

type Service struct {
	backend Backend
	ready   bool
	tempDir string
	log     zerolog.Logger
}

func NewService(ctx context.Context, backend Backend, log zerolog.Logger) *Service {
	s := &Service{backend: backend, log: log}
	if backend == nil {
		log.Error().Msg("transcription: no backend configured")
		return s
	}
	if err := backend.Ready(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("failed to initialize transcription service")
		return s
	}
	s.ready = true
	log.Info().Msg("transcription service ready")
	return s
}

func (s *Service) Name() string  { return componentName }
func (s *Service) IsReady() bool { return s.ready }

// Transcribe spools audio to a temporary .webm file and transcribes it.
// The file is removed whether or not transcription succeeds.
func (s *Service) Transcribe(ctx context.Context, audio []byte) (Result, error) {
	if !s.ready {
		return Result{}, ErrNotReady
	}
	if len(audio) == 0 {
		return Result{}, ErrEmptyAudio
	}

	f, err := os.CreateTemp(s.tempDir, "palace-audio-*.webm")
	if err != nil {
		return Result{}, pkgerrors.Wrap(err, "create temp audio file")
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.log.Warn().Err(rmErr).Str("path", path).Msg("failed to remove temp audio file")
		}
	}()

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return Result{}, pkgerrors.Wrap(err, "write temp audio file")
	}
	if err := f.Close(); err != nil {
		return Result{}, pkgerrors.Wrap(err, "close temp audio file")
	}

	return s.TranscribeFile(ctx, path)
}

// TranscribeFile transcribes an audio file already on disk.
func (s *Service) TranscribeFile(ctx context.Context, path string) (Result, error) {
	if !s.ready {
		return Result{}, ErrNotReady
	}

	start := time.Now()
	text, segments, err := s.backend.TranscribeFile(ctx, path)
	metrics.ObserveModelCall(componentName, err)
	if err != nil {
		s.log.Error().Stack().Err(err).Str("path", path).Msg("transcription failed")
		return Result{}, pkgerrors.Wrap(err, "transcribe audio")
	}

	res := Result{Text: strings.TrimSpace(text), Chunks: make([]Chunk, 0, len(segments))}
	for _, seg := range segments {
		res.Chunks = append(res.Chunks, Chunk{Timestamp: [2]float64{seg.Start, seg.End}, Text: seg.Text})
	}
	s.log.Info().
		Int("chunks", len(res.Chunks)).
		Dur("elapsed", time.Since(start)).
		Msg("transcribed audio")
	return res, nil
}
