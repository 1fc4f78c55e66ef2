// Package tts synthesizes speech audio and reports its playback duration.
package tts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-audio/wav"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/metrics"
)

const componentName = "tts"

// MediaType is the content type of synthesized audio.
const MediaType = "audio/wav"

var (
	ErrNotReady  = errors.New("tts service is not ready")
	ErrEmptyText = errors.New("text is empty")
	ErrBadAudio  = errors.New("synthesized audio is not a valid wav file")
)

// Synthesizer writes WAV audio for text to w.
type Synthesizer interface {
	Ready(ctx context.Context) error
	Synthesize(ctx context.Context, text string, w io.Writer) error
}

type Speech struct {
	Audio      []byte
	DurationMs int
}

type Service struct {
	backend Synthesizer
	ready   bool
	tempDir string
	log     zerolog.Logger
}

func NewService(ctx context.Context, backend Synthesizer, log zerolog.Logger) *Service {
	s := &Service{backend: backend, log: log}
	if backend == nil {
		log.Error().Msg("tts: no backend configured")
		return s
	}
	if err := backend.Ready(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("failed to initialize tts service")
		return s
	}
	s.ready = true
	log.Info().Msg("tts service ready")
	return s
}

func (s *Service) Name() string  { return componentName }
func (s *Service) IsReady() bool { return s.ready }

// Synthesize renders text into a temporary .wav file, reads it back and
// measures its duration. The file is always removed.
func (s *Service) Synthesize(ctx context.Context, text string) (Speech, error) {
	if !s.ready {
		return Speech{}, ErrNotReady
	}
	if strings.TrimSpace(text) == "" {
		return Speech{}, ErrEmptyText
	}

	f, err := os.CreateTemp(s.tempDir, "palace-speech-*.wav")
	if err != nil {
		return Speech{}, pkgerrors.Wrap(err, "create temp wav file")
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.log.Warn().Err(rmErr).Str("path", path).Msg("failed to remove temp wav file")
		}
	}()

	start := time.Now()
	err = s.backend.Synthesize(ctx, text, f)
	closeErr := f.Close()
	metrics.ObserveModelCall(componentName, err)
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("speech synthesis failed")
		return Speech{}, pkgerrors.Wrap(err, "synthesize speech")
	}
	if closeErr != nil {
		return Speech{}, pkgerrors.Wrap(closeErr, "close temp wav file")
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return Speech{}, pkgerrors.Wrap(err, "read synthesized audio")
	}
	durationMs, err := DurationMs(audio)
	if err != nil {
		return Speech{}, err
	}

	s.log.Info().
		Int("bytes", len(audio)).
		Int("duration_ms", durationMs).
		Dur("elapsed", time.Since(start)).
		Msg("synthesized speech")
	return Speech{Audio: audio, DurationMs: durationMs}, nil
}

// DurationMs returns frames / sample_rate in whole milliseconds, truncated.
// Frames are counted from the PCM bytes actually present; the declared
// data size is only used when it fits inside them, since streamed WAVs
// carry a placeholder size.
func DurationMs(audio []byte) (int, error) {
	r := bytes.NewReader(audio)
	d := wav.NewDecoder(r)
	if err := d.FwdToPCM(); err != nil {
		return 0, pkgerrors.Wrap(ErrBadAudio, err.Error())
	}
	if d.PCMChunk == nil {
		return 0, ErrBadAudio
	}
	frameSize := int64(d.NumChans) * int64(d.BitDepth/8)
	if d.SampleRate == 0 || frameSize == 0 {
		return 0, ErrBadAudio
	}
	// The reader sits at the first PCM byte once FwdToPCM returns.
	pcmBytes := int64(r.Len())
	if declared := int64(d.PCMSize); declared > 0 && declared <= pcmBytes {
		pcmBytes = declared
	}
	frames := pcmBytes / frameSize
	return int(frames * 1000 / int64(d.SampleRate)), nil
}
