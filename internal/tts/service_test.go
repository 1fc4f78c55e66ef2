package tts

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWAV encodes a silent mono 16-bit clip with the given frame count.
func makeWAV(t *testing.T, sampleRate, frames int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, frames),
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

type fakeSynth struct {
	readyErr error
	audio    []byte
	err      error
	seen     string
}

func (f *fakeSynth) Ready(ctx context.Context) error { return f.readyErr }

func (f *fakeSynth) Synthesize(ctx context.Context, text string, w io.Writer) error {
	f.seen = text
	if f.err != nil {
		return f.err
	}
	_, err := w.Write(f.audio)
	return err
}

func newTestService(t *testing.T, b *fakeSynth) *Service {
	t.Helper()
	s := NewService(context.Background(), b, zerolog.Nop())
	s.tempDir = t.TempDir()
	return s
}

func tempFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestDurationMs(t *testing.T) {
	ms, err := DurationMs(makeWAV(t, 16000, 24000))
	require.NoError(t, err)
	assert.Equal(t, 1500, ms)

	ms, err = DurationMs(makeWAV(t, 22050, 1000))
	require.NoError(t, err)
	assert.Equal(t, 45, ms, "truncated, not rounded")

	_, err = DurationMs([]byte("RIFF nonsense"))
	assert.Error(t, err)
}

// streamedHeader patches the RIFF and data sizes to the placeholder used by
// servers that write the header before the length is known.
func streamedHeader(t *testing.T, clip []byte) []byte {
	t.Helper()
	out := append([]byte(nil), clip...)
	dataAt := bytes.Index(out, []byte("data"))
	require.Greater(t, dataAt, 0)
	binary.LittleEndian.PutUint32(out[4:8], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(out[dataAt+4:dataAt+8], 0xFFFFFFFF)
	return out
}

func TestDurationMs_StreamedHeader(t *testing.T) {
	ms, err := DurationMs(streamedHeader(t, makeWAV(t, 24000, 24000)))
	require.NoError(t, err)
	assert.Equal(t, 1000, ms)
}

func TestDurationMs_DeclaredSizeWithinData(t *testing.T) {
	// Trailing bytes after the data chunk must not count as samples.
	clip := append(makeWAV(t, 16000, 8000), []byte("LIST\x04\x00\x00\x00abcd")...)
	ms, err := DurationMs(clip)
	require.NoError(t, err)
	assert.Equal(t, 500, ms)
}

func TestSynthesize_StreamedWAV(t *testing.T) {
	s := newTestService(t, &fakeSynth{audio: streamedHeader(t, makeWAV(t, 24000, 36000))})
	speech, err := s.Synthesize(context.Background(), "Good evening")
	require.NoError(t, err)
	assert.Equal(t, 1500, speech.DurationMs)
}

func TestSynthesize(t *testing.T) {
	clip := makeWAV(t, 24000, 12000)
	b := &fakeSynth{audio: clip}
	s := newTestService(t, b)

	speech, err := s.Synthesize(context.Background(), "Good morning")
	require.NoError(t, err)
	assert.Equal(t, clip, speech.Audio)
	assert.Equal(t, 500, speech.DurationMs)
	assert.Equal(t, "Good morning", b.seen)
	assert.Empty(t, tempFiles(t, s.tempDir))
}

func TestSynthesize_FailuresRemoveFile(t *testing.T) {
	s := newTestService(t, &fakeSynth{err: errors.New("voice missing")})
	_, err := s.Synthesize(context.Background(), "hello")
	assert.ErrorContains(t, err, "voice missing")
	assert.Empty(t, tempFiles(t, s.tempDir))

	s = newTestService(t, &fakeSynth{audio: []byte("not audio")})
	_, err = s.Synthesize(context.Background(), "hello")
	assert.Error(t, err)
	assert.Empty(t, tempFiles(t, s.tempDir))
}

func TestSynthesize_Guards(t *testing.T) {
	s := newTestService(t, &fakeSynth{})
	_, err := s.Synthesize(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	down := newTestService(t, &fakeSynth{readyErr: errors.New("offline")})
	assert.False(t, down.IsReady())
	assert.Equal(t, "tts", down.Name())
	_, err = down.Synthesize(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotReady)
}
