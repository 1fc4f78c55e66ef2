package tts

import (
	"context"
	"io"

	"github.com/openai/openai-go"
	pkgerrors "github.com/pkg/errors"
)

// OpenAIBackend talks to an OpenAI-compatible /v1/audio/speech endpoint.
type OpenAIBackend struct {
	client *openai.Client
	model  string
	voice  string
}

var _ Synthesizer = (*OpenAIBackend)(nil)

func NewOpenAIBackend(client *openai.Client, model, voice string) *OpenAIBackend {
	return &OpenAIBackend{client: client, model: model, voice: voice}
}

func (b *OpenAIBackend) Ready(ctx context.Context) error {
	if _, err := b.client.Models.Get(ctx, b.model); err != nil {
		return pkgerrors.Wrapf(err, "tts model %q unavailable", b.model)
	}
	return nil
}

func (b *OpenAIBackend) Synthesize(ctx context.Context, text string, w io.Writer) error {
	resp, err := b.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(b.model),
		Voice:          openai.AudioSpeechNewParamsVoice(b.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return pkgerrors.Wrap(err, "stream speech audio")
	}
	return nil
}
