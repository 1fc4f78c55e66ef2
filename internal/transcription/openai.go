package transcription

import (
	"context"
	"os"

	"github.com/openai/openai-go"
	pkgerrors "github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// OpenAIBackend talks to an OpenAI-compatible /v1/audio/transcriptions
// endpoint (for example a local Whisper server).
type OpenAIBackend struct {
	client   *openai.Client
	model    string
	language string
}

var _ Backend = (*OpenAIBackend)(nil)

func NewOpenAIBackend(client *openai.Client, model, language string) *OpenAIBackend {
	return &OpenAIBackend{client: client, model: model, language: language}
}

// Ready checks that the configured model is served by the backend.
func (b *OpenAIBackend) Ready(ctx context.Context) error {
	if _, err := b.client.Models.Get(ctx, b.model); err != nil {
		return pkgerrors.Wrapf(err, "transcription model %q unavailable", b.model)
	}
	return nil
}

func (b *OpenAIBackend) TranscribeFile(ctx context.Context, path string) (string, []Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, pkgerrors.Wrap(err, "open audio file")
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   f,
		Model:                  openai.AudioModel(b.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if b.language != "" {
		params.Language = openai.String(b.language)
	}

	resp, err := b.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", nil, err
	}
	return resp.Text, ParseSegments(resp.RawJSON()), nil
}

// ParseSegments extracts segments from a verbose_json transcription body.
// Entries without numeric bounds are skipped.
func ParseSegments(raw string) []Segment {
	var out []Segment
	gjson.Get(raw, "segments").ForEach(func(_, seg gjson.Result) bool {
		start, end := seg.Get("start"), seg.Get("end")
		if start.Type != gjson.Number || end.Type != gjson.Number {
			return true
		}
		out = append(out, Segment{Start: start.Float(), End: end.Float(), Text: seg.Get("text").String()})
		return true
	})
	return out
}
