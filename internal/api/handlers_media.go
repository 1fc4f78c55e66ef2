package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/api/respond"
	"github.com/GharsallahDev/memory-palace/internal/api/validate"
	"github.com/GharsallahDev/memory-palace/internal/embedding"
	"github.com/GharsallahDev/memory-palace/internal/face"
	"github.com/GharsallahDev/memory-palace/internal/transcription"
	"github.com/GharsallahDev/memory-palace/internal/tts"
	"github.com/GharsallahDev/memory-palace/internal/vision"
)

const (
	msgEmbeddingUnavailable     = "Text embedding service is not available."
	msgSpeechUnavailable        = "Text-to-Speech service is not available."
	msgVisionUnavailable        = "Image captioning service is not available."
	msgTranscriptionUnavailable = "Audio transcription service is not available."
	msgFacesUnavailable         = "Face recognition service is not available."

	// HeaderAudioDuration carries the synthesized clip length in milliseconds.
	HeaderAudioDuration = "X-Audio-Duration-Ms"

	maxMultipartMemory = 32 << 20
)

type textRequest struct {
	Text string `json:"text"`
}

type EmbeddingResponse struct {
	Vector []float32 `json:"vector"`
}

type CaptionResponse struct {
	Caption string `json:"caption"`
}

type RecognitionRequest struct {
	PhotoToCheckBase64 string           `json:"photo_to_check_base64"`
	KnownFaces         []face.KnownFace `json:"known_faces"`
}

type RecognitionResponse struct {
	RecognizedPeople []face.Person `json:"recognized_people"`
}

// MediaHandler serves the non-LLM model endpoints. Model failures surface
// as 500 with the error text.
type MediaHandler struct {
	embedder    Embedder
	speaker     Speaker
	captioner   Captioner
	transcriber Transcriber
	faces       FaceIdentifier
}

func NewMediaHandler(s Services) *MediaHandler {
	return &MediaHandler{
		embedder:    s.Embedder,
		speaker:     s.Speaker,
		captioner:   s.Captioner,
		transcriber: s.Transcriber,
		faces:       s.Faces,
	}
}

// GenerateEmbedding handles POST /generate-embedding
func (h *MediaHandler) GenerateEmbedding(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	if !ready(h.embedder) {
		respond.WriteServiceUnavailable(w, msgEmbeddingUnavailable)
		return
	}

	vec, err := h.embedder.Embed(modelContext(r), req.Text)
	if err != nil {
		writeModelError(w, r, "embedding", err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, EmbeddingResponse{Vector: vec})
}

// GenerateSpeech handles POST /generate-speech
func (h *MediaHandler) GenerateSpeech(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	if !ready(h.speaker) {
		respond.WriteServiceUnavailable(w, msgSpeechUnavailable)
		return
	}

	speech, err := h.speaker.Synthesize(modelContext(r), req.Text)
	if err != nil {
		writeModelError(w, r, "tts", err)
		return
	}
	respond.WriteBinary(w, tts.MediaType, speech.Audio, map[string]string{
		HeaderAudioDuration: strconv.Itoa(speech.DurationMs),
	})
}

// DescribeImage handles POST /describe-image (multipart field "image")
func (h *MediaHandler) DescribeImage(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r, "image")
	if !ok {
		return
	}
	if !ready(h.captioner) {
		respond.WriteServiceUnavailable(w, msgVisionUnavailable)
		return
	}

	caption, err := h.captioner.Caption(modelContext(r), data)
	if err != nil {
		writeModelError(w, r, "vision", err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, CaptionResponse{Caption: caption})
}

// TranscribeAudio handles POST /transcribe-audio (multipart field "audio")
func (h *MediaHandler) TranscribeAudio(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r, "audio")
	if !ok {
		return
	}
	if !ready(h.transcriber) {
		respond.WriteServiceUnavailable(w, msgTranscriptionUnavailable)
		return
	}

	res, err := h.transcriber.Transcribe(modelContext(r), data)
	if err != nil {
		writeModelError(w, r, "transcription", err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// RecognizePeople handles POST /recognize-people
func (h *MediaHandler) RecognizePeople(w http.ResponseWriter, r *http.Request) {
	var req RecognitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if err := validate.RecognizePeople(req.PhotoToCheckBase64, req.KnownFaces); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if !ready(h.faces) {
		respond.WriteServiceUnavailable(w, msgFacesUnavailable)
		return
	}

	people, err := h.faces.Identify(modelContext(r), req.PhotoToCheckBase64, req.KnownFaces)
	if err != nil {
		writeModelError(w, r, "face_recognition", err)
		return
	}
	if people == nil {
		people = []face.Person{}
	}
	respond.WriteJSON(w, http.StatusOK, RecognitionResponse{RecognizedPeople: people})
}

func decodeText(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body: "+err.Error())
		return req, false
	}
	if err := validate.NonEmpty("text", req.Text); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return req, false
	}
	return req, true
}

// readUpload returns the full content of multipart file field.
func readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respond.WriteBadRequest(w, "expected multipart/form-data body: "+err.Error())
		return nil, false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		respond.WriteBadRequest(w, fmt.Sprintf("%s file is required", field))
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.WriteBadRequest(w, fmt.Sprintf("read %s upload: %v", field, err))
		return nil, false
	}
	if len(data) == 0 {
		respond.WriteBadRequest(w, fmt.Sprintf("%s file is empty", field))
		return nil, false
	}
	zerolog.Ctx(r.Context()).Info().
		Str("field", field).
		Str("filename", header.Filename).
		Int("bytes", len(data)).
		Msg("received upload")
	return data, true
}

// writeModelError maps component errors to HTTP responses. Input problems
// detected by a component are 400, not-ready is 503, anything else 500.
func writeModelError(w http.ResponseWriter, r *http.Request, component string, err error) {
	switch {
	case errors.Is(err, embedding.ErrEmptyText), errors.Is(err, tts.ErrEmptyText), errors.Is(err, transcription.ErrEmptyAudio):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, embedding.ErrNotReady), errors.Is(err, tts.ErrNotReady),
		errors.Is(err, transcription.ErrNotReady), errors.Is(err, face.ErrNotReady), errors.Is(err, vision.ErrNotReady):
		respond.WriteServiceUnavailable(w, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Stack().Err(err).Str("component", component).Msg("model call failed")
		respond.WriteInternalError(w, err.Error())
	}
}
