package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/analysis"
	"github.com/GharsallahDev/memory-palace/internal/api/respond"
	"github.com/GharsallahDev/memory-palace/internal/api/validate"
	"github.com/GharsallahDev/memory-palace/internal/director"
)

const (
	msgChatUnavailable     = "Conversation service is not available."
	msgAnalysisUnavailable = "Memory analysis service is not available."
)

// ConversationHandler serves the two LLM-backed endpoints. Neither surfaces
// model failures: the services already substitute safe defaults.
type ConversationHandler struct {
	director Director
	analyzer Analyzer
}

func NewConversationHandler(d Director, a Analyzer) *ConversationHandler {
	return &ConversationHandler{director: d, analyzer: a}
}

// Chat handles POST /chat
func (h *ConversationHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req director.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if err := validate.Chat(req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if !ready(h.director) {
		respond.WriteServiceUnavailable(w, msgChatUnavailable)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("conversation_type", req.Mode()).
		Int("memories", len(req.ContextMemories)).
		Msg("director request")
	respond.WriteJSON(w, http.StatusOK, h.director.Respond(modelContext(r), req))
}

// AnalyzeMemory handles POST /analyze-memory
func (h *ConversationHandler) AnalyzeMemory(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if err := validate.AnalyzeMemory(req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if !ready(h.analyzer) {
		respond.WriteServiceUnavailable(w, msgAnalysisUnavailable)
		return
	}

	respond.WriteJSON(w, http.StatusOK, h.analyzer.Analyze(modelContext(r), req))
}

// modelContext detaches model calls from client cancellation: once
// dispatched, a model call runs to completion.
func modelContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func ready(c interface{ IsReady() bool }) bool {
	return c != nil && c.IsReady()
}
