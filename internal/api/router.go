package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/api/recovery"
	"github.com/GharsallahDev/memory-palace/internal/health"
)

// NewRouter wires every endpoint to its handler.
func NewRouter(svc Services, checker *health.ServiceHealthChecker, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares, outermost first
	router.Use(RequestID(log))
	router.Use(AccessLog)
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler(checker)
	conversation := NewConversationHandler(svc.Director, svc.Analyzer)
	media := NewMediaHandler(svc)

	router.HandleFunc("/health", healthHandler.CheckHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// LLM-backed
	router.HandleFunc("/chat", conversation.Chat).Methods("POST")
	router.HandleFunc("/analyze-memory", conversation.AnalyzeMemory).Methods("POST")

	// Model-backed
	router.HandleFunc("/generate-embedding", media.GenerateEmbedding).Methods("POST")
	router.HandleFunc("/generate-speech", media.GenerateSpeech).Methods("POST")
	router.HandleFunc("/describe-image", media.DescribeImage).Methods("POST")
	router.HandleFunc("/transcribe-audio", media.TranscribeAudio).Methods("POST")
	router.HandleFunc("/recognize-people", media.RecognizePeople).Methods("POST")

	return router
}

// WithCORS allows browser callers from origins.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", HeaderRequestID}),
		handlers.ExposedHeaders([]string{HeaderAudioDuration, HeaderRequestID}),
		handlers.AllowCredentials(),
	)(h)
}
