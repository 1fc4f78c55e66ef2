package palaceservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/analysis"
	"github.com/GharsallahDev/memory-palace/internal/api"
	"github.com/GharsallahDev/memory-palace/internal/config"
	"github.com/GharsallahDev/memory-palace/internal/director"
	"github.com/GharsallahDev/memory-palace/internal/embedding"
	"github.com/GharsallahDev/memory-palace/internal/face"
	"github.com/GharsallahDev/memory-palace/internal/face/dlib"
	"github.com/GharsallahDev/memory-palace/internal/health"
	"github.com/GharsallahDev/memory-palace/internal/logger"
	"github.com/GharsallahDev/memory-palace/internal/ollama"
	"github.com/GharsallahDev/memory-palace/internal/transcription"
	"github.com/GharsallahDev/memory-palace/internal/tts"
	"github.com/GharsallahDev/memory-palace/internal/vision"
)

// Run loads every model, serves HTTP and blocks until shutdown or error.
// Components that fail to load leave the service running in degraded mode.
func Run(cfg *config.Config) error {
	log := logger.New("palace-ai")
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Error().Err(err).Str("log_level", cfg.LogLevel).Msg("Invalid log level")
		return err
	}
	logger.SetDefault(log)

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("http_addr", cfg.GetHTTPAddr()).
		Msg("Memory Palace AI service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	svc, closeAll := initComponents(ctx, cfg, log)
	defer closeAll()

	checker := health.NewServiceHealthChecker(log, svc.Components()...)
	checker.LogSummary()

	router := api.NewRouter(svc, checker, log)
	server := newHTTPServer(ctx, cfg, api.WithCORS(router, cfg.CORSAllowedOrigins))
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initComponents loads each model once. A failure is logged and the
// component stays permanently not ready; it never aborts startup.
func initComponents(ctx context.Context, cfg *config.Config, log zerolog.Logger) (api.Services, func()) {
	var closers []func()
	componentLog := func(name string) zerolog.Logger {
		return log.With().Str("component", name).Logger()
	}

	chat := ollama.New(cfg.OllamaURL)
	speech := newSpeechClient(cfg)

	var faceEncoder face.Encoder
	if enc, err := dlib.New(cfg.FaceModelDir); err != nil {
		log.Error().Stack().Err(err).Msg("Face encoder unavailable")
	} else {
		faceEncoder = enc
		closers = append(closers, enc.Close)
	}

	var embedEncoder embedding.Encoder
	if enc, err := embedding.NewHugotEncoder(cfg.EmbeddingModelPath); err != nil {
		log.Error().Stack().Err(err).Msg("Embedding model unavailable")
	} else {
		embedEncoder = enc
		closers = append(closers, func() {
			if err := enc.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to release embedding session")
			}
		})
	}

	svc := api.Services{
		Director: director.NewService(ctx, chat, cfg.ChatModel, cfg.ChatTemperature, componentLog("chat_conversation")),
		Analyzer: analysis.NewService(ctx, chat, cfg.AnalysisModel, cfg.ChatTemperature, cfg.AnalysisSchemaFormat,
			componentLog("proactive_analysis")),
		Captioner: vision.NewService(ctx, chat, cfg.VisionModel, cfg.VisionMaxTokens, componentLog("vision")),
		Transcriber: transcription.NewService(ctx,
			transcription.NewOpenAIBackend(speech, cfg.TranscriptionModel, cfg.TranscriptionLanguage),
			componentLog("transcription")),
		Faces:    face.NewService(faceEncoder, cfg.FaceTolerance, componentLog("face_recognition")),
		Embedder: embedding.NewService(embedEncoder, componentLog("embedding")),
		Speaker:  tts.NewService(ctx, tts.NewOpenAIBackend(speech, cfg.TTSModel, cfg.TTSVoice), componentLog("tts")),
	}

	return svc, func() {
		for _, c := range closers {
			c()
		}
	}
}

// newSpeechClient builds the OpenAI-compatible client shared by
// transcription and speech synthesis. Failed calls are not retried.
func newSpeechClient(cfg *config.Config) *openai.Client {
	client := openai.NewClient(
		option.WithBaseURL(cfg.SpeechBaseURL),
		option.WithAPIKey(cfg.SpeechAPIKey),
		option.WithMaxRetries(0),
	)
	return &client
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Zero disables the write deadline: model calls have no time limit.
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.GetHTTPAddr()).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen on %s: %w", cfg.GetHTTPAddr(), err)
		}
	}()
	return errCh
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
