package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/metrics"
)

// HeaderRequestID is accepted from callers and echoed on every response.
const HeaderRequestID = "X-Request-ID"

// RequestID tags each request with an id and stores a request-scoped
// logger in its context.
func RequestID(base zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)
			l := base.With().Str("request_id", id).Logger()
			next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
		})
	}
}

// AccessLog records one log line and the HTTP metrics for every routed request.
func AccessLog(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, logRequest)
}

func logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	route := routeTemplate(p.Request)
	elapsed := time.Since(p.TimeStamp)

	metrics.HTTPRequestsTotal.WithLabelValues(route, p.Request.Method, strconv.Itoa(p.StatusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

	ev := zerolog.Ctx(p.Request.Context()).Info()
	if p.StatusCode >= http.StatusInternalServerError {
		ev = zerolog.Ctx(p.Request.Context()).Error()
	}
	ev.Str("method", p.Request.Method).
		Str("route", route).
		Int("status", p.StatusCode).
		Int("size", p.Size).
		Dur("elapsed", elapsed).
		Msg("http request")
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
