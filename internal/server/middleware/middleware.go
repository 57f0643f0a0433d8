// Package middleware holds the HTTP middlewares of the lingoform server.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Middleware func(w http.ResponseWriter, r *http.Request, next http.Handler)

type contextKey struct{}

// RequestID returns the id assigned by Logging, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Logging assigns a request id and logs every completed request.
func Logging(w http.ResponseWriter, r *http.Request, next http.Handler) {
	start := time.Now()
	id := uuid.NewString()

	w.Header().Set("X-Request-ID", id)
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	next.ServeHTTP(rec, r.WithContext(WithRequestID(r.Context(), id)))

	event := log.Info()
	if rec.status >= http.StatusInternalServerError {
		event = log.Warn()
	}
	event.
		Str("sys", "http").
		Str("request_id", id).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", rec.status).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("Request completed")
}

// corsAllowMethods is what a wildcard method policy expands to.
const corsAllowMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"

// CORS allows any origin, method and header, without credentials.
// Preflight requests are answered directly.
func CORS(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if r.Header.Get("Origin") == "" {
		next.ServeHTTP(w, r)
		return
	}

	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")

	if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
			h.Set("Access-Control-Allow-Headers", reqHeaders)
		}
		h.Set("Access-Control-Max-Age", "600")
		h.Add("Vary", "Origin")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
		return
	}

	next.ServeHTTP(w, r)
}

// OnlyPrefix applies m to requests whose path starts with prefix.
func OnlyPrefix(prefix string, m Middleware) Middleware {
	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		if strings.HasPrefix(r.URL.Path, prefix) {
			m(w, r, next)
			return
		}
		next.ServeHTTP(w, r)
	}
}
