package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/valpere/lingoform/internal/server/middleware"
)

// HTTPError is rendered as {"detail": Detail} with Status.
type HTTPError struct {
	Status int
	Detail any
	// Cause is logged but never sent to the client.
	Cause error
}

func (e *HTTPError) Error() string {
	if s, ok := e.Detail.(string); ok {
		return s
	}
	return http.StatusText(e.Status)
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// CatchError adapts a handler that returns an error into an http.HandlerFunc.
// Errors that are not HTTPError become a 500.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			httpErr = &HTTPError{
				Status: http.StatusInternalServerError,
				Detail: http.StatusText(http.StatusInternalServerError),
				Cause:  err,
			}
		}

		event := log.Debug()
		if httpErr.Status >= http.StatusInternalServerError {
			event = log.Warn()
		}
		event.Err(err).
			Str("request_id", middleware.RequestID(r.Context())).
			Int("status", httpErr.Status).
			Msg("Request failed")

		writeJSON(w, httpErr.Status, map[string]any{"detail": httpErr.Detail})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to write response")
	}
}
