package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/valpere/lingoform/internal/client"
	"github.com/valpere/lingoform/internal/languages"
	"github.com/valpere/lingoform/internal/server/middleware"
	"github.com/valpere/lingoform/internal/store"
	"github.com/valpere/lingoform/internal/translator"
)

const (
	maxRequestBody = 1 << 20

	// fallbackSource is used when "auto" must be resolved locally and the
	// detector has no answer.
	fallbackSource = "en"
)

type translateBody struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) error {
	var body translateBody
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(&body); err != nil {
		return &HTTPError{
			Status: http.StatusUnprocessableEntity,
			Detail: fmt.Sprintf("invalid request body: %v", err),
			Cause:  err,
		}
	}

	text := strings.TrimSpace(body.Text)
	if text == "" {
		return &HTTPError{Status: http.StatusBadRequest, Detail: "'text' must not be empty"}
	}
	source := strings.TrimSpace(body.Source)
	if source == "" {
		source = languages.Auto
	}
	target := strings.TrimSpace(body.Target)
	if target == "" {
		return &HTTPError{Status: http.StatusBadRequest, Detail: "'target' language is required"}
	}

	resolved := s.resolveSource(text, source)

	ctx := r.Context()
	requestID := middleware.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	s.saveRequest(ctx, store.Request{
		ID:             requestID,
		SourceText:     text,
		SourceLang:     source,
		TargetLang:     target,
		ResolvedSource: resolved,
		Timestamp:      time.Now(),
	})

	result, err := s.opts.Service.Translate(ctx, translator.TranslateRequest{
		Text:       text,
		SourceLang: resolved,
		TargetLang: target,
	})
	if err != nil {
		httpErr := upstreamFailure(err)
		res := store.Result{
			RequestID:   requestID,
			ServiceName: s.opts.Service.Name(),
			StatusCode:  httpErr.Status,
			Error:       err.Error(),
		}
		if result != nil {
			res.Latency = result.Latency
		}
		s.saveResult(ctx, res)
		return httpErr
	}

	s.validateOutput(requestID, result.TranslatedText, target)
	s.saveResult(ctx, store.Result{
		RequestID:      requestID,
		ServiceName:    result.ServiceName,
		TranslatedText: result.TranslatedText,
		StatusCode:     http.StatusOK,
		Latency:        result.Latency,
	})

	writeJSON(w, http.StatusOK, client.Response{TranslatedText: result.TranslatedText})
	return nil
}

// resolveSource replaces "auto" with a detected language when the service
// cannot detect on its own.
func (s *Server) resolveSource(text, source string) string {
	if source != languages.Auto || translator.DetectsSource(s.opts.Service) {
		return source
	}
	if s.opts.Detector != nil {
		if code, ok := s.opts.Detector.DetectISO(text); ok {
			return code
		}
	}
	return fallbackSource
}

func upstreamFailure(err error) *HTTPError {
	var upstream *translator.UpstreamError
	switch {
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return &HTTPError{
			Status: status,
			Detail: map[string]any{"upstream": upstream.Body},
			Cause:  err,
		}
	case errors.Is(err, translator.ErrInvalidResponse):
		return &HTTPError{Status: http.StatusBadGateway, Detail: "Invalid response from translation service", Cause: err}
	case errors.Is(err, translator.ErrMissingTranslation):
		return &HTTPError{Status: http.StatusBadGateway, Detail: "Missing translatedText from translation service", Cause: err}
	default:
		return &HTTPError{
			Status: http.StatusBadGateway,
			Detail: fmt.Sprintf("Translation service error: %v", err),
			Cause:  err,
		}
	}
}

func (s *Server) validateOutput(requestID, text, target string) {
	if s.opts.Validator == nil {
		return
	}
	if ok, err := s.opts.Validator.IsValid(text, target); !ok {
		log.Warn().Err(err).
			Str("request_id", requestID).
			Str("target", target).
			Msg("Translation does not look like the target language")
	}
}

func (s *Server) saveRequest(ctx context.Context, req store.Request) {
	if s.opts.History == nil {
		return
	}
	if err := s.opts.History.SaveRequest(context.WithoutCancel(ctx), req); err != nil {
		log.Err(err).Str("request_id", req.ID).Msg("Failed to save request")
	}
}

func (s *Server) saveResult(ctx context.Context, res store.Result) {
	if s.opts.History == nil {
		return
	}
	if err := s.opts.History.SaveResult(context.WithoutCancel(ctx), res); err != nil {
		log.Err(err).Str("request_id", res.RequestID).Msg("Failed to save result")
	}
}
