// Package server serves the translation form and its backend endpoint.
package server

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/valpere/lingoform/internal/server/middleware"
	"github.com/valpere/lingoform/internal/store"
	"github.com/valpere/lingoform/internal/translator"
	"github.com/valpere/lingoform/web"
)

// SourceDetector resolves the language of a text to an ISO 639-1 code.
type SourceDetector interface {
	DetectISO(text string) (string, bool)
}

// OutputValidator checks that a translation is in the target language.
type OutputValidator interface {
	IsValid(translatedText, targetLang string) (bool, error)
}

// History records served translations.
type History interface {
	SaveRequest(ctx context.Context, req store.Request) error
	SaveResult(ctx context.Context, res store.Result) error
}

type Options struct {
	Service   translator.TranslationService
	Detector  SourceDetector
	Validator OutputValidator
	History   History
	// WasmDir holds app.wasm and wasm_exec.js; empty disables /wasm/.
	WasmDir string
	// RateLimit is requests per second per client on /api/; zero disables it.
	RateLimit float64
	Burst     int
}

type Server struct {
	opts Options
}

// New returns the complete handler: routes plus middlewares.
func New(opts Options) http.Handler {
	s := &Server{opts: opts}

	router := NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter := middleware.NewLimiter(opts.RateLimit, burst)
		router.Use(middleware.OnlyPrefix("/api/", limiter.Middleware))
	}

	s.routes(router)
	return router
}

func (s *Server) routes(router *Router) {
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		log.Panic().Err(err).Msg("Embedded static directory is missing")
	}

	router.HandleFunc("GET /{$}", CatchError(s.handleIndex))
	router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	if s.opts.WasmDir != "" {
		router.Handle("GET /wasm/", http.StripPrefix("/wasm/", http.FileServer(http.Dir(s.opts.WasmDir))))
	}
	router.HandleFunc("GET /healthz", s.handleHealth)
	router.HandleFunc("POST /api/translate", CatchError(s.handleTranslate))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) error {
	page, err := web.Static.ReadFile("static/index.html")
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(page)
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
