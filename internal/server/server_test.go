package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/lingoform/internal/store"
	"github.com/valpere/lingoform/internal/translator"
)

type fakeService struct {
	detects bool
	result  string
	err     error

	mu  sync.Mutex
	got []translator.TranslateRequest
}

func (f *fakeService) Name() string        { return "fake" }
func (f *fakeService) DetectsSource() bool { return f.detects }

func (f *fakeService) Translate(ctx context.Context, req translator.TranslateRequest) (*translator.ServiceResult, error) {
	f.mu.Lock()
	f.got = append(f.got, req)
	f.mu.Unlock()

	res := &translator.ServiceResult{ServiceName: f.Name()}
	if f.err != nil {
		return res, f.err
	}
	res.TranslatedText = f.result
	return res, nil
}

func (f *fakeService) IsAvailable(ctx context.Context) error { return nil }

func (f *fakeService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "es"}, nil
}

func (f *fakeService) last(t *testing.T) translator.TranslateRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.got, "service was not called")
	return f.got[len(f.got)-1]
}

type fakeDetector struct {
	code string
	ok   bool
}

func (d fakeDetector) DetectISO(string) (string, bool) { return d.code, d.ok }

type fakeValidator struct {
	calls int
}

func (v *fakeValidator) IsValid(string, string) (bool, error) {
	v.calls++
	return false, errors.New("expected es but detected en")
}

type fakeHistory struct {
	mu       sync.Mutex
	requests []store.Request
	results  []store.Result
}

func (h *fakeHistory) SaveRequest(ctx context.Context, req store.Request) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, req)
	return nil
}

func (h *fakeHistory) SaveResult(ctx context.Context, res store.Result) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, res)
	return nil
}

func postTranslate(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), "body: %s", rec.Body.String())
	return rec, decoded
}

func TestTranslate_Success(t *testing.T) {
	svc := &fakeService{detects: true, result: "hola"}
	h := New(Options{Service: svc})

	rec, body := postTranslate(t, h, `{"text":"  hello  ","target":" es "}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "hola", body["translatedText"])

	got := svc.last(t)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "auto", got.SourceLang)
	assert.Equal(t, "es", got.TargetLang)
}

func TestTranslate_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDetail string
	}{
		{"malformed json", `{"text":`, http.StatusUnprocessableEntity, "invalid request body: "},
		{"wrong type", `{"text":5,"target":"es"}`, http.StatusUnprocessableEntity, "invalid request body: "},
		{"empty text", `{"text":"   ","target":"es"}`, http.StatusBadRequest, "'text' must not be empty"},
		{"missing text", `{"target":"es"}`, http.StatusBadRequest, "'text' must not be empty"},
		{"empty target", `{"text":"hi","target":"  "}`, http.StatusBadRequest, "'target' language is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{detects: true, result: "x"}
			rec, body := postTranslate(t, New(Options{Service: svc}), tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			detail, _ := body["detail"].(string)
			assert.True(t, strings.HasPrefix(detail, tt.wantDetail), "detail %q", detail)
			assert.Empty(t, svc.got)
		})
	}
}

func TestTranslate_ResolveSource(t *testing.T) {
	tests := []struct {
		name     string
		detects  bool
		detector SourceDetector
		source   string
		want     string
	}{
		{"service detects", true, fakeDetector{"de", true}, "", "auto"},
		{"explicit source", false, fakeDetector{"de", true}, "fr", "fr"},
		{"local detection", false, fakeDetector{"de", true}, "auto", "de"},
		{"undetectable", false, fakeDetector{"", false}, "auto", "en"},
		{"no detector", false, nil, "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{detects: tt.detects, result: "ok"}
			h := New(Options{Service: svc, Detector: tt.detector})

			body, _ := json.Marshal(map[string]string{"text": "Guten Tag", "source": tt.source, "target": "en"})
			rec, _ := postTranslate(t, h, string(body))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, svc.last(t).SourceLang)
		})
	}
}

func TestTranslate_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail any
	}{
		{
			name:       "upstream status",
			err:        &translator.UpstreamError{StatusCode: 429, Body: map[string]any{"error": "slow down"}},
			wantStatus: 429,
			wantDetail: map[string]any{"upstream": map[string]any{"error": "slow down"}},
		},
		{
			name:       "invalid response",
			err:        translator.ErrInvalidResponse,
			wantStatus: http.StatusBadGateway,
			wantDetail: "Invalid response from translation service",
		},
		{
			name:       "missing translation",
			err:        translator.ErrMissingTranslation,
			wantStatus: http.StatusBadGateway,
			wantDetail: "Missing translatedText from translation service",
		},
		{
			name:       "transport",
			err:        &translator.TransportError{Cause: errors.New("connection refused")},
			wantStatus: http.StatusBadGateway,
			wantDetail: "Translation service error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{detects: true, err: tt.err}
			rec, body := postTranslate(t, New(Options{Service: svc}), `{"text":"hi","target":"es"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDetail, body["detail"])
		})
	}
}

func TestTranslate_History(t *testing.T) {
	history := &fakeHistory{}
	svc := &fakeService{detects: true, result: "hola"}
	h := New(Options{Service: svc, History: history})

	rec, _ := postTranslate(t, h, `{"text":"hello","source":"en","target":"es"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, history.requests, 1)
	require.Len(t, history.results, 1)

	req := history.requests[0]
	assert.Equal(t, rec.Header().Get("X-Request-ID"), req.ID)
	assert.Equal(t, "hello", req.SourceText)
	assert.Equal(t, "en", req.ResolvedSource)

	res := history.results[0]
	assert.Equal(t, req.ID, res.RequestID)
	assert.Equal(t, "hola", res.TranslatedText)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestTranslate_HistoryRecordsFailure(t *testing.T) {
	history := &fakeHistory{}
	svc := &fakeService{detects: true, err: translator.ErrMissingTranslation}
	h := New(Options{Service: svc, History: history})

	rec, _ := postTranslate(t, h, `{"text":"hello","target":"es"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	require.Len(t, history.results, 1)
	assert.Equal(t, http.StatusBadGateway, history.results[0].StatusCode)
	assert.NotEmpty(t, history.results[0].Error)
}

func TestTranslate_ValidatorMismatchIsNotFatal(t *testing.T) {
	v := &fakeValidator{}
	svc := &fakeService{detects: true, result: "hello there, this is English"}
	h := New(Options{Service: svc, Validator: v})

	rec, body := postTranslate(t, h, `{"text":"hola","target":"es"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello there, this is English", body["translatedText"])
	assert.Equal(t, 1, v.calls)
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	New(Options{Service: &fakeService{}}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIndexAndStatic(t *testing.T) {
	h := New(Options{Service: &fakeService{}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	for _, id := range []string{"sourceLang", "targetLang", "inputText", "translateBtn", "outputText", "copyBtn", "message"} {
		assert.Contains(t, rec.Body.String(), `id="`+id+`"`)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wasm/app.wasm", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	h := New(Options{Service: &fakeService{detects: true, result: "hola"}})

	preflight := httptest.NewRequest(http.MethodOptions, "/api/translate", nil)
	preflight.Header.Set("Origin", "http://example.com")
	preflight.Header.Set("Access-Control-Request-Method", "POST")
	preflight.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))

	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(`{"text":"hi","target":"es"}`))
	req.Header.Set("Origin", "http://example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := New(Options{Service: &fakeService{detects: true, result: "hola"}, RateLimit: 0.001, Burst: 1})

	rec, _ := postTranslate(t, h, `{"text":"hi","target":"es"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := postTranslate(t, h, `{"text":"hi","target":"es"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too many requests", body["detail"])

	// Only /api/ is limited.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
