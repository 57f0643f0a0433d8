package translator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSystranService_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translation/text/translate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-RapidAPI-Key") != "key" {
			t.Errorf("expected API key header, got %q", r.Header.Get("X-RapidAPI-Key"))
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if _, ok := payload["source"]; ok {
			t.Error("source must be omitted for auto")
		}
		if payload["target"] != "es" {
			t.Errorf("unexpected target %v", payload["target"])
		}
		w.Write([]byte(`{"outputs":[{"output":"Hola","detectedLanguage":{"detectedLanguage":"en"}}]}`))
	}))
	defer server.Close()

	svc := NewSystranService(ServiceConfig{APIKey: "key", BaseURL: server.URL})
	if !DetectsSource(svc) {
		t.Error("systran detects the source language")
	}

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "auto", TargetLang: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Hola" {
		t.Errorf("expected 'Hola', got %q", result.TranslatedText)
	}
	if result.Metadata["detected_language"] != "en" {
		t.Errorf("expected detected language, got %v", result.Metadata)
	}
}

func TestSystranService_Errors(t *testing.T) {
	svc := NewSystranService(ServiceConfig{})
	if _, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", TargetLang: "es"}); err == nil {
		t.Error("expected error without API key")
	}
	if err := svc.IsAvailable(context.Background()); err == nil {
		t.Error("expected unavailable without API key")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"outputs":[]}`))
	}))
	defer server.Close()

	svc = NewSystranService(ServiceConfig{APIKey: "key", BaseURL: server.URL})
	_, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})
	if !errors.Is(err, ErrMissingTranslation) {
		t.Errorf("expected ErrMissingTranslation, got %v", err)
	}
}

func TestOllamaService_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var payload struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "gemma2:2b" || payload.Stream {
			t.Errorf("unexpected payload %+v", payload)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"response": "<think>The user wants Spanish.</think>Translation: \"Hola\"",
		})
	}))
	defer server.Close()

	svc := NewOllamaService(ServiceConfig{BaseURL: server.URL, Model: "gemma2:2b"})
	if DetectsSource(svc) {
		t.Error("ollama needs an explicit source language")
	}

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Hola" {
		t.Errorf("expected 'Hola', got %q", result.TranslatedText)
	}
	if result.Metadata["model"] != "gemma2:2b" {
		t.Errorf("expected model in metadata, got %v", result.Metadata)
	}
}

func TestOllamaService_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'missing' not found"}`))
	}))
	defer server.Close()

	svc := NewOllamaService(ServiceConfig{BaseURL: server.URL, Model: "missing"})
	_, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", ue.StatusCode)
	}
}

func TestCleanModelOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Hola mundo", "Hola mundo"},
		{"thinking block", "<think>hmm</think>Hola", "Hola"},
		{"truncated thinking", "Hola<thinking>still going", "Hola"},
		{"preamble", "Here is the translation: Hola", "Hola"},
		{"polite preamble", "Sure, here's the translation: Hola", "Hola"},
		{"quoted", `"Hola"`, "Hola"},
		{"guillemets", "«Bonjour»", "Bonjour"},
		{"inner quotes kept", `Dijo "hola" y se fue`, `Dijo "hola" y se fue`},
		{"empty", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelOutput(tt.input); got != tt.want {
				t.Errorf("cleanModelOutput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
