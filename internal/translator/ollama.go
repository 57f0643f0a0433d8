package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/valpere/lingoform/internal/languages"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"
)

// OllamaService translates with a self-hosted model. Models are unreliable
// at naming the source language, so it needs an explicit one.
type OllamaService struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaService(cfg ServiceConfig) *OllamaService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOllamaModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaService{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *OllamaService) Name() string {
	return "ollama"
}

func (s *OllamaService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	prompt := fmt.Sprintf(`Translate the following text from %s to %s.
Only respond with the translation, nothing else.

Text: %q

Translation:`, languageName(req.SourceLang), languageName(req.TargetLang), req.Text)

	jsonData, err := json.Marshal(map[string]any{
		"model":  s.model,
		"prompt": prompt,
		"stream": false,
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal request: %v", err)
		return result, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read response: %v", err)
		return result, &TransportError{Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("API returned status %d", resp.StatusCode)
		return result, &UpstreamError{StatusCode: resp.StatusCode, Body: decodeErrorBody(body)}
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, ErrInvalidResponse
	}

	text := cleanModelOutput(ollamaResp.Response)
	if text == "" {
		result.Error = "empty translation response"
		return result, ErrMissingTranslation
	}

	result.TranslatedText = text
	result.Confidence = 0.7
	result.Metadata = map[string]string{"model": s.model}

	return result, nil
}

func (s *OllamaService) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("Ollama not available: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *OllamaService) SupportedLanguages(ctx context.Context) ([]string, error) {
	opts := languages.Filter(false)
	codes := make([]string, 0, len(opts))
	for _, o := range opts {
		codes = append(codes, o.Code)
	}
	return codes, nil
}

// languageName gives the model "Spanish" rather than "es" when it can.
func languageName(code string) string {
	if opt, ok := languages.Lookup(code); ok && code != languages.Auto {
		return opt.Name
	}
	return code
}

var (
	// Flags: i = case-insensitive, s = dot matches newline. RE2 has no
	// backreferences, so each tag pair is listed.
	thinkingRe  = regexp.MustCompile(`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`)
	openThinkRe = regexp.MustCompile(`(?is)(?:<think>|<thinking>|<reasoning>).*$`)
	preambleRe  = regexp.MustCompile(`(?i)^(?:(?:certainly|sure|of course)[,.]?\s+)?(?:here(?:'s| is)\s+)?(?:the\s+)?(?:translated text|translation)\s*:`)
)

// cleanModelOutput strips reasoning blocks, a leading "Translation:" style
// preamble and a pair of quotes wrapping the whole answer.
func cleanModelOutput(text string) string {
	text = thinkingRe.ReplaceAllString(text, "")
	text = openThinkRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if loc := preambleRe.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[loc[1]:])
	}

	r := []rune(text)
	if n := len(r); n >= 2 {
		switch {
		case r[0] == '"' && r[n-1] == '"',
			r[0] == '“' && r[n-1] == '”',
			r[0] == '«' && r[n-1] == '»':
			text = strings.TrimSpace(string(r[1 : n-1]))
		}
	}
	return text
}
