package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	systranHost = "api-systran-systran-translation-v1.p.rapidapi.com"
	systranURL  = "https://" + systranHost
)

type SystranService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSystranService(cfg ServiceConfig) *SystranService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = systranURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SystranService{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *SystranService) Name() string {
	return "systran"
}

// DetectsSource is true: the source field is omitted for "auto".
func (s *SystranService) DetectsSource() bool {
	return true
}

func (s *SystranService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if s.apiKey == "" {
		result.Error = "Systran API key required"
		return result, errors.New("systran: API key required")
	}

	payload := map[string]any{
		"input":  []string{req.Text},
		"target": req.TargetLang,
		"format": "text",
	}
	if req.SourceLang != "" && req.SourceLang != "auto" {
		payload["source"] = req.SourceLang
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal request: %v", err)
		return result, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/translation/text/translate", bytes.NewReader(jsonData))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-RapidAPI-Key", s.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", systranHost)

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
		result.Error = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(body))
		return result, &UpstreamError{StatusCode: resp.StatusCode, Body: decodeErrorBody(body)}
	}

	var systranResp struct {
		Outputs []struct {
			Output string `json:"output"`
			Detected struct {
				Language string `json:"detectedLanguage"`
			} `json:"detectedLanguage"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(body, &systranResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, ErrInvalidResponse
	}

	if len(systranResp.Outputs) == 0 || systranResp.Outputs[0].Output == "" {
		result.Error = "empty translation response"
		return result, ErrMissingTranslation
	}

	out := systranResp.Outputs[0]
	result.TranslatedText = out.Output
	result.Confidence = 1.0
	if lang := out.Detected.Language; lang != "" {
		result.Metadata = map[string]string{"detected_language": lang}
	}

	return result, nil
}

func (s *SystranService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return errors.New("Systran API key not configured")
	}
	return nil
}

func (s *SystranService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "fr", "es", "de", "it", "pt", "ru", "zh", "ja", "ko", "ar", "hi", "ur"}, nil
}
