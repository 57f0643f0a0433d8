package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultLibreTranslateURL = "https://libretranslate.com"

	libreTimeout        = 15 * time.Second
	libreConnectTimeout = 10 * time.Second
)

type LibreTranslateService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewLibreTranslateService(cfg ServiceConfig) *LibreTranslateService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultLibreTranslateURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = libreTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: libreConnectTimeout}).DialContext

	return &LibreTranslateService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout, Transport: transport},
	}
}

func (s *LibreTranslateService) Name() string {
	return "libretranslate"
}

func (s *LibreTranslateService) DetectsSource() bool {
	return true
}

func (s *LibreTranslateService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	form := url.Values{}
	form.Set("q", req.Text)
	form.Set("source", req.SourceLang)
	form.Set("target", req.TargetLang)
	form.Set("format", "text")
	if s.apiKey != "" {
		form.Set("api_key", s.apiKey)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/translate", strings.NewReader(form.Encode()))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

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

	var libreResp struct {
		TranslatedText   string `json:"translatedText"`
		DetectedLanguage struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		} `json:"detectedLanguage"`
	}
	if err := json.Unmarshal(body, &libreResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, ErrInvalidResponse
	}

	if libreResp.TranslatedText == "" {
		result.Error = "empty translation response"
		return result, ErrMissingTranslation
	}

	result.TranslatedText = libreResp.TranslatedText
	result.Confidence = 1.0
	if lang := libreResp.DetectedLanguage.Language; lang != "" {
		result.Metadata = map[string]string{"detected_language": lang}
		result.Confidence = libreResp.DetectedLanguage.Confidence / 100
	}

	return result, nil
}

func (s *LibreTranslateService) IsAvailable(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/languages", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("LibreTranslate not reachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("LibreTranslate returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *LibreTranslateService) SupportedLanguages(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/languages", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var langs []struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}

	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, l.Code)
	}
	return codes, nil
}

// decodeErrorBody returns the upstream error body as JSON, or wraps the raw
// text as {"error": text}.
func decodeErrorBody(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return map[string]any{"error": string(body)}
	}
	return v
}
