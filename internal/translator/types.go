package translator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	ProjectID   string        `mapstructure:"project_id" json:"project_id"`
	Email       string        `mapstructure:"email" json:"email"`
	Model       string        `mapstructure:"model" json:"model"`
}

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type ServiceResult struct {
	ServiceName    string            `json:"service_name"`
	TranslatedText string            `json:"translated_text"`
	Confidence     float64           `json:"confidence"`
	Metadata       map[string]string `json:"metadata"`
	Latency        time.Duration     `json:"latency"`
	Error          string            `json:"error,omitempty"`
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}

// SourceDetector is implemented by services that accept the "auto" source.
type SourceDetector interface {
	DetectsSource() bool
}

// DetectsSource reports whether svc resolves "auto" on its own.
func DetectsSource(svc TranslationService) bool {
	d, ok := svc.(SourceDetector)
	return ok && d.DetectsSource()
}

var (
	// ErrInvalidResponse means the upstream body could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from translation service")
	// ErrMissingTranslation means the upstream answered without a translation.
	ErrMissingTranslation = errors.New("missing translatedText from translation service")
)

// UpstreamError is a non-200 answer from the upstream service. Body is the
// decoded JSON body, or {"error": <raw text>} when it was not JSON.
type UpstreamError struct {
	StatusCode int
	Body       any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// TransportError wraps a failure to reach the upstream service.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// New builds the named service from cfg.
func New(name string, cfg ServiceConfig) (TranslationService, error) {
	switch name {
	case "libretranslate", "":
		return NewLibreTranslateService(cfg), nil
	case "google":
		return NewGoogleService(cfg), nil
	case "mymemory":
		return NewMyMemoryService(cfg.Email), nil
	case "systran":
		return NewSystranService(cfg), nil
	case "ollama":
		return NewOllamaService(cfg), nil
	default:
		return nil, fmt.Errorf("unknown translation service: %s", name)
	}
}
