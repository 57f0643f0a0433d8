package translator

import (
	"context"
	"fmt"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

type GoogleService struct {
	credentials string
	apiKey      string
}

func NewGoogleService(cfg ServiceConfig) *GoogleService {
	return &GoogleService{
		credentials: cfg.Credentials,
		apiKey:      cfg.APIKey,
	}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) DetectsSource() bool {
	return true
}

func (s *GoogleService) clientOptions() []option.ClientOption {
	opts := []option.ClientOption{}
	if s.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}
	if s.apiKey != "" {
		opts = append(opts, option.WithAPIKey(s.apiKey))
	}
	return opts
}

func (s *GoogleService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	targetLangTag, err := language.Parse(req.TargetLang)
	if err != nil {
		result.Error = fmt.Sprintf("invalid target language: %v", err)
		return result, &UpstreamError{
			StatusCode: 400,
			Body:       map[string]string{"error": fmt.Sprintf("invalid target language: %s", req.TargetLang)},
		}
	}

	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create client: %v", err)
		return result, &TransportError{Cause: fmt.Errorf("failed to create client: %w", err)}
	}
	defer client.Close()

	var opts *translate.Options
	if req.SourceLang != "" && req.SourceLang != "auto" {
		sourceLangTag, err := language.Parse(req.SourceLang)
		if err == nil {
			opts = &translate.Options{Source: sourceLangTag, Format: translate.Text}
		}
	}
	if opts == nil {
		opts = &translate.Options{Format: translate.Text}
	}

	translations, err := client.Translate(ctx, []string{req.Text}, targetLangTag, opts)
	if err != nil {
		result.Error = fmt.Sprintf("translation failed: %v", err)
		return result, &TransportError{Cause: fmt.Errorf("translation failed: %w", err)}
	}

	if len(translations) == 0 || translations[0].Text == "" {
		result.Error = "no translation returned"
		return result, ErrMissingTranslation
	}

	result.TranslatedText = translations[0].Text
	result.Confidence = 1.0
	if src := translations[0].Source; src != language.Und {
		result.Metadata = map[string]string{"detected_language": src.String()}
	}

	return result, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return client.Close()
}

func (s *GoogleService) SupportedLanguages(ctx context.Context) ([]string, error) {
	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	langs, err := client.SupportedLanguages(ctx, language.English)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}

	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, l.Tag.String())
	}
	return codes, nil
}
