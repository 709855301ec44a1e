// Package whisper implements transcription.Provider against an
// OpenAI-compatible /audio/transcriptions endpoint (lemonfox.ai, OpenAI).
package whisper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/meetscribe/httpclient"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/transcription"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	DefaultBaseURL = "https://api.lemonfox.ai/v1"
	DefaultModel   = "whisper-1"

	defaultTimeout  = 60 * time.Second
	endpointPath    = "/audio/transcriptions"
	responseFormat  = "verbose_json"
	timestampDetail = "segment"
)

// Config holds configuration for the Whisper provider.
type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Language string
	Timeout  time.Duration
}

// Provider implements transcription.Provider.
type Provider struct {
	cfg    Config
	client *httpclient.Adapter
	log    *logger.Logger
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a new Whisper provider.
func NewProvider(cfg Config, log *logger.Logger) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.BearerAuth(cfg.APIKey),
	})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client, log: log.WithComponent(ProviderName)}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether a credential is configured.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return strings.TrimSpace(p.cfg.APIKey) != ""
}

// Execute streams the stored audio to the provider and returns its body.
// Failures are *httpclient.Error values carrying the provider's response.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (*transcription.Result, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}

	body := &httpclient.MultipartBody{
		Files: []httpclient.FileField{{
			FieldName:   "file",
			FileName:    req.FileName,
			ContentType: req.MIMEType,
			Path:        req.AudioPath,
		}},
	}
	body.Add("model", model)
	body.Add("response_format", responseFormat)
	body.Add("speaker_labels", "true")
	body.Add("timestamp_granularities", timestampDetail)
	if lang != "" {
		body.Add("language", lang)
	}
	if req.Prompt != "" {
		body.Add("prompt", req.Prompt)
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   endpointPath,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	result, ok := transcription.ParseResult(resp.Body)
	if !ok {
		p.log.WithContext(ctx).Warn("provider returned a body that is not a transcript, relaying as is",
			map[string]any{logger.FieldSize: len(resp.Body)})
	}
	return result, nil
}
