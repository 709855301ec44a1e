// Package openai implements llm.Provider with the go-openai SDK pointed at
// any OpenAI-compatible base URL.
package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/meetscribe/httpclient"
	"github.com/kbukum/meetscribe/llm"
)

const (
	// ProviderName is the registered name for the chat provider.
	ProviderName = "openai-chat"

	DefaultModel   = goopenai.GPT3Dot5Turbo
	defaultTimeout = 60 * time.Second
)

// Config holds configuration for the chat provider.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Provider implements llm.Provider.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

var _ llm.Provider = (*Provider)(nil)

// NewProvider creates a chat provider. The SDK shares the transport of an
// httpclient.Adapter so timeouts are configured in one place.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	hc, err := httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}

	oc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = hc.Unwrap()

	return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(oc)}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether a credential is configured.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return strings.TrimSpace(p.cfg.APIKey) != ""
}

// Execute sends one chat completion and returns the first choice.
func (p *Provider) Execute(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	temperature := p.cfg.Temperature
	if req.Temperature != 0 {
		temperature = req.Temperature
	}
	maxTokens := p.cfg.MaxTokens
	if req.MaxTokens != 0 {
		maxTokens = req.MaxTokens
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, toError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return nil, &llm.Error{Message: llm.ErrNoChoices.Error(), Details: "no choices in completion response", Err: llm.ErrNoChoices}
	}

	return &llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// toError maps SDK failures to *llm.Error, keeping the provider payload.
func toError(ctx context.Context, err error) *llm.Error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		details := map[string]any{"message": apiErr.Message}
		if apiErr.Type != "" {
			details["type"] = apiErr.Type
		}
		if apiErr.Code != nil {
			details["code"] = apiErr.Code
		}
		return &llm.Error{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Details:    map[string]any{"error": details},
			Err:        err,
		}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		msg := err.Error()
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &llm.Error{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    msg,
			Details:    msg,
			Err:        err,
		}
	}

	timeout := errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil
	return &llm.Error{Message: err.Error(), Details: err.Error(), Timeout: timeout, Err: err}
}
