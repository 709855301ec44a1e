package llm

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// CompletionRequest is the input to a chat-completion provider.
type CompletionRequest struct {
	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`
	// SystemPrompt is sent as the first message when set.
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`
	// Temperature controls randomness. Zero means provider default.
	Temperature float32 `json:"temperature,omitempty"`
	// MaxTokens limits the response length. Zero means provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// CompletionResponse is the output of a chat-completion provider.
type CompletionResponse struct {
	// Content is the first choice's message content.
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
