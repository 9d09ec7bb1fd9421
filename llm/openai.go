package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/uxbdd/figbdd/config"
)

// OpenAI is the alternate provider: any OpenAI-compatible chat-completion
// endpoint, selected with LLM_PROVIDER=openai.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAI builds the client from cfg. An empty OPENAI_BASE_URL uses the
// default API endpoint.
func NewOpenAI(cfg config.Config, logger *slog.Logger) *OpenAI {
	oc := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		oc.BaseURL = cfg.OpenAIBaseURL
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		logger: logger,
	}
}

// Complete sends one chat completion request and returns the raw text.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	o.logger.Debug("openai chat completion", "model", o.model, "prompt_bytes", len(prompt))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping lists models to verify the endpoint and key.
func (o *OpenAI) Ping(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: list models: %w", err)
	}
	return nil
}

// Model returns the configured model identifier.
func (o *OpenAI) Model() string { return o.model }
