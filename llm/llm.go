// Package llm abstracts the hosted chat-completion providers used for
// scenario generation: AWS Bedrock (default) and an OpenAI-compatible
// endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/uxbdd/figbdd/config"
)

// ErrProvider is returned for an unknown provider name, before any network
// call is made.
var ErrProvider = errors.New("llm: unknown provider")

// Client is a single-shot chat-completion client. One prompt in, one raw
// text response out. No streaming, no retries.
type Client interface {
	// Complete sends the prompt and returns the model's raw text response.
	Complete(ctx context.Context, prompt string) (string, error)
	// Ping verifies the provider is reachable with the configured credentials.
	Ping(ctx context.Context) error
	// Model returns the configured model identifier.
	Model() string
}

// New selects a provider by cfg.LLMProvider: "bedrock" (default) or "openai".
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.LLMProvider {
	case "", "bedrock":
		return NewBedrock(ctx, cfg, logger)
	case "openai":
		return NewOpenAI(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrProvider, cfg.LLMProvider)
	}
}
