package llm

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/uxbdd/figbdd/config"
)

// Inference parameters for Claude on Bedrock.
const (
	anthropicVersion = "bedrock-2023-05-31"
	maxTokens        = 4000
	temperature      = 0.3
	topP             = 0.9
)

// Bedrock invokes a Claude model through the AWS Bedrock runtime.
type Bedrock struct {
	client  *bedrockruntime.Client
	awsCfg  aws.Config
	modelID string
	logger  *slog.Logger
}

// NewBedrock builds a Bedrock client from static credentials in cfg.
func NewBedrock(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Bedrock, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}
	if !cfg.VerifySSL {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		opts = append(opts, awsconfig.WithHTTPClient(&http.Client{Transport: t}))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: load aws config: %w", err)
	}

	modelID := cfg.BedrockModelID
	if modelID == "" {
		modelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}

	return &Bedrock{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		awsCfg:  awsCfg,
		modelID: modelID,
		logger:  logger,
	}, nil
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature"`
	TopP             float64            `json:"top_p"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete invokes the model once and returns the raw text of the response.
// Any API error (auth, throttling, timeout) surfaces to the caller; there is
// no retry.
func (b *Bedrock) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages:         []anthropicMessage{{Role: "user", Content: prompt}},
		Temperature:      temperature,
		TopP:             topP,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock: marshal request: %w", err)
	}

	b.logger.Debug("bedrock invoke", "model", b.modelID, "prompt_bytes", len(prompt))

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("bedrock: invoke %s: %w", b.modelID, err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("bedrock: decode response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("bedrock: response has no content blocks")
	}
	return resp.Content[0].Text, nil
}

// Ping checks that credentials resolve. Static keys cannot be verified
// without a billable invocation, so this only validates resolution.
func (b *Bedrock) Ping(ctx context.Context) error {
	if _, err := b.awsCfg.Credentials.Retrieve(ctx); err != nil {
		return fmt.Errorf("bedrock: resolve credentials: %w", err)
	}
	return nil
}

// Model returns the configured Bedrock model identifier.
func (b *Bedrock) Model() string { return b.modelID }
