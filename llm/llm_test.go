package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/uxbdd/figbdd/config"
)

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.Config{LLMProvider: "mystery"}, nil)
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestNewDefaultsToBedrock(t *testing.T) {
	t.Setenv("AWS_CA_BUNDLE", "")
	c, err := New(context.Background(), config.Config{
		AWSAccessKeyID:     "AKIAEXAMPLE",
		AWSSecretAccessKey: "secret",
		AWSRegion:          "us-east-1",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*Bedrock); !ok {
		t.Fatalf("expected *Bedrock, got %T", c)
	}
	if c.Model() != "anthropic.claude-3-sonnet-20240229-v1:0" {
		t.Errorf("model = %q", c.Model())
	}
}

func TestNewOpenAIModelDefault(t *testing.T) {
	c, err := New(context.Background(), config.Config{
		LLMProvider: "openai",
		OpenAIKey:   "sk-test",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != "gpt-4o-mini" {
		t.Errorf("model = %q", c.Model())
	}
}
