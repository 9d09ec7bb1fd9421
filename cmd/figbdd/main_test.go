package main

import (
	"context"
	"strings"
	"testing"

	"github.com/uxbdd/figbdd/config"
)

func TestBuildPipelineGenerateNeedsNoFigmaToken(t *testing.T) {
	cfg := config.Config{
		LLMProvider: "openai",
		OpenAIKey:   "sk-test",
		OutputDir:   t.TempDir(),
	}

	// Generating from a saved design JSON never contacts Figma, so a missing
	// token must not abort the command.
	p, cleanup, err := buildPipeline(context.Background(), cfg, buildOpts{history: true, checkCreds: true})
	if err != nil {
		t.Fatalf("buildPipeline without Figma token: %v", err)
	}
	defer cleanup()
	if p == nil {
		t.Fatal("no pipeline returned")
	}
}

func TestBuildPipelineFullRunRequiresFigmaToken(t *testing.T) {
	cfg := config.Config{
		LLMProvider: "openai",
		OpenAIKey:   "sk-test",
	}

	_, _, err := buildPipeline(context.Background(), cfg, buildOpts{needFigma: true, checkCreds: true})
	if err == nil {
		t.Fatal("expected missing-token error for a command that calls Figma")
	}
	if !strings.Contains(err.Error(), "FIGMA_ACCESS_TOKEN") {
		t.Errorf("err = %v, want FIGMA_ACCESS_TOKEN mention", err)
	}
}

func TestBuildPipelineCheckSkipsCredentialValidation(t *testing.T) {
	// The check command probes every service and reports failures instead of
	// failing fast on missing credentials.
	p, cleanup, err := buildPipeline(context.Background(), config.Config{LLMProvider: "openai"}, buildOpts{needFigma: true})
	if err != nil {
		t.Fatalf("buildPipeline for check: %v", err)
	}
	defer cleanup()
	if p == nil {
		t.Fatal("no pipeline returned")
	}
}
