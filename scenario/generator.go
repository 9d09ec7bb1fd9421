// Package scenario builds per-type prompts from an extracted design document
// and turns a single LLM completion into a scenario document. The model's
// output is written through verbatim; only an empty response is rejected.
package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/uxbdd/figbdd/figma"
	"github.com/uxbdd/figbdd/llm"
)

// Config configures the generator.
type Config struct {
	// Templates overrides the built-in prompt templates (per type).
	Templates map[Type]string
	// Logger for debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Templates == nil {
		c.Templates = builtinTemplates()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Generator produces scenario documents through an llm.Client.
type Generator struct {
	client llm.Client
	cfg    Config
}

// New creates a Generator.
func New(client llm.Client, cfg Config) *Generator {
	cfg.defaults()
	return &Generator{client: client, cfg: cfg}
}

// BuildPrompt assembles the prompt for a design document and scenario type.
// The design JSON is embedded verbatim, so every text node's content appears
// literally in the prompt.
func (g *Generator) BuildPrompt(doc *figma.Document, typ Type) (string, error) {
	if _, err := ParseType(string(typ)); err != nil {
		return "", err
	}
	tmpl, ok := g.cfg.Templates[typ]
	if !ok {
		tmpl = builtinTemplates()[typ]
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("scenario: marshal design: %w", err)
	}
	return fmt.Sprintf(tmpl, data), nil
}

// Generate validates the type, builds the prompt, and makes exactly one
// completion call. The response text is passed through unmodified.
func (g *Generator) Generate(ctx context.Context, doc *figma.Document, typ Type) (*Document, error) {
	prompt, err := g.BuildPrompt(doc, typ)
	if err != nil {
		return nil, err
	}

	g.cfg.Logger.Info("generating scenarios", "type", typ, "file", doc.FileName, "model", g.client.Model())

	content, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("scenario: generate %s: %w", typ, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyResponse
	}

	return &Document{
		Content:     content,
		SourceFile:  doc.FileName,
		Type:        typ,
		Model:       g.client.Model(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}
