// Package pipeline orchestrates the three stages end to end: extract the
// design from Figma, generate scenarios through the LLM, render documents.
//
// Execution is strictly sequential with blocking I/O: each stage completes
// before the next starts, and any stage failure is terminal for the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/uxbdd/figbdd/figma"
	"github.com/uxbdd/figbdd/history"
	"github.com/uxbdd/figbdd/llm"
	"github.com/uxbdd/figbdd/render"
	"github.com/uxbdd/figbdd/scenario"
)

// Pipeline wires the extractor, generator, and renderer together.
type Pipeline struct {
	figma    *figma.Client
	llm      llm.Client
	gen      *scenario.Generator
	renderer *render.Renderer
	history  *history.Store // optional
	limits   figma.Limits
	logger   *slog.Logger
}

// Config configures a Pipeline.
type Config struct {
	Figma    *figma.Client
	LLM      llm.Client
	Renderer *render.Renderer
	// History is optional; when nil, runs are not recorded.
	History *history.Store
	// Limits bound the tree traversal during extraction.
	Limits figma.Limits
	// Templates overrides the generator's prompt templates.
	Templates map[scenario.Type]string
	Logger    *slog.Logger
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		figma:    cfg.Figma,
		llm:      cfg.LLM,
		gen:      scenario.New(cfg.LLM, scenario.Config{Templates: cfg.Templates, Logger: logger}),
		renderer: cfg.Renderer,
		history:  cfg.History,
		limits:   cfg.Limits,
		logger:   logger,
	}
}

// History returns the run-history store, or nil when history is disabled.
func (p *Pipeline) History() *history.Store {
	return p.history
}

// Request describes one full pipeline run.
type Request struct {
	FileID  string
	Type    scenario.Type
	Formats []render.Format
	// OutBase is the base filename (without extension) for all outputs.
	OutBase string
	// DesignPath is where the extracted design JSON is written.
	// Empty skips the intermediate file.
	DesignPath string
}

// Result reports what a run produced.
type Result struct {
	Design     *figma.Document
	Scenario   *scenario.Document
	DesignPath string
	Outputs    map[render.Format]string
}

// Extract fetches and reduces a Figma file. Used alone by the extract
// command and as stage one of Run.
func (p *Pipeline) Extract(ctx context.Context, fileID string) (*figma.Document, error) {
	raw, err := p.figma.File(ctx, fileID)
	if err != nil {
		return nil, err
	}
	doc, err := figma.Extract(raw, p.limits)
	if err != nil {
		return nil, err
	}
	p.logger.Info("design extracted", "file", doc.FileName, "pages", len(doc.Pages), "nodes", doc.NodeCount())
	return doc, nil
}

// Generate runs stage two and three for an already extracted design.
func (p *Pipeline) Generate(ctx context.Context, design *figma.Document, typ scenario.Type, formats []render.Format, outBase string) (*scenario.Document, map[render.Format]string, error) {
	sc, err := p.gen.Generate(ctx, design, typ)
	if err != nil {
		return nil, nil, err
	}
	outputs, err := p.renderer.RenderAll(sc, design, outBase, formats)
	if err != nil {
		return nil, nil, err
	}
	return sc, outputs, nil
}

// Run executes the full pipeline and records the outcome in the history
// store when one is configured.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now().UnixMilli()
	res, err := p.run(ctx, req)
	p.record(ctx, req, res, err, started)
	return res, err
}

func (p *Pipeline) run(ctx context.Context, req Request) (*Result, error) {
	if _, err := scenario.ParseType(string(req.Type)); err != nil {
		return nil, err
	}

	design, err := p.Extract(ctx, req.FileID)
	if err != nil {
		return nil, fmt.Errorf("pipeline: extract: %w", err)
	}

	res := &Result{Design: design}
	if req.DesignPath != "" {
		if err := design.Save(req.DesignPath); err != nil {
			return res, fmt.Errorf("pipeline: save design: %w", err)
		}
		res.DesignPath = req.DesignPath
	}

	sc, outputs, err := p.Generate(ctx, design, req.Type, req.Formats, req.OutBase)
	if err != nil {
		return res, fmt.Errorf("pipeline: generate: %w", err)
	}
	res.Scenario = sc
	res.Outputs = outputs

	p.logger.Info("pipeline completed", "file", design.FileName, "type", req.Type, "outputs", len(outputs))
	return res, nil
}

func (p *Pipeline) record(ctx context.Context, req Request, res *Result, runErr error, started int64) {
	if p.history == nil {
		return
	}
	run := &history.Run{
		Command:      "pipeline",
		FileID:       req.FileID,
		ScenarioType: string(req.Type),
		Formats:      joinFormats(req.Formats),
		Status:       "ok",
		StartedAt:    started,
	}
	if res != nil && res.Outputs != nil {
		run.Outputs = make(map[string]string, len(res.Outputs))
		for f, path := range res.Outputs {
			run.Outputs[string(f)] = filepath.ToSlash(path)
		}
	}
	if runErr != nil {
		run.Status = "error"
		run.Error = runErr.Error()
	}
	if err := p.history.Record(ctx, run); err != nil {
		p.logger.Warn("history record failed", "error", err)
	}
}

func joinFormats(formats []render.Format) string {
	out := ""
	for i, f := range formats {
		if i > 0 {
			out += ","
		}
		out += string(f)
	}
	return out
}
