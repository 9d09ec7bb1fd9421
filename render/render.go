// Package render writes a generated scenario document into Markdown, HTML,
// and PDF files.
//
// Each format is an independent write with no shared state: when one format
// fails (for example PDF conversion), the others still succeed and the
// failure degrades to a warning.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/uxbdd/figbdd/figma"
	"github.com/uxbdd/figbdd/scenario"
)

// Config configures the renderer.
type Config struct {
	// OutDir is the output directory, created on demand. Default: "output".
	OutDir string
	// Sanitize controls HTML sanitization of the model output. Default: on.
	// Only an explicit false disables it.
	DisableSanitize bool
	// VerifyHTML enables the HTML round-trip content check after rendering.
	VerifyHTML bool
	// Logger for warnings and debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.OutDir == "" {
		c.OutDir = "output"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Renderer writes scenario documents to disk.
type Renderer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Renderer.
func New(cfg Config) *Renderer {
	cfg.defaults()
	return &Renderer{cfg: cfg, logger: cfg.Logger}
}

// Markdown writes the Markdown document and returns its path.
func (r *Renderer) Markdown(sc *scenario.Document, design *figma.Document, base string) (string, error) {
	path, err := r.outPath(base, FormatMarkdown)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(buildMarkdown(sc, design)), 0o644); err != nil {
		return "", fmt.Errorf("render: write %s: %w", path, err)
	}
	return path, nil
}

// HTML writes the HTML document and returns its path.
func (r *Renderer) HTML(sc *scenario.Document, design *figma.Document, base string) (string, error) {
	path, err := r.outPath(base, FormatHTML)
	if err != nil {
		return "", err
	}
	title := fmt.Sprintf("BDD Scenarios @%s: %s", sc.Type, sc.SourceFile)
	page, err := buildHTML(title, buildMarkdown(sc, design), !r.cfg.DisableSanitize)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("render: write %s: %w", path, err)
	}
	if r.cfg.VerifyHTML {
		if err := verifyHTML(page, sc); err != nil {
			r.logger.Warn("html round-trip check failed", "path", path, "error", err)
		}
	}
	return path, nil
}

// PDF writes the PDF document and returns its path.
func (r *Renderer) PDF(sc *scenario.Document, design *figma.Document, base string) (string, error) {
	path, err := r.outPath(base, FormatPDF)
	if err != nil {
		return "", err
	}
	if err := writePDF(path, buildMarkdown(sc, design)); err != nil {
		return "", err
	}
	return path, nil
}

// Render writes one concrete format.
func (r *Renderer) Render(sc *scenario.Document, design *figma.Document, base string, f Format) (string, error) {
	switch f {
	case FormatMarkdown:
		return r.Markdown(sc, design, base)
	case FormatHTML:
		return r.HTML(sc, design, base)
	case FormatPDF:
		return r.PDF(sc, design, base)
	default:
		return "", fmt.Errorf("render: no writer for format %q", f)
	}
}

// RenderAll writes the requested formats (expanding "all"). The writes are
// independent and order-independent: a failing format is logged as a warning
// and skipped, and an error is returned only when every requested format
// failed.
func (r *Renderer) RenderAll(sc *scenario.Document, design *figma.Document, base string, formats []Format) (map[Format]string, error) {
	var expanded []Format
	for _, f := range formats {
		if f == FormatAll {
			expanded = append(expanded, Formats()...)
			continue
		}
		expanded = append(expanded, f)
	}

	outputs := make(map[Format]string, len(expanded))
	var firstErr error
	for _, f := range expanded {
		path, err := r.Render(sc, design, base, f)
		if err != nil {
			r.logger.Warn("format skipped", "format", f, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		outputs[f] = path
	}

	if len(outputs) == 0 && firstErr != nil {
		return nil, fmt.Errorf("render: all formats failed: %w", firstErr)
	}
	return outputs, nil
}

func (r *Renderer) outPath(base string, f Format) (string, error) {
	if err := os.MkdirAll(r.cfg.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("render: mkdir %s: %w", r.cfg.OutDir, err)
	}
	return filepath.Join(r.cfg.OutDir, base+ext(f)), nil
}
