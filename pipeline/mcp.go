package pipeline

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/uxbdd/figbdd/figma"
	"github.com/uxbdd/figbdd/render"
	"github.com/uxbdd/figbdd/scenario"
)

// RegisterMCP registers the pipeline stages as MCP tools.
//
// Registered tools:
//
//	figbdd_extract:  extract design data from a Figma file
//	figbdd_generate: generate scenarios from an extracted design JSON file
//	figbdd_pipeline: full extract + generate + render run
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "figbdd_extract",
		Description: "Extract design data (pages, frames, key UI elements) from a Figma file.",
	}, p.mcpExtract)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "figbdd_generate",
		Description: "Generate BDD scenarios from a previously extracted design JSON file and render documents.",
	}, p.mcpGenerate)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "figbdd_pipeline",
		Description: "Run the full pipeline: extract a Figma file, generate BDD scenarios, render documents.",
	}, p.mcpPipeline)
}

type mcpExtractArgs struct {
	FileID string `json:"file_id" jsonschema:"Figma file ID"`
	Output string `json:"output,omitempty" jsonschema:"path for the design JSON (optional)"`
}

type mcpExtractResult struct {
	FileName string `json:"file_name"`
	Pages    int    `json:"pages"`
	Nodes    int    `json:"nodes"`
	Path     string `json:"path,omitempty"`
}

func (p *Pipeline) mcpExtract(ctx context.Context, _ *mcp.CallToolRequest, args mcpExtractArgs) (*mcp.CallToolResult, mcpExtractResult, error) {
	doc, err := p.Extract(ctx, args.FileID)
	if err != nil {
		return nil, mcpExtractResult{}, err
	}
	res := mcpExtractResult{FileName: doc.FileName, Pages: len(doc.Pages), Nodes: doc.NodeCount()}
	if args.Output != "" {
		if err := doc.Save(args.Output); err != nil {
			return nil, mcpExtractResult{}, err
		}
		res.Path = args.Output
	}
	return nil, res, nil
}

type mcpGenerateArgs struct {
	Input   string `json:"input" jsonschema:"path of the extracted design JSON file"`
	Type    string `json:"type,omitempty" jsonschema:"scenario type: functional, ui, accessibility, performance"`
	Format  string `json:"format,omitempty" jsonschema:"output format: markdown, html, pdf, all"`
	OutBase string `json:"out_base,omitempty" jsonschema:"base filename for outputs"`
}

type mcpGenerateResult struct {
	Type    string            `json:"type"`
	Model   string            `json:"model"`
	Outputs map[string]string `json:"outputs"`
}

func (p *Pipeline) mcpGenerate(ctx context.Context, _ *mcp.CallToolRequest, args mcpGenerateArgs) (*mcp.CallToolResult, mcpGenerateResult, error) {
	typ, format, outBase, err := generateArgs(args.Type, args.Format, args.OutBase)
	if err != nil {
		return nil, mcpGenerateResult{}, err
	}
	design, err := figma.LoadDocument(args.Input)
	if err != nil {
		return nil, mcpGenerateResult{}, err
	}
	sc, outputs, err := p.Generate(ctx, design, typ, []render.Format{format}, outBase)
	if err != nil {
		return nil, mcpGenerateResult{}, err
	}
	return nil, mcpGenerateResult{Type: string(sc.Type), Model: sc.Model, Outputs: formatMap(outputs)}, nil
}

type mcpPipelineArgs struct {
	FileID  string `json:"file_id" jsonschema:"Figma file ID"`
	Type    string `json:"type,omitempty" jsonschema:"scenario type: functional, ui, accessibility, performance"`
	Format  string `json:"format,omitempty" jsonschema:"output format: markdown, html, pdf, all"`
	OutBase string `json:"out_base,omitempty" jsonschema:"base filename for outputs"`
}

func (p *Pipeline) mcpPipeline(ctx context.Context, _ *mcp.CallToolRequest, args mcpPipelineArgs) (*mcp.CallToolResult, mcpGenerateResult, error) {
	typ, format, outBase, err := generateArgs(args.Type, args.Format, args.OutBase)
	if err != nil {
		return nil, mcpGenerateResult{}, err
	}
	res, err := p.Run(ctx, Request{
		FileID:  args.FileID,
		Type:    typ,
		Formats: []render.Format{format},
		OutBase: outBase,
	})
	if err != nil {
		return nil, mcpGenerateResult{}, err
	}
	return nil, mcpGenerateResult{Type: string(res.Scenario.Type), Model: res.Scenario.Model, Outputs: formatMap(res.Outputs)}, nil
}

func generateArgs(typeStr, formatStr, outBase string) (scenario.Type, render.Format, string, error) {
	if typeStr == "" {
		typeStr = string(scenario.TypeFunctional)
	}
	typ, err := scenario.ParseType(typeStr)
	if err != nil {
		return "", "", "", err
	}
	if formatStr == "" {
		formatStr = string(render.FormatAll)
	}
	format, err := render.ParseFormat(formatStr)
	if err != nil {
		return "", "", "", err
	}
	if outBase == "" {
		outBase = "bdd_scenarios"
	}
	return typ, format, outBase, nil
}

func formatMap(outputs map[render.Format]string) map[string]string {
	out := make(map[string]string, len(outputs))
	for f, path := range outputs {
		out[string(f)] = path
	}
	return out
}
