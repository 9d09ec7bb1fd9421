// Command figbdd turns Figma designs into BDD scenario documents.
//
// Subcommands:
//
//	extract   fetch a Figma file and write the extracted design JSON
//	generate  generate scenarios from an extracted design JSON file
//	pipeline  full run: extract, generate, render
//	check     probe connectivity to Figma and the LLM provider
//	setup     report which configuration values are present
//	history   list recent runs
//	serve     run the HTTP API (and optional MCP stdio transport)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/uxbdd/figbdd/config"
	"github.com/uxbdd/figbdd/figma"
	"github.com/uxbdd/figbdd/history"
	"github.com/uxbdd/figbdd/llm"
	"github.com/uxbdd/figbdd/pipeline"
	"github.com/uxbdd/figbdd/render"
	"github.com/uxbdd/figbdd/scenario"
)

const usage = `Usage: figbdd <command> [flags]

Commands:
  extract    fetch a Figma file and write the extracted design JSON
  generate   generate BDD scenarios from an extracted design JSON file
  pipeline   full run: extract, generate, render
  check      probe connectivity to Figma and the LLM provider
  setup      report which configuration values are present
  history    list recent runs
  serve      run the HTTP API server

Run "figbdd <command> -h" for command flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "extract":
		err = cmdExtract(ctx, os.Args[2:])
	case "generate":
		err = cmdGenerate(ctx, os.Args[2:])
	case "pipeline":
		err = cmdPipeline(ctx, os.Args[2:])
	case "check":
		err = cmdCheck(ctx, os.Args[2:])
	case "setup":
		err = cmdSetup(os.Args[2:])
	case "history":
		err = cmdHistory(ctx, os.Args[2:])
	case "serve":
		err = cmdServe(ctx, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "figbdd: unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration, installs the JSON logger, and returns the
// config. Every subcommand starts here.
func loadConfig(envPath string) (config.Config, error) {
	cfg, err := config.Load(envPath)
	if err != nil {
		return config.Config{}, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return cfg, nil
}

func figmaClient(cfg config.Config) *figma.Client {
	return figma.NewClient(cfg.FigmaToken, figma.Config{
		InsecureSkipVerify: !cfg.VerifySSL,
	})
}

// buildOpts selects which parts of the pipeline a subcommand needs.
// Credentials are validated only for the components the command will use:
// generating from a saved design JSON never contacts Figma, so it must not
// demand a Figma token.
type buildOpts struct {
	// history opens the run-history store.
	history bool
	// needFigma is set for commands that call the Figma API.
	needFigma bool
	// checkCreds fails fast on missing credentials. The check command leaves
	// it off so every service is probed and reported instead of aborting.
	checkCreds bool
}

// buildPipeline assembles the pipeline from configuration. The returned
// cleanup closes the history store; it is safe to call when history is
// disabled.
func buildPipeline(ctx context.Context, cfg config.Config, opts buildOpts) (*pipeline.Pipeline, func(), error) {
	if opts.checkCreds {
		if opts.needFigma {
			if err := cfg.ValidateFigma(); err != nil {
				return nil, nil, err
			}
		}
		if err := cfg.ValidateLLM(); err != nil {
			return nil, nil, err
		}
	}

	llmClient, err := llm.New(ctx, cfg, slog.Default())
	if err != nil {
		return nil, nil, err
	}

	var templates map[scenario.Type]string
	if cfg.PromptFile != "" {
		templates, err = scenario.LoadTemplates(cfg.PromptFile)
		if err != nil {
			return nil, nil, err
		}
	}

	var store *history.Store
	cleanup := func() {}
	if opts.history && cfg.HistoryDB != "" {
		store, err = history.Open(cfg.HistoryDB)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { store.Close() }
	}

	p := pipeline.New(pipeline.Config{
		Figma: figmaClient(cfg),
		LLM:   llmClient,
		Renderer: render.New(render.Config{
			OutDir: cfg.OutputDir,
			Logger: slog.Default(),
		}),
		History:   store,
		Templates: templates,
		Logger:    slog.Default(),
	})
	return p, cleanup, nil
}

func cmdExtract(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	envPath := fs.String("env", "", "path of a .env file to load")
	fileID := fs.String("file", "", "Figma file ID (default: FIGMA_FILE_ID)")
	output := fs.String("output", "", "path for the design JSON (default: <output dir>/figma_design.json)")
	token := fs.String("token", "", "Figma access token (default: FIGMA_ACCESS_TOKEN)")
	insecure := fs.Bool("insecure", false, "disable TLS certificate verification")
	fs.Parse(args)

	cfg, err := loadConfig(*envPath)
	if err != nil {
		return err
	}
	if *token != "" {
		cfg.FigmaToken = *token
	}
	if *insecure {
		cfg.VerifySSL = false
	}
	if err := cfg.ValidateFigma(); err != nil {
		return err
	}
	id := *fileID
	if id == "" {
		id = cfg.FigmaFileID
	}
	if id == "" {
		return fmt.Errorf("extract: no file ID (use -file or FIGMA_FILE_ID)")
	}
	out := *output
	if out == "" {
		out = filepath.Join(cfg.OutputDir, "figma_design.json")
	}

	client := figmaClient(cfg)
	raw, err := client.File(ctx, id)
	if err != nil {
		return err
	}
	doc, err := figma.Extract(raw, figma.Limits{})
	if err != nil {
		return err
	}
	if err := doc.Save(out); err != nil {
		return err
	}
	slog.Info("design extracted", "file", doc.FileName, "pages", len(doc.Pages), "nodes", doc.NodeCount(), "output", out)
	return nil
}

func cmdGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	envPath := fs.String("env", "", "path of a .env file to load")
	input := fs.String("input", "", "path of the extracted design JSON (required)")
	typ := fs.String("type", "functional", "scenario type: functional, ui, accessibility, performance")
	format := fs.String("format", "markdown", "output format: markdown, html, pdf, all")
	outBase := fs.String("out", "bdd_scenarios", "base filename for outputs")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("generate: -input is required")
	}
	cfg, err := loadConfig(*envPath)
	if err != nil {
		return err
	}

	scType, err := scenario.ParseType(*typ)
	if err != nil {
		return err
	}
	scFormat, err := render.ParseFormat(*format)
	if err != nil {
		return err
	}

	design, err := figma.LoadDocument(*input)
	if err != nil {
		return err
	}

	// The design is already on disk: only the LLM is needed from here on.
	p, cleanup, err := buildPipeline(ctx, cfg, buildOpts{history: true, checkCreds: true})
	if err != nil {
		return err
	}
	defer cleanup()

	sc, outputs, err := p.Generate(ctx, design, scType, []render.Format{scFormat}, *outBase)
	if err != nil {
		return err
	}
	slog.Info("scenarios generated", "type", sc.Type, "model", sc.Model, "outputs", len(outputs))
	for f, path := range outputs {
		fmt.Printf("%-8s %s\n", f, path)
	}
	return nil
}

func cmdPipeline(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	envPath := fs.String("env", "", "path of a .env file to load")
	fileID := fs.String("file", "", "Figma file ID (default: FIGMA_FILE_ID)")
	typ := fs.String("type", "functional", "scenario type: functional, ui, accessibility, performance")
	format := fs.String("format", "all", "output format: markdown, html, pdf, all")
	outBase := fs.String("out", "bdd_scenarios", "base filename for outputs")
	keepDesign := fs.Bool("keep-design", true, "write the intermediate design JSON")
	token := fs.String("token", "", "Figma access token (default: FIGMA_ACCESS_TOKEN)")
	insecure := fs.Bool("insecure", false, "disable TLS certificate verification")
	fs.Parse(args)

	cfg, err := loadConfig(*envPath)
	if err != nil {
		return err
	}
	if *token != "" {
		cfg.FigmaToken = *token
	}
	if *insecure {
		cfg.VerifySSL = false
	}
	id := *fileID
	if id == "" {
		id = cfg.FigmaFileID
	}
	if id == "" {
		return fmt.Errorf("pipeline: no file ID (use -file or FIGMA_FILE_ID)")
	}

	scType, err := scenario.ParseType(*typ)
	if err != nil {
		return err
	}
	scFormat, err := render.ParseFormat(*format)
	if err != nil {
		return err
	}

	p, cleanup, err := buildPipeline(ctx, cfg, buildOpts{history: true, needFigma: true, checkCreds: true})
	if err != nil {
		return err
	}
	defer cleanup()

	req := pipeline.Request{
		FileID:  id,
		Type:    scType,
		Formats: []render.Format{scFormat},
		OutBase: *outBase,
	}
	if *keepDesign {
		req.DesignPath = filepath.Join(cfg.OutputDir, "figma_design.json")
	}
	res, err := p.Run(ctx, req)
	if err != nil {
		return err
	}
	for f, path := range res.Outputs {
		fmt.Printf("%-8s %s\n", f, path)
	}
	return nil
}

func cmdCheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	envPath := fs.String("env", "", "path of a .env file to load")
	fs.Parse(args)

	cfg, err := loadConfig(*envPath)
	if err != nil {
		return err
	}
	// No fail-fast validation here: every service gets probed and reported,
	// missing credentials included.
	p, cleanup, err := buildPipeline(ctx, cfg, buildOpts{needFigma: true})
	if err != nil {
		return err
	}
	defer cleanup()

	failed := false
	for _, st := range p.CheckConnectivity(ctx) {
		if st.OK {
			fmt.Printf("%-8s ok\n", st.Service)
		} else {
			failed = true
			fmt.Printf("%-8s FAILED: %s\n", st.Service, st.Error)
		}
	}
	if failed {
		return fmt.Errorf("check: one or more services unreachable")
	}
	return nil
}

func cmdSetup(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	envPath := fs.String("env", "", "path of a .env file to load")
	fs.Parse(args)

	cfg, err := loadConfig(*envPath)
	if err != nil {
		return err
	}
	missing := false
	for _, item := range pipeline.CheckSetup(cfg) {
		if item.Set {
			fmt.Printf("%-24s set\n", item.Name)
		} else {
			missing = true
			fmt.Printf("%-24s MISSING\n", item.Name)
		}
	}
	if missing {
		return fmt.Errorf("setup: missing configuration (see above)")
	}
	fmt.Println("configuration complete")
	return nil
}

func cmdHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	envPath := fs.String("env", "", "path of a .env file to load")
	limit := fs.Int("n", 20, "number of runs to show")
	fs.Parse(args)

	cfg, err := loadConfig(*envPath)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, r := range runs {
		line := fmt.Sprintf("%s  %-8s %-6s", r.ID[:8], r.Command, r.Status)
		if r.FileID != "" {
			line += "  file=" + r.FileID
		}
		if r.ScenarioType != "" {
			line += "  type=" + r.ScenarioType
		}
		if len(r.Outputs) > 0 {
			paths := make([]string, 0, len(r.Outputs))
			for _, p := range r.Outputs {
				paths = append(paths, p)
			}
			line += "  " + strings.Join(paths, " ")
		}
		if r.Error != "" {
			line += "  error=" + r.Error
		}
		fmt.Println(line)
	}
	return nil
}
