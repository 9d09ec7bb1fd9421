package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/uxbdd/figbdd/figma"
	"github.com/uxbdd/figbdd/pipeline"
	"github.com/uxbdd/figbdd/render"
	"github.com/uxbdd/figbdd/scenario"
)

// cmdServe runs the HTTP API. With MCP_TRANSPORT=stdio (or -mcp) the process
// instead serves the pipeline tools over MCP stdio and exits when the client
// disconnects.
func cmdServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	envPath := fs.String("env", "", "path of a .env file to load")
	port := fs.String("port", env("PORT", "8090"), "HTTP listen port")
	mcpMode := fs.Bool("mcp", os.Getenv("MCP_TRANSPORT") == "stdio", "serve MCP over stdio instead of HTTP")
	fs.Parse(args)

	cfg, err := loadConfig(*envPath)
	if err != nil {
		return err
	}
	p, cleanup, err := buildPipeline(ctx, cfg, buildOpts{history: true, needFigma: true, checkCreds: true})
	if err != nil {
		return err
	}
	defer cleanup()

	if *mcpMode {
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "figbdd",
			Version: "1.0.0",
		}, nil)
		p.RegisterMCP(srv)
		slog.Info("MCP stdio serving")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Get("/api/check", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, p.CheckConnectivity(r.Context()))
	})

	r.Post("/api/extract", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FileID string `json:"file_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		if req.FileID == "" {
			req.FileID = cfg.FigmaFileID
		}
		doc, err := p.Extract(r.Context(), req.FileID)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, 200, doc)
	})

	r.Post("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Design  *figma.Document `json:"design"`
			Type    string          `json:"type"`
			Format  string          `json:"format"`
			OutBase string          `json:"out_base"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		if req.Design == nil {
			writeError(w, 400, fmt.Errorf("design is required"))
			return
		}
		typ, format, outBase, err := parseGenerateParams(req.Type, req.Format, req.OutBase)
		if err != nil {
			writeError(w, 400, err)
			return
		}
		sc, outputs, err := p.Generate(r.Context(), req.Design, typ, []render.Format{format}, outBase)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, 200, map[string]any{
			"type":    sc.Type,
			"model":   sc.Model,
			"content": sc.Content,
			"outputs": outputs,
		})
	})

	r.Post("/api/pipeline", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FileID  string `json:"file_id"`
			Type    string `json:"type"`
			Format  string `json:"format"`
			OutBase string `json:"out_base"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		if req.FileID == "" {
			req.FileID = cfg.FigmaFileID
		}
		typ, format, outBase, err := parseGenerateParams(req.Type, req.Format, req.OutBase)
		if err != nil {
			writeError(w, 400, err)
			return
		}
		res, err := p.Run(r.Context(), pipeline.Request{
			FileID:  req.FileID,
			Type:    typ,
			Formats: []render.Format{format},
			OutBase: outBase,
		})
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, 200, map[string]any{
			"file":    res.Design.FileName,
			"type":    res.Scenario.Type,
			"model":   res.Scenario.Model,
			"outputs": res.Outputs,
		})
	})

	r.Get("/api/history", func(w http.ResponseWriter, r *http.Request) {
		store := p.History()
		if store == nil {
			writeError(w, 404, fmt.Errorf("history disabled"))
			return
		}
		runs, err := store.List(r.Context(), queryInt(r, "n", 20))
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, runs)
	})

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Minute, // pipeline runs block on the LLM
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", *port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func parseGenerateParams(typeStr, formatStr, outBase string) (scenario.Type, render.Format, string, error) {
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

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, figma.ErrAuth):
		return 502
	case errors.Is(err, figma.ErrNotFound):
		return 404
	case errors.Is(err, scenario.ErrUnknownType):
		return 400
	default:
		return 500
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
