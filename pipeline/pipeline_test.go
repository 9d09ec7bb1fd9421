package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uxbdd/figbdd/config"
	"github.com/uxbdd/figbdd/figma"
	"github.com/uxbdd/figbdd/history"
	"github.com/uxbdd/figbdd/render"
	"github.com/uxbdd/figbdd/scenario"
)

const fixtureFile = `{
  "name": "Signup Flow",
  "document": {
    "id": "0:0", "name": "Document", "type": "DOCUMENT",
    "children": [
      {
        "id": "1:0", "name": "Page 1", "type": "CANVAS",
        "children": [
          {
            "id": "1:1", "name": "Signup Frame", "type": "FRAME",
            "absoluteBoundingBox": {"x": 0, "y": 0, "width": 375, "height": 812},
            "children": [
              {"id": "1:2", "name": "Title", "type": "TEXT", "characters": "Sign Up"},
              {"id": "1:3", "name": "Submit", "type": "INSTANCE", "componentId": "c1",
               "interactions": [{"trigger": {"type": "ON_CLICK"}}]}
            ]
          }
        ]
      }
    ]
  }
}`

type fakeLLM struct {
	response string
	err      error
	pingErr  error
	calls    int
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeLLM) Model() string                  { return "fake-model" }

func newFigmaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/me":
			w.Write([]byte(`{"id":"u1"}`))
		case strings.HasPrefix(r.URL.Path, "/files/"):
			w.Write([]byte(fixtureFile))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestPipeline(t *testing.T, llmClient *fakeLLM, outDir string) *Pipeline {
	t.Helper()
	srv := newFigmaServer(t)
	fc := figma.NewClient("token", figma.Config{BaseURL: srv.URL})
	return New(Config{
		Figma:    fc,
		LLM:      llmClient,
		Renderer: render.New(render.Config{OutDir: outDir}),
	})
}

func TestRunProducesOutputs(t *testing.T) {
	dir := t.TempDir()
	llmClient := &fakeLLM{response: "Feature: Signup\n  Scenario: user signs up\n    Given the signup page"}
	p := newTestPipeline(t, llmClient, dir)

	res, err := p.Run(context.Background(), Request{
		FileID:     "abc123",
		Type:       scenario.TypeFunctional,
		Formats:    []render.Format{render.FormatMarkdown, render.FormatHTML},
		OutBase:    "signup",
		DesignPath: filepath.Join(dir, "design.json"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if llmClient.calls != 1 {
		t.Errorf("LLM calls = %d, want 1", llmClient.calls)
	}
	if res.Design.FileName != "Signup Flow" {
		t.Errorf("file name = %q", res.Design.FileName)
	}
	if res.Scenario.Content != llmClient.response {
		t.Errorf("scenario content altered: %q", res.Scenario.Content)
	}
	if len(res.Outputs) != 2 {
		t.Fatalf("outputs = %v, want 2 entries", res.Outputs)
	}
	for f, path := range res.Outputs {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s output missing: %v", f, err)
		}
	}
	if _, err := os.Stat(res.DesignPath); err != nil {
		t.Errorf("design JSON missing: %v", err)
	}
}

func TestRunRejectsUnknownType(t *testing.T) {
	llmClient := &fakeLLM{response: "Feature: x"}
	p := newTestPipeline(t, llmClient, t.TempDir())

	_, err := p.Run(context.Background(), Request{
		FileID:  "abc123",
		Type:    scenario.Type("security"),
		Formats: []render.Format{render.FormatMarkdown},
		OutBase: "out",
	})
	if !errors.Is(err, scenario.ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
	if llmClient.calls != 0 {
		t.Errorf("LLM called %d times for rejected type", llmClient.calls)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	store, err := history.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	srv := newFigmaServer(t)
	llmClient := &fakeLLM{response: "Feature: Signup"}
	p := New(Config{
		Figma:    figma.NewClient("token", figma.Config{BaseURL: srv.URL}),
		LLM:      llmClient,
		Renderer: render.New(render.Config{OutDir: dir}),
		History:  store,
	})

	if _, err := p.Run(context.Background(), Request{
		FileID:  "abc123",
		Type:    scenario.TypeUI,
		Formats: []render.Format{render.FormatMarkdown},
		OutBase: "out",
	}); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	r := runs[0]
	if r.Status != "ok" || r.FileID != "abc123" || r.ScenarioType != "ui" {
		t.Errorf("recorded run = %+v", r)
	}
	if r.Outputs["markdown"] == "" {
		t.Errorf("markdown output path not recorded: %+v", r.Outputs)
	}
}

func TestRunRecordsFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := history.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	srv := newFigmaServer(t)
	llmClient := &fakeLLM{err: errors.New("throttled")}
	p := New(Config{
		Figma:    figma.NewClient("token", figma.Config{BaseURL: srv.URL}),
		LLM:      llmClient,
		Renderer: render.New(render.Config{OutDir: dir}),
		History:  store,
	})

	if _, err := p.Run(context.Background(), Request{
		FileID:  "abc123",
		Type:    scenario.TypeFunctional,
		Formats: []render.Format{render.FormatMarkdown},
		OutBase: "out",
	}); err == nil {
		t.Fatal("expected error from failing LLM")
	}

	runs, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Status != "error" || runs[0].Error == "" {
		t.Fatalf("recorded runs = %+v", runs)
	}
}

func TestCheckConnectivity(t *testing.T) {
	p := newTestPipeline(t, &fakeLLM{pingErr: errors.New("no credentials")}, t.TempDir())

	statuses := p.CheckConnectivity(context.Background())
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	if statuses[0].Service != "figma" || !statuses[0].OK {
		t.Errorf("figma status = %+v", statuses[0])
	}
	if statuses[1].Service != "llm" || statuses[1].OK || statuses[1].Error == "" {
		t.Errorf("llm status = %+v", statuses[1])
	}
}

func TestCheckSetup(t *testing.T) {
	cfg := config.Config{
		FigmaToken:  "tok",
		LLMProvider: "bedrock",
		AWSRegion:   "us-east-1",
	}
	items := CheckSetup(cfg)

	got := make(map[string]bool, len(items))
	for _, it := range items {
		got[it.Name] = it.Set
	}
	if !got["FIGMA_ACCESS_TOKEN"] {
		t.Error("FIGMA_ACCESS_TOKEN should be set")
	}
	if got["FIGMA_FILE_ID"] {
		t.Error("FIGMA_FILE_ID should be missing")
	}
	if !got["AWS_REGION"] || got["AWS_ACCESS_KEY_ID"] {
		t.Errorf("aws items = %v", got)
	}

	items = CheckSetup(config.Config{LLMProvider: "openai", OpenAIKey: "sk"})
	found := false
	for _, it := range items {
		if it.Name == "OPENAI_API_KEY" {
			found = it.Set
		}
		if strings.HasPrefix(it.Name, "AWS_") {
			t.Errorf("AWS item %s listed for openai provider", it.Name)
		}
	}
	if !found {
		t.Error("OPENAI_API_KEY not reported for openai provider")
	}
}
