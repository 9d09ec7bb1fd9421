package pipeline

import (
	"context"

	"github.com/uxbdd/figbdd/config"
)

// ServiceStatus is the outcome of one connectivity probe.
type ServiceStatus struct {
	Service string `json:"service"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// CheckConnectivity probes the Figma API and the configured LLM provider.
// Probes run sequentially; a failing probe does not stop the others.
func (p *Pipeline) CheckConnectivity(ctx context.Context) []ServiceStatus {
	statuses := make([]ServiceStatus, 0, 2)

	figmaStatus := ServiceStatus{Service: "figma", OK: true}
	if err := p.figma.Ping(ctx); err != nil {
		figmaStatus.OK = false
		figmaStatus.Error = err.Error()
	}
	statuses = append(statuses, figmaStatus)

	llmStatus := ServiceStatus{Service: "llm", OK: true}
	if err := p.llm.Ping(ctx); err != nil {
		llmStatus.OK = false
		llmStatus.Error = err.Error()
	}
	statuses = append(statuses, llmStatus)

	return statuses
}

// SetupItem reports whether one configuration value is present. No network
// calls are made.
type SetupItem struct {
	Name string `json:"name"`
	Set  bool   `json:"set"`
}

// CheckSetup reports which required configuration values are present.
func CheckSetup(cfg config.Config) []SetupItem {
	items := []SetupItem{
		{Name: "FIGMA_ACCESS_TOKEN", Set: cfg.FigmaToken != ""},
		{Name: "FIGMA_FILE_ID", Set: cfg.FigmaFileID != ""},
	}
	switch cfg.LLMProvider {
	case "openai":
		items = append(items, SetupItem{Name: "OPENAI_API_KEY", Set: cfg.OpenAIKey != ""})
	default:
		items = append(items,
			SetupItem{Name: "AWS_ACCESS_KEY_ID", Set: cfg.AWSAccessKeyID != ""},
			SetupItem{Name: "AWS_SECRET_ACCESS_KEY", Set: cfg.AWSSecretAccessKey != ""},
			SetupItem{Name: "AWS_REGION", Set: cfg.AWSRegion != ""},
		)
	}
	return items
}
