package render

import (
	"fmt"
	"strings"

	"github.com/uxbdd/figbdd/figma"
	"github.com/uxbdd/figbdd/scenario"
)

// buildMarkdown renders the scenario document plus a design summary as
// Markdown. The scenario content is embedded verbatim inside a gherkin
// fence; the heading carries the scenario type tag.
func buildMarkdown(sc *scenario.Document, design *figma.Document) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# BDD Scenarios @%s: %s\n\n", sc.Type, sc.SourceFile)
	fmt.Fprintf(&sb, "- Source file: %s\n", sc.SourceFile)
	fmt.Fprintf(&sb, "- Scenario type: @%s\n", sc.Type)
	if sc.Model != "" {
		fmt.Fprintf(&sb, "- Model: %s\n", sc.Model)
	}
	fmt.Fprintf(&sb, "- Generated: %s\n\n", sc.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	sb.WriteString("## Scenarios\n\n")
	sb.WriteString("```gherkin\n")
	sb.WriteString(sc.Content)
	if !strings.HasSuffix(sc.Content, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString("```\n")

	if design != nil {
		sb.WriteString("\n## Design Summary\n\n")
		fmt.Fprintf(&sb, "- Pages: %d\n", len(design.Pages))
		for _, p := range design.Pages {
			fmt.Fprintf(&sb, "  - %s (%d top-level frames)\n", p.Name, len(p.Frames))
		}
		if len(design.TextElements) > 0 {
			sb.WriteString("- Key text elements:\n")
			for _, el := range design.TextElements {
				fmt.Fprintf(&sb, "  - %q (%s, %s)\n", el.Text, el.Name, el.Page)
			}
		}
		if len(design.InteractiveElements) > 0 {
			sb.WriteString("- Interactive elements:\n")
			for _, el := range design.InteractiveElements {
				fmt.Fprintf(&sb, "  - %s (%s)\n", el.Name, el.Page)
			}
		}
		if len(design.Components) > 0 {
			fmt.Fprintf(&sb, "- Components: %d\n", len(design.Components))
		}
	}

	return sb.String()
}
