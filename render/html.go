package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 900px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
h1 { border-bottom: 2px solid #d0d7de; padding-bottom: .3rem; }
h2 { border-bottom: 1px solid #d0d7de; padding-bottom: .2rem; }
pre { background: #f6f8fa; border-radius: 6px; padding: 1rem; overflow-x: auto; }
code { font-family: "SFMono-Regular", Consolas, Menlo, monospace; font-size: .9em; }
li { margin: .15rem 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// buildHTML converts the Markdown document to a standalone styled HTML page.
// The body passes through goldmark and then bluemonday: the scenario text
// comes from an external model, so it is treated as untrusted content.
func buildHTML(title, markdown string, sanitize bool) (string, error) {
	md := goldmark.New(
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("render: markdown to html: %w", err)
	}

	rendered := body.Bytes()
	if sanitize {
		rendered = bluemonday.UGCPolicy().SanitizeBytes(rendered)
	}

	var page bytes.Buffer
	err := htmlPage.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(rendered),
	})
	if err != nil {
		return "", fmt.Errorf("render: html template: %w", err)
	}
	return page.String(), nil
}
