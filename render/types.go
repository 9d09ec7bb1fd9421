package render

import "fmt"

// Format identifies an output document format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	// FormatAll expands to every concrete format.
	FormatAll Format = "all"
)

// Formats returns the concrete output formats, in stable order.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatHTML, FormatPDF}
}

// ParseFormat validates an output format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatHTML, FormatPDF, FormatAll:
		return Format(s), nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("render: unknown format %q (supported: markdown, html, pdf, all)", s)
	}
}

// ext returns the file extension for a concrete format.
func ext(f Format) string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatPDF:
		return ".pdf"
	default:
		return ""
	}
}
