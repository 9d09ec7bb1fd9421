package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Plain-text PDF layout constants.
const (
	pdfLinesPerPage = 54
	pdfMaxLineRunes = 100
	pdfFontName     = "Courier"
	pdfFontSize     = 9
)

// pdfFont is the font block of a pdfcpu create-JSON text entry.
type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pdfTextEntry struct {
	Value    string    `json:"value"`
	Position []float64 `json:"position"`
	Font     pdfFont   `json:"font"`
}

type pdfContent struct {
	Text []pdfTextEntry `json:"text"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfCreateSpec struct {
	Paper  string             `json:"paper"`
	Origin string             `json:"origin"`
	Pages  map[string]pdfPage `json:"pages"`
}

// writePDF renders the document text into a paginated PDF through pdfcpu's
// JSON-driven create API.
func writePDF(path, text string) error {
	spec := pdfCreateSpec{
		Paper:  "A4",
		Origin: "upperLeft",
		Pages:  map[string]pdfPage{},
	}

	pages := paginate(text, pdfLinesPerPage, pdfMaxLineRunes)
	if len(pages) == 0 {
		pages = [][]string{{""}}
	}
	for i, lines := range pages {
		spec.Pages[fmt.Sprintf("%d", i+1)] = pdfPage{
			Content: pdfContent{
				Text: []pdfTextEntry{{
					Value:    strings.Join(lines, "\n"),
					Position: []float64{40, 40},
					Font:     pdfFont{Name: pdfFontName, Size: pdfFontSize},
				}},
			},
		}
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("render: marshal pdf spec: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	if err := api.Create(nil, bytes.NewReader(specJSON), f, conf); err != nil {
		return fmt.Errorf("render: pdfcpu create: %w", err)
	}
	return nil
}

// paginate wraps long lines and splits the text into pages of at most
// linesPerPage lines.
func paginate(text string, linesPerPage, maxLineRunes int) [][]string {
	var wrapped []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		runes := []rune(line)
		if len(runes) == 0 {
			wrapped = append(wrapped, "")
			continue
		}
		for len(runes) > maxLineRunes {
			wrapped = append(wrapped, string(runes[:maxLineRunes]))
			runes = runes[maxLineRunes:]
		}
		wrapped = append(wrapped, string(runes))
	}

	var pages [][]string
	for start := 0; start < len(wrapped); start += linesPerPage {
		end := start + linesPerPage
		if end > len(wrapped) {
			end = len(wrapped)
		}
		pages = append(pages, wrapped[start:end])
	}
	return pages
}
