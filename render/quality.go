package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/uxbdd/figbdd/scenario"
)

// verifyHTML converts the rendered HTML back to Markdown and checks that the
// scenario text survived re-encoding. It samples the longest content lines
// rather than demanding byte equality: the conversion normalizes whitespace,
// but must not truncate or corrupt the text itself.
func verifyHTML(page string, sc *scenario.Document) error {
	md, err := htmltomarkdown.ConvertString(page)
	if err != nil {
		return fmt.Errorf("render: html to markdown: %w", err)
	}

	squashed := squash(md)
	for _, line := range sampleLines(sc.Content, 3) {
		if !strings.Contains(squashed, squash(line)) {
			return fmt.Errorf("render: content line %q missing after round trip", line)
		}
	}
	return nil
}

// sampleLines returns up to n of the longest non-empty lines of text.
func sampleLines(text string, n int) []string {
	lines := strings.Split(text, "\n")
	var candidates []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			candidates = append(candidates, l)
		}
	}
	// Selection sort on length; the inputs are small.
	for i := 0; i < len(candidates) && i < n; i++ {
		longest := i
		for j := i + 1; j < len(candidates); j++ {
			if len(candidates[j]) > len(candidates[longest]) {
				longest = j
			}
		}
		candidates[i], candidates[longest] = candidates[longest], candidates[i]
	}
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// squash collapses all whitespace runs to single spaces for lenient matching.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
