package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in prompt templates per scenario type. Each template has exactly one
// %s verb, filled with the design document JSON, so every literal text node
// of the design appears in the prompt.

const functionalPrompt = `You are a Business Analyst and Test Automation expert. Based on the following Figma design data,
generate comprehensive BDD (Behavior Driven Development) scenarios in Gherkin format.

Design Data:
%s

Please analyze the design and create BDD scenarios that cover:

1. User Interface Elements:
   - All interactive elements (buttons, forms, links)
   - Text content and labels
   - Navigation elements
   - Visual components

2. User Journeys:
   - Primary user flows
   - Secondary user flows
   - Error scenarios
   - Edge cases

3. Functional Requirements:
   - Form validations
   - Data entry scenarios
   - Search functionality
   - Filter and sorting features

Generate the scenarios in proper Gherkin format with:
- Feature descriptions
- Background steps (if applicable)
- Scenario outlines with examples
- Given-When-Then steps
- Tags for categorization

Focus on creating scenarios that are:
- Testable and measurable
- Clear and understandable
- Comprehensive but not redundant
- Aligned with user experience goals

Format the output as a complete BDD document with proper Gherkin syntax.`

const uiPrompt = `Generate UI-focused BDD test scenarios for the following design:

%s

Focus on:
- Element visibility and positioning
- Responsive design behavior
- Visual consistency
- Interaction feedback
- Layout validation

Use Gherkin syntax with visual verification steps.`

const accessibilityPrompt = `Generate accessibility-focused BDD test scenarios for the following design:

%s

Focus on:
- WCAG 2.1 compliance
- Keyboard navigation
- Screen reader compatibility
- Color contrast
- Focus management
- Alt text for images

Use Gherkin syntax with accessibility-specific verification steps.`

const performancePrompt = `Generate performance-focused BDD test scenarios for the following design:

%s

Focus on:
- Page load times
- Image optimization
- API response times
- Resource loading
- Memory usage
- Mobile performance

Use Gherkin syntax with performance metrics validation.`

func builtinTemplates() map[Type]string {
	return map[Type]string{
		TypeFunctional:    functionalPrompt,
		TypeUI:            uiPrompt,
		TypeAccessibility: accessibilityPrompt,
		TypePerformance:   performancePrompt,
	}
}

// LoadTemplates reads prompt template overrides from a YAML file mapping
// scenario type to template text. Each override must contain exactly one %s
// placeholder for the design JSON. Types absent from the file keep the
// built-in template.
func LoadTemplates(path string) (map[Type]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read templates %s: %w", path, err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scenario: decode templates %s: %w", path, err)
	}

	templates := builtinTemplates()
	for k, tmpl := range raw {
		typ, err := ParseType(k)
		if err != nil {
			return nil, err
		}
		if n := countVerb(tmpl); n != 1 {
			return nil, fmt.Errorf("scenario: template for %q must contain exactly one %%s placeholder, found %d", k, n)
		}
		templates[typ] = tmpl
	}
	return templates, nil
}

func countVerb(tmpl string) int {
	n := 0
	for i := 0; i+1 < len(tmpl); i++ {
		if tmpl[i] == '%' {
			if tmpl[i+1] == 's' {
				n++
			}
			i++ // skip escaped %% too
		}
	}
	return n
}
