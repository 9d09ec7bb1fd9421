package scenario

import (
	"fmt"
	"time"
)

// Type selects which prompt template drives generation.
type Type string

const (
	TypeFunctional    Type = "functional"
	TypeUI            Type = "ui"
	TypeAccessibility Type = "accessibility"
	TypePerformance   Type = "performance"
)

// Types returns all supported scenario types, in stable order.
func Types() []Type {
	return []Type{TypeFunctional, TypeUI, TypeAccessibility, TypePerformance}
}

// ParseType validates a scenario type string. Unsupported values are
// rejected here, before any network call.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeFunctional, TypeUI, TypeAccessibility, TypePerformance:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q (supported: functional, ui, accessibility, performance)", ErrUnknownType, s)
	}
}

// Document is the generation result: the model's Gherkin text verbatim plus
// metadata. The content is never parsed or validated as Gherkin.
type Document struct {
	Content     string    `json:"content"`
	SourceFile  string    `json:"source_file"`
	Type        Type      `json:"type"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}
