package figma

// NodeType is the closed set of node kinds the extractor distinguishes.
// Every raw Figma node maps to exactly one of these.
type NodeType string

const (
	NodeFrame     NodeType = "frame"
	NodeText      NodeType = "text"
	NodeComponent NodeType = "component"
	NodeOther     NodeType = "other"
)

// mapNodeType reduces a raw Figma node type tag to the closed variant set.
func mapNodeType(raw string) NodeType {
	switch raw {
	case "FRAME", "GROUP", "SECTION":
		return NodeFrame
	case "TEXT":
		return NodeText
	case "COMPONENT", "COMPONENT_SET", "INSTANCE":
		return NodeComponent
	default:
		return NodeOther
	}
}

// Bounds is the absolute bounding box of a node.
type Bounds struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Node is one extracted design node. A parent exclusively owns its children;
// the tree has no cycles and no shared subtrees.
type Node struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        NodeType `json:"type"`
	RawType     string   `json:"raw_type"`
	Visible     bool     `json:"visible"`
	Interactive bool     `json:"interactive,omitempty"`
	Bounds      *Bounds  `json:"bounds,omitempty"`
	Text        string   `json:"text,omitempty"`
	FontSize    float64  `json:"font_size,omitempty"`
	ComponentID string   `json:"component_id,omitempty"`
	Children    []Node   `json:"children,omitempty"`
}

// Page is one Figma canvas with its top-level frame trees.
type Page struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Frames []Node `json:"frames"`
}

// Element is a flat summary of one key UI element, collected alongside the
// tree for prompt building.
type Element struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Page string `json:"page"`
	Text string `json:"text,omitempty"`
}

// Document is the extraction result. It is immutable once built: written to
// disk as JSON exactly once and never mutated in place.
//
// It deliberately carries no timestamp so that extraction from a fixed API
// response is byte-for-byte reproducible.
type Document struct {
	FileName            string    `json:"file_name"`
	Pages               []Page    `json:"pages"`
	Components          []Element `json:"components"`
	TextElements        []Element `json:"text_elements"`
	InteractiveElements []Element `json:"interactive_elements"`
}

// NodeCount returns the total number of nodes across all pages.
func (d *Document) NodeCount() int {
	total := 0
	stack := make([]*Node, 0, 64)
	for pi := range d.Pages {
		for fi := range d.Pages[pi].Frames {
			stack = append(stack, &d.Pages[pi].Frames[fi])
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		for i := range n.Children {
			stack = append(stack, &n.Children[i])
		}
	}
	return total
}
