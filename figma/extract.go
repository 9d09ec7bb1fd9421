package figma

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Limits bound the tree traversal. The walk is iterative with an explicit
// stack, so a pathological file fails with a sentinel error instead of
// exhausting the call stack.
type Limits struct {
	// MaxDepth is the maximum nesting depth. Default: 100.
	MaxDepth int
	// MaxNodes is the maximum total node count. Default: 50000.
	MaxNodes int
}

func (l *Limits) defaults() {
	if l.MaxDepth <= 0 {
		l.MaxDepth = 100
	}
	if l.MaxNodes <= 0 {
		l.MaxNodes = 50000
	}
}

// Extract reduces a raw Figma file to a Document: CANVAS children become
// pages, their children become frame trees, and visible text, components,
// and interactive nodes are collected into flat key-element lists.
//
// Extraction is deterministic: the same raw input always yields the same
// Document, with all slices in source order.
func Extract(f *File, limits Limits) (*Document, error) {
	limits.defaults()

	doc := &Document{
		FileName:            f.Name,
		Pages:               []Page{},
		Components:          []Element{},
		TextElements:        []Element{},
		InteractiveElements: []Element{},
	}

	nodeCount := 0

	for i := range f.Document.Children {
		canvas := &f.Document.Children[i]
		if canvas.Type != "CANVAS" {
			continue
		}
		page := Page{
			ID:     canvas.ID,
			Name:   canvas.Name,
			Frames: make([]Node, len(canvas.Children)),
		}
		for j := range canvas.Children {
			page.Frames[j] = shallowNode(&canvas.Children[j])
			if err := walk(&canvas.Children[j], &page.Frames[j], canvas.Name, doc, limits, &nodeCount); err != nil {
				return nil, err
			}
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// item is one pending step of the iterative traversal.
type item struct {
	src   *RawNode
	dst   *Node
	depth int
}

// walk converts the subtree rooted at src into dst, collecting key elements
// into doc. Iterative with an explicit stack; enforces Limits.
func walk(src *RawNode, dst *Node, pageName string, doc *Document, limits Limits, nodeCount *int) error {
	stack := []item{{src: src, dst: dst, depth: 1}}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.depth > limits.MaxDepth {
			return fmt.Errorf("%w (depth %d, max %d)", ErrTreeTooDeep, it.depth, limits.MaxDepth)
		}
		*nodeCount++
		if *nodeCount > limits.MaxNodes {
			return fmt.Errorf("%w (max %d)", ErrTreeTooLarge, limits.MaxNodes)
		}

		collect(it.dst, pageName, doc)

		if len(it.src.Children) > 0 {
			it.dst.Children = make([]Node, len(it.src.Children))
			// Push in reverse so children are visited in source order.
			for i := len(it.src.Children) - 1; i >= 0; i-- {
				it.dst.Children[i] = shallowNode(&it.src.Children[i])
				stack = append(stack, item{
					src:   &it.src.Children[i],
					dst:   &it.dst.Children[i],
					depth: it.depth + 1,
				})
			}
		}
	}
	return nil
}

// shallowNode converts one raw node without descending into children.
func shallowNode(src *RawNode) Node {
	n := Node{
		ID:          src.ID,
		Name:        src.Name,
		Type:        mapNodeType(src.Type),
		RawType:     src.Type,
		Visible:     src.Visible == nil || *src.Visible,
		Interactive: len(src.Interactions) > 0,
		ComponentID: src.ComponentID,
	}
	if src.Box != nil {
		n.Bounds = &Bounds{X: src.Box.X, Y: src.Box.Y, W: src.Box.Width, H: src.Box.Height}
	}
	if n.Type == NodeText {
		n.Text = src.Characters
		if src.Style != nil {
			n.FontSize = src.Style.FontSize
		}
	}
	return n
}

// collect appends the node to the flat key-element lists it qualifies for.
func collect(n *Node, pageName string, doc *Document) {
	el := Element{ID: n.ID, Name: n.Name, Page: pageName, Text: n.Text}
	switch {
	case n.Type == NodeText && n.Visible && n.Text != "":
		doc.TextElements = append(doc.TextElements, el)
	case n.Type == NodeComponent:
		doc.Components = append(doc.Components, el)
	}
	if n.Interactive {
		doc.InteractiveElements = append(doc.InteractiveElements, el)
	}
}

// Save writes the document as indented JSON. The output is deterministic:
// field order follows the struct definition and slices keep source order.
func (d *Document) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("figma: mkdir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("figma: marshal document: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("figma: write %s: %w", path, err)
	}
	return nil
}

// LoadDocument reads a previously saved design document from disk.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("figma: read %s: %w", path, err)
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("figma: decode %s: %w", path, err)
	}
	return &d, nil
}
