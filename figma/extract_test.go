package figma

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

const fixtureFile = `{
  "name": "Signup Flow",
  "document": {
    "id": "0:0", "name": "Document", "type": "DOCUMENT",
    "children": [
      {
        "id": "1:0", "name": "Page 1", "type": "CANVAS",
        "children": [
          {
            "id": "1:1", "name": "Signup Frame", "type": "FRAME",
            "absoluteBoundingBox": {"x": 0, "y": 0, "width": 375, "height": 812},
            "children": [
              {
                "id": "1:2", "name": "Title", "type": "TEXT",
                "characters": "Sign Up",
                "style": {"fontSize": 24}
              },
              {
                "id": "1:3", "name": "Submit", "type": "INSTANCE",
                "componentId": "c:1",
                "interactions": [{"trigger": "ON_CLICK"}]
              },
              {
                "id": "1:4", "name": "Hidden note", "type": "TEXT",
                "visible": false, "characters": "internal"
              }
            ]
          }
        ]
      },
      {
        "id": "2:0", "name": "Page 2", "type": "CANVAS",
        "children": []
      }
    ]
  }
}`

func parseFixture(t *testing.T) *File {
	t.Helper()
	var f File
	if err := json.Unmarshal([]byte(fixtureFile), &f); err != nil {
		t.Fatal(err)
	}
	return &f
}

func TestExtractStructure(t *testing.T) {
	doc, err := Extract(parseFixture(t), Limits{})
	if err != nil {
		t.Fatal(err)
	}

	if doc.FileName != "Signup Flow" {
		t.Errorf("file name = %q", doc.FileName)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(doc.Pages))
	}
	// Frame + 3 children on page 1, nothing on page 2.
	if got := doc.NodeCount(); got != 4 {
		t.Errorf("node count = %d, want 4", got)
	}

	frame := doc.Pages[0].Frames[0]
	if frame.Type != NodeFrame {
		t.Errorf("frame type = %q", frame.Type)
	}
	if frame.Bounds == nil || frame.Bounds.W != 375 {
		t.Errorf("frame bounds = %+v", frame.Bounds)
	}
	if len(frame.Children) != 3 {
		t.Fatalf("frame children = %d, want 3", len(frame.Children))
	}
	if frame.Children[0].Text != "Sign Up" || frame.Children[0].FontSize != 24 {
		t.Errorf("text node = %+v", frame.Children[0])
	}
}

func TestExtractKeyElements(t *testing.T) {
	doc, err := Extract(parseFixture(t), Limits{})
	if err != nil {
		t.Fatal(err)
	}

	// Only the visible text node qualifies.
	if len(doc.TextElements) != 1 || doc.TextElements[0].Text != "Sign Up" {
		t.Errorf("text elements = %+v", doc.TextElements)
	}
	if len(doc.Components) != 1 || doc.Components[0].Name != "Submit" {
		t.Errorf("components = %+v", doc.Components)
	}
	if len(doc.InteractiveElements) != 1 || doc.InteractiveElements[0].ID != "1:3" {
		t.Errorf("interactive = %+v", doc.InteractiveElements)
	}
	if doc.TextElements[0].Page != "Page 1" {
		t.Errorf("page attribution = %q", doc.TextElements[0].Page)
	}
}

func TestExtractDeterministic(t *testing.T) {
	a, err := Extract(parseFixture(t), Limits{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Extract(parseFixture(t), Limits{})
	if err != nil {
		t.Fatal(err)
	}

	ja, _ := json.MarshalIndent(a, "", "  ")
	jb, _ := json.MarshalIndent(b, "", "  ")
	if !bytes.Equal(ja, jb) {
		t.Fatal("extraction of identical input is not byte-identical")
	}
}

func TestExtractDepthGuard(t *testing.T) {
	// Chain of nested frames deeper than the limit.
	leaf := RawNode{ID: "n", Name: "leaf", Type: "FRAME"}
	node := leaf
	for i := 0; i < 10; i++ {
		node = RawNode{ID: "n", Name: "nest", Type: "FRAME", Children: []RawNode{node}}
	}
	f := &File{
		Name: "deep",
		Document: RawNode{
			Type: "DOCUMENT",
			Children: []RawNode{
				{ID: "1:0", Name: "P", Type: "CANVAS", Children: []RawNode{node}},
			},
		},
	}

	_, err := Extract(f, Limits{MaxDepth: 5})
	if !errors.Is(err, ErrTreeTooDeep) {
		t.Fatalf("expected ErrTreeTooDeep, got %v", err)
	}
}

func TestExtractSizeGuard(t *testing.T) {
	children := make([]RawNode, 20)
	for i := range children {
		children[i] = RawNode{ID: "x", Name: "n", Type: "RECTANGLE"}
	}
	f := &File{
		Name: "wide",
		Document: RawNode{
			Type: "DOCUMENT",
			Children: []RawNode{
				{ID: "1:0", Name: "P", Type: "CANVAS",
					Children: []RawNode{{ID: "1:1", Name: "F", Type: "FRAME", Children: children}}},
			},
		},
	}

	_, err := Extract(f, Limits{MaxNodes: 10})
	if !errors.Is(err, ErrTreeTooLarge) {
		t.Fatalf("expected ErrTreeTooLarge, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	doc, err := Extract(parseFixture(t), Limits{})
	if err != nil {
		t.Fatal(err)
	}
	path := t.TempDir() + "/design.json"
	if err := doc.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.FileName != doc.FileName || len(loaded.Pages) != len(doc.Pages) {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}
