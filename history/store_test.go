package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndList(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "db", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	now := time.Now().UnixMilli()

	runs := []*Run{
		{Command: "extract", FileID: "abc", Status: "ok", StartedAt: now - 2000},
		{Command: "pipeline", FileID: "abc", ScenarioType: "ui", Formats: "all",
			Outputs: map[string]string{"markdown": "output/x.md"}, Status: "ok", StartedAt: now - 1000},
		{Command: "generate", ScenarioType: "functional", Status: "error",
			Error: "bedrock: invoke: throttled", StartedAt: now},
	}
	for _, r := range runs {
		if err := store.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
		if r.ID == "" {
			t.Error("Record did not assign an ID")
		}
	}

	got, err := store.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("runs = %d, want 3", len(got))
	}
	// Newest first.
	if got[0].Command != "generate" || got[2].Command != "extract" {
		t.Errorf("order = %s, %s, %s", got[0].Command, got[1].Command, got[2].Command)
	}
	if got[1].Outputs["markdown"] != "output/x.md" {
		t.Errorf("outputs round trip = %+v", got[1].Outputs)
	}
}

func TestListLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, &Run{Command: "check", Status: "ok", StartedAt: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("runs = %d, want 2", len(got))
	}
}
