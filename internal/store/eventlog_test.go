package store

import (
	"context"
	"testing"
	"time"
)

func TestAppendAndReadEvents(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	if err := s.AppendEvent(ctx, "task.add", "task-one00001", map[string]string{"text": "one"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	time.Sleep(2 * time.Millisecond) // distinct timestamps keep ordering deterministic
	if err := s.AppendEvent(ctx, "task.toggle", "task-one00001", nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := s.ReadEvents(ctx, 10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events: %d", len(events))
	}
	if events[0].Type != "task.add" || events[1].Type != "task.toggle" {
		t.Fatalf("order: %v, %v", events[0].Type, events[1].Type)
	}
	if events[0].EntityID != "task-one00001" {
		t.Fatalf("entity: %q", events[0].EntityID)
	}
	if events[0].TS.IsZero() {
		t.Fatal("missing timestamp")
	}
}

func TestAppendEventIgnoresEmpty(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	if err := s.AppendEvent(ctx, "", "task-x", nil); err != nil {
		t.Fatalf("append empty type: %v", err)
	}
	events, err := s.ReadEvents(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("events: %d", len(events))
	}
}

func TestReadEventsHonorsLimit(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	for _, typ := range []string{"a", "b", "c", "d"} {
		if err := s.AppendEvent(ctx, typ, "task-x", nil); err != nil {
			t.Fatal(err)
		}
	}
	events, err := s.ReadEvents(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("events: %d", len(events))
	}
}
