package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRecorderCopiesMetadata(t *testing.T) {
	recorder := NewMemoryRecorder()
	meta := map[string]any{"ui_style": "buttons"}

	if err := recorder.Record(context.Background(), Event{Action: "updated", Metadata: meta, OccurredAt: time.Now()}); err != nil {
		t.Fatalf("record: %v", err)
	}
	meta["ui_style"] = "radios"

	events := recorder.Events()
	if len(events) != 1 || events[0].Metadata["ui_style"] != "buttons" {
		t.Fatalf("unexpected events %+v", events)
	}

	if err := recorder.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(recorder.Events()) != 0 {
		t.Fatal("expected no events after clear")
	}
}

func TestMemoryRecorderFail(t *testing.T) {
	recorder := NewMemoryRecorder()
	boom := errors.New("boom")
	recorder.Fail(boom)

	if err := recorder.Record(context.Background(), Event{Action: "updated"}); !errors.Is(err, boom) {
		t.Fatalf("expected configured error, got %v", err)
	}
}

func TestLoggerRecorderStoresEvents(t *testing.T) {
	recorder := NewLoggerRecorder(nil)
	if err := recorder.Record(context.Background(), Event{EntityType: "workflowui_settings", Action: "deleted"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if events := recorder.Events(); len(events) != 1 || events[0].Action != "deleted" {
		t.Fatalf("unexpected events %+v", events)
	}
}
