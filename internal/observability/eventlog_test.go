package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestEventLog_WriteAndRead(t *testing.T) {
	log, _ := newTestLog(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	events := []Event{
		{
			Time:    now,
			Level:   "INFO",
			Type:    EventTaskCreated,
			Message: "task created",
			Data:    map[string]any{"task_id": "abc"},
		},
		{
			Time:    now.Add(time.Second),
			Level:   "WARN",
			Type:    EventAIRequestFailed,
			Message: "enhance failed",
			Data:    map[string]any{"task_id": "abc"},
		},
	}
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 events, got %d", len(result))
	}
	if result[0].Type != EventTaskCreated {
		t.Errorf("expected type %s, got %s", EventTaskCreated, result[0].Type)
	}
	if result[1].Level != "WARN" {
		t.Errorf("expected level WARN, got %s", result[1].Level)
	}
}

func TestEventLog_FilterByType(t *testing.T) {
	log, _ := newTestLog(t)

	for _, typ := range []string{EventTaskCreated, EventTaskDeleted, EventTaskCreated} {
		if err := log.Write(Event{Level: "INFO", Type: typ}); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	result, err := log.Read(EventFilter{Type: EventTaskCreated})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(result))
	}
}

func TestEventLog_StampsMissingTime(t *testing.T) {
	log, _ := newTestLog(t)

	if err := log.Write(Event{Level: "INFO", Type: EventTaskCreated}); err != nil {
		t.Fatalf("writing event: %v", err)
	}
	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != 1 || result[0].Time.IsZero() {
		t.Fatal("event must be stamped with a write time")
	}
}

func TestEventLog_SkipsMalformedLines(t *testing.T) {
	log, path := newTestLog(t)

	if err := log.Write(Event{Level: "INFO", Type: EventTaskCreated}); err != nil {
		t.Fatalf("writing event: %v", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening log: %v", err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatalf("appending garbage: %v", err)
	}
	_ = f.Close()

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected malformed line skipped, got %d events", len(result))
	}
}

func TestRecord_NilLog(t *testing.T) {
	// Must not panic.
	Record(nil, EventTaskCreated, "created", nil)
	RecordWarn(nil, EventAIRequestFailed, "failed", nil)
}
