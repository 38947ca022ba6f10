package pubsub

import (
	"encoding/json"
	"testing"
)

func TestNewRunCompletedEvent(t *testing.T) {
	e, err := NewRunCompletedEvent(map[string]interface{}{
		"run_id":    "run-1",
		"sheet_url": "https://docs.google.com/spreadsheets/d/abc/edit",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.SpecVersion() != "1.0" {
		t.Errorf("unexpected spec version: %q", e.SpecVersion())
	}
	if e.Type() != EventTypeRunCompleted {
		t.Errorf("unexpected type: %q", e.Type())
	}
	if e.Source() != EventSource {
		t.Errorf("unexpected source: %q", e.Source())
	}
	if e.ID() == "" {
		t.Error("expected a generated event ID")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(e.Data(), &data); err != nil {
		t.Fatalf("event data is not JSON: %v", err)
	}
	if data["run_id"] != "run-1" {
		t.Errorf("unexpected data: %v", data)
	}
}
