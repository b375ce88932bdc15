package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteJSONRawMessageKeepsOrder(t *testing.T) {
	raw := json.RawMessage(`{"zeta":1,"alpha":{"value":"<p>x</p>"},"list":[3,1,2]}`)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, raw); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	want := "{\n  \"zeta\": 1,\n  \"alpha\": {\n    \"value\": \"<p>x</p>\"\n  },\n  \"list\": [\n    3,\n    1,\n    2\n  ]\n}\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteJSONFailureWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(&buf, map[string]any{"bad": func() {}})
	if err == nil {
		t.Fatal("expected encode error")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, "conflict (HTTP 409 Conflict):\n  stale version")
	if got := buf.String(); got != "Error: conflict (HTTP 409 Conflict): stale version\n" {
		t.Fatalf("unexpected error line %q", got)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var quiet bytes.Buffer
	NewLogger(&quiet, false).Debug("hidden")
	if quiet.Len() != 0 {
		t.Fatalf("debug output leaked without verbose: %q", quiet.String())
	}

	var loud bytes.Buffer
	NewLogger(&loud, true).Debug("shown", "cursor", "abc")
	if !strings.Contains(loud.String(), "shown") || !strings.Contains(loud.String(), "cursor=abc") {
		t.Fatalf("expected debug output, got %q", loud.String())
	}
}
